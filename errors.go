package lace

import "fmt"

// ErrorKind classifies parse failures.
type ErrorKind string

// SyntaxError kinds.
const (
	UnterminatedComment ErrorKind = "unterminated comment"
	MalformedArray      ErrorKind = "malformed array"
	InvalidBinding      ErrorKind = "invalid binding"
	InvalidKey          ErrorKind = "invalid key"
	UnrecognizedLine    ErrorKind = "unrecognized line"
)

// NameError kinds.
const (
	UndefinedConstant ErrorKind = "undefined constant"
)

// SyntaxError reports a structural violation in the input: an unterminated
// block comment, malformed array delimiters, a malformed key/value line, an
// invalid key or binding name, or a line matching no recognized form.
//
// When raised while processing a document line, Line carries the 1-based
// line number counted after comment stripping, and Err carries the
// underlying cause.
type SyntaxError struct {
	Kind ErrorKind
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Line > 0 && e.Err != nil:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return string(e.Kind)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NameError reports a semantic violation: a reference to a constant not yet
// bound at the point of reference.
type NameError struct {
	Kind ErrorKind
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Name)
}
