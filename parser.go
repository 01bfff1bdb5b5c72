// Package lace provides parsing capabilities for Lace documents.
package lace

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	identPattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)
	constRefPattern = regexp.MustCompile(`^!\(([a-zA-Z][a-zA-Z0-9]*)\)$`)
	bindingPattern  = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)\s*:=\s*(.+)$`)
	intPattern      = regexp.MustCompile(`^[0-9]+$`)
	floatPattern    = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
)

// Parser parses Lace documents. Each call to Parse uses a fresh constant
// table, so one Parser may be reused across documents; it must not be
// shared between goroutines during a parse.
type Parser struct {
	seed   map[string]Value
	consts *ConstTable
}

// NewParser creates a new Parser with an empty constant table.
func NewParser() *Parser {
	return &Parser{consts: NewConstTable()}
}

// WithConstants pre-binds host-defined constants. The bindings are applied
// at the start of every subsequent Parse, before any := line runs.
func (p *Parser) WithConstants(consts map[string]Value) *Parser {
	if p.seed == nil {
		p.seed = make(map[string]Value, len(consts))
	}
	for name, v := range consts {
		p.seed[name] = v
		p.consts.Bind(name, v)
	}
	return p
}

// StripComments removes both comment forms from text. Block comments
// ((* ... *)) are excised from the raw text first, so a block comment may
// span physical lines and its removal merges the surrounding lines; line
// comments (|| to end of line) are truncated afterwards, line by line.
//
// A block-comment opener with no matching closer anywhere after it fails
// with a *SyntaxError of kind UnterminatedComment.
func StripComments(text string) (string, error) {
	for {
		start := strings.Index(text, "(*")
		if start == -1 {
			break
		}
		end := strings.Index(text[start+2:], "*)")
		if end == -1 {
			return "", &SyntaxError{Kind: UnterminatedComment, Msg: "block comment has no matching *)"}
		}
		text = text[:start] + text[start+2+end+2:]
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if pos := strings.Index(line, "||"); pos != -1 {
			lines[i] = line[:pos]
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Parse parses a whole Lace document. It strips comments once over the
// full input, then dispatches each non-blank line to either a constant
// binding (name := value) or a document entry (key = value). Any failure
// while processing a line is re-wrapped with the 1-based line number,
// counted after comment stripping.
func (p *Parser) Parse(text string) (*Document, error) {
	p.consts = NewConstTable()
	for name, v := range p.seed {
		p.consts.Bind(name, v)
	}

	stripped, err := StripComments(text)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for i, raw := range strings.Split(stripped, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if err := p.parseLine(line, doc); err != nil {
			return nil, wrapLine(i+1, err)
		}
	}
	return doc, nil
}

// ParseDocument parses a Lace document from an io.Reader. The whole input
// is read up front: block comments may span lines, so the document cannot
// be parsed incrementally.
func (p *Parser) ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.Parse(string(data))
}

// wrapLine re-wraps a per-line failure with its 1-based line number. The
// cause's kind is carried through so callers can classify the failure
// without unwrapping; every error parseLine produces is a *SyntaxError or
// a *NameError.
func wrapLine(n int, err error) error {
	var kind ErrorKind
	var serr *SyntaxError
	var nerr *NameError
	switch {
	case errors.As(err, &serr):
		kind = serr.Kind
	case errors.As(err, &nerr):
		kind = nerr.Kind
	}
	return &SyntaxError{Kind: kind, Line: n, Err: err}
}

// parseLine dispatches a single trimmed, non-blank line.
func (p *Parser) parseLine(line string, doc *Document) error {
	if strings.Contains(line, ":=") {
		return p.parseBinding(line)
	}
	if strings.Contains(line, "=") {
		key, v, err := p.parseKeyValue(line)
		if err != nil {
			return err
		}
		doc.Set(key, v)
		return nil
	}
	return &SyntaxError{Kind: UnrecognizedLine, Msg: line}
}

// parseBinding handles a name := value line.
func (p *Parser) parseBinding(line string) error {
	m := bindingPattern.FindStringSubmatch(line)
	if m == nil {
		return &SyntaxError{Kind: InvalidBinding, Msg: line}
	}
	v, err := p.ParseValue(m[2])
	if err != nil {
		return err
	}
	p.consts.Bind(m[1], v)
	return nil
}

// parseKeyValue handles a key = value line, splitting on the first =.
func (p *Parser) parseKeyValue(line string) (string, Value, error) {
	key, rest, _ := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !identPattern.MatchString(key) {
		return "", nil, &SyntaxError{Kind: InvalidKey, Msg: key}
	}
	v, err := p.ParseValue(rest)
	if err != nil {
		return "", nil, err
	}
	return key, v, nil
}

// ParseValue classifies and parses a single textual value. First match
// wins: constant reference, number, bracketed text, array, then bareword.
// Any non-empty token no stricter form recognizes falls through to
// Bareword verbatim rather than failing; only a constant reference to an
// unbound name or a malformed array body produces an error.
func (p *Parser) ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)

	if m := constRefPattern.FindStringSubmatch(s); m != nil {
		return p.consts.Resolve(m[1])
	}

	if intPattern.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int(n), nil
		}
		// Out of int64 range: fall through to Bareword like any other
		// unrecognized token.
	}

	if floatPattern.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return Float(f), nil
		}
	}

	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") {
		return Text(s[2 : len(s)-2]), nil
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return p.ParseArray(s)
	}

	return Bareword(s), nil
}

// ParseArray parses an array literal. The trimmed text must start with {
// and end with }; anything else fails with a *SyntaxError of kind
// MalformedArray.
//
// Items are terminator-delimited: each item is followed by a literal .
// recognized only at nesting depth zero. The scan tracks a brace depth
// ({/}) and an independent bracket depth ([/], counting the double-bracket
// string markers character by character), so items may themselves be
// arrays or bracketed strings containing the terminator. A synthetic
// trailing terminator flushes the final item; empty items are discarded.
func (p *Parser) ParseArray(s string) (Array, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, &SyntaxError{Kind: MalformedArray, Msg: s}
	}

	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return Array{}, nil
	}

	var (
		items            []string
		item             strings.Builder
		braces, brackets int
	)
	for _, ch := range body + "." {
		if ch == '.' && braces == 0 && brackets == 0 {
			if it := strings.TrimSpace(item.String()); it != "" {
				items = append(items, it)
			}
			item.Reset()
			continue
		}
		switch ch {
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
		item.WriteRune(ch)
	}

	values := make(Array, 0, len(items))
	for _, it := range items {
		v, err := p.ParseValue(it)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
