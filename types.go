// Package lace defines the core data structures for Lace parsing.
package lace

// Value represents any Lace value. It is one of Int, Float, Text,
// Bareword, or Array.
type Value any

// Int is a numeric value whose source token carries no fractional
// separator.
type Int int64

// Float is a numeric value whose source token carries a fractional
// separator.
type Float float64

// Text is a string value delimited by [[ and ]] in the source. Contents
// are taken verbatim, including embedded whitespace; there are no escape
// sequences.
type Text string

// Bareword is an unquoted token accepted as a literal string value when
// no stricter form matches. It is distinct from Text.
type Bareword string

// Array is an ordered sequence of values. Items may nest arbitrarily deep.
type Array []Value

// Entry is a single key-value pair in a document.
type Entry struct {
	Key   string
	Value Value
}

// Document represents a parsed Lace document: an ordered mapping from
// top-level key to value. Entry order matches textual order; rewriting an
// existing key keeps its original position.
type Document struct {
	Entries []Entry
}

// Get returns the value bound to key and whether the key is present.
func (d *Document) Get(key string) (Value, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set inserts or overwrites the value for key. Overwriting keeps the
// entry's original position; new keys append.
func (d *Document) Set(key string, v Value) {
	for i, e := range d.Entries {
		if e.Key == key {
			d.Entries[i].Value = v
			return
		}
	}
	d.Entries = append(d.Entries, Entry{Key: key, Value: v})
}

// Len returns the number of entries in the document.
func (d *Document) Len() int {
	return len(d.Entries)
}

// ConstTable holds name-to-value bindings made with := lines. A table is
// owned by a single parse invocation and populated strictly in document
// order; it is never shared or process-wide.
type ConstTable struct {
	consts map[string]Value
}

// NewConstTable creates an empty constant table.
func NewConstTable() *ConstTable {
	return &ConstTable{consts: make(map[string]Value)}
}

// Bind inserts or overwrites the value for name. Rebinding is
// last-write-wins; there is no duplicate detection.
func (t *ConstTable) Bind(name string, v Value) {
	t.consts[name] = v
}

// Resolve returns the value bound to name. It fails with a *NameError of
// kind UndefinedConstant if name was never bound before this point in the
// scan; later bindings do not retroactively satisfy earlier references.
func (t *ConstTable) Resolve(name string) (Value, error) {
	v, ok := t.consts[name]
	if !ok {
		return nil, &NameError{Kind: UndefinedConstant, Name: name}
	}
	return v, nil
}
