package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a filled field: either a scalar string or an ordered list of strings.
// Values are immutable once built.
type Value struct {
	text  string
	items []string
	list  bool
}

// Text builds a scalar value.
func Text(s string) *Value {
	return &Value{text: strings.TrimSpace(s)}
}

// List builds a list value. Blank items are dropped.
func List(items ...string) *Value {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return &Value{items: kept, list: true}
}

// IsList reports whether v holds a list.
func (v *Value) IsList() bool {
	return v != nil && v.list
}

// Empty reports whether v counts as unfilled: nil, blank text or an empty list.
func (v *Value) Empty() bool {
	if v == nil {
		return true
	}
	if v.list {
		return len(v.items) == 0
	}
	return v.text == ""
}

// String returns the scalar text, or list items joined with ", ".
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	if v.list {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// Items returns the list items, or the scalar as a one-element list.
// The result is never nil.
func (v *Value) Items() []string {
	if v.Empty() {
		return []string{}
	}
	if v.list {
		return append([]string(nil), v.items...)
	}
	return []string{v.text}
}

// MarshalJSON encodes scalars as strings and lists as arrays.
func (v *Value) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	if v.list {
		return marshalNoEscape(v.Items())
	}
	return marshalNoEscape(v.text)
}

// UnmarshalJSON accepts any JSON shape, see ParseValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	if parsed == nil {
		*v = Value{}
		return nil
	}
	*v = *parsed
	return nil
}

// ParseValue converts loosely shaped model output into a Value.
// Strings stay strings, numbers are kept verbatim, arrays become lists and
// objects are kept as compact JSON text. null and false yield nil.
func ParseValue(raw json.RawMessage) (*Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case 'n':
		return nil, nil
	case 'f':
		return nil, nil
	case 't':
		return Text("true"), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, err
		}
		items := make([]string, 0, len(elems))
		for _, elem := range elems {
			item, err := ParseValue(elem)
			if err != nil {
				return nil, err
			}
			if !item.Empty() {
				items = append(items, item.String())
			}
		}
		return List(items...), nil
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return nil, err
		}
		return Text(buf.String()), nil
	default:
		if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
			return nil, fmt.Errorf("unsupported value %q", trimmed)
		}
		return Text(string(trimmed)), nil
	}
}

// Fields maps a persona's declared field names, in declaration order, to values.
// The key set is fixed at construction.
type Fields struct {
	names  []string
	values map[string]*Value
}

// NewFields returns an all-empty field map for the given names.
func NewFields(names ...string) *Fields {
	f := &Fields{
		names:  make([]string, 0, len(names)),
		values: make(map[string]*Value, len(names)),
	}
	for _, name := range names {
		if _, dup := f.values[name]; dup {
			continue
		}
		f.names = append(f.names, name)
		f.values[name] = nil
	}
	return f
}

// Names returns the declared field names in order.
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.names...)
}

// Len is the number of declared fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// Has reports whether name is a declared field.
func (f *Fields) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Get returns the value of name, nil when unfilled or undeclared.
func (f *Fields) Get(name string) *Value {
	if f == nil {
		return nil
	}
	return f.values[name]
}

// Text is shorthand for Get(name).String().
func (f *Fields) Text(name string) string {
	return f.Get(name).String()
}

// Fill stores v under name when name is declared, currently empty and v is
// non-empty. It reports whether the value was stored.
func (f *Fields) Fill(name string, v *Value) bool {
	if f == nil || v.Empty() {
		return false
	}
	current, ok := f.values[name]
	if !ok || !current.Empty() {
		return false
	}
	f.values[name] = v
	return true
}

// Merge fills every declared, empty slot from values and returns the names that
// were filled, in declaration order.
func (f *Fields) Merge(values map[string]*Value) []string {
	if f == nil || len(values) == 0 {
		return nil
	}
	var filled []string
	for _, name := range f.names {
		if f.Fill(name, values[name]) {
			filled = append(filled, name)
		}
	}
	return filled
}

// Filled lists names that hold a value.
func (f *Fields) Filled() []string {
	return f.collect(false)
}

// Missing lists names that are still empty.
func (f *Fields) Missing() []string {
	return f.collect(true)
}

func (f *Fields) collect(empty bool) []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.names))
	for _, name := range f.names {
		if f.values[name].Empty() == empty {
			out = append(out, name)
		}
	}
	return out
}

// Complete reports whether every declared field holds a value.
func (f *Fields) Complete() bool {
	return f != nil && len(f.Missing()) == 0
}

// Only returns a copy restricted to names, keeping declaration order.
func (f *Fields) Only(names []string) *Fields {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	out := NewFields()
	if f == nil {
		return out
	}
	for _, name := range f.names {
		if keep[name] {
			out.names = append(out.names, name)
			out.values[name] = f.values[name]
		}
	}
	return out
}

// Clone copies the map. Values are shared since they are immutable.
func (f *Fields) Clone() *Fields {
	if f == nil {
		return nil
	}
	return f.Only(f.names)
}

// MarshalJSON writes an object whose keys follow declaration order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(name)
		if err != nil {
			return nil, err
		}
		val, err := f.values[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, declaring keys in the order they appear.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}

	out := NewFields()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		val, err := ParseValue(raw)
		if err != nil {
			return fmt.Errorf("fields: %s: %w", name, err)
		}
		if _, dup := out.values[name]; !dup {
			out.names = append(out.names, name)
		}
		out.values[name] = val
	}
	*f = *out
	return nil
}

// Indent renders f as two-space indented JSON.
func (f *Fields) Indent() string {
	raw, err := f.MarshalJSON()
	if err != nil {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
