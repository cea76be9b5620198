package form

import "iter"

// Value is a form field value. It is one of Single, Multiple or Binary.
type Value interface {
	value()
}

type (
	// Single is a field which was submitted once.
	Single string
	// Multiple is a field submitted several times under the same name, e.g. a group of
	// checkboxes. Values are kept in order of their appearance.
	Multiple []string
	// Binary holds raw values of a field which can't be represented in the form charset.
	Binary [][]byte
)

func (Single) value()   {}
func (Multiple) value() {}
func (Binary) value()   {}

// Append returns the value extended by one more entry, turning Single into Multiple.
func Append(v Value, entry string) Value {
	switch v := v.(type) {
	case nil:
		return Single(entry)
	case Single:
		return Multiple{string(v), entry}
	case Multiple:
		return append(v, entry)
	case Binary:
		return append(v, []byte(entry))
	default:
		panic("unreachable code")
	}
}

// Texts returns textual entries of the value. Binary values have none.
func Texts(v Value) []string {
	switch v := v.(type) {
	case Single:
		return []string{string(v)}
	case Multiple:
		return v
	default:
		return nil
	}
}

// Fields is an insertion-ordered dictionary of form fields.
type Fields struct {
	keys   []string
	values map[string]Value
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]Value)}
}

// Set stores the value, replacing the previous one if any.
func (f *Fields) Set(name string, value Value) *Fields {
	if _, found := f.values[name]; !found {
		f.keys = append(f.keys, name)
	}

	f.values[name] = value
	return f
}

// Add appends one more textual entry to the field.
func (f *Fields) Add(name, entry string) *Fields {
	return f.Set(name, Append(f.values[name], entry))
}

// Get returns the value of the field.
func (f *Fields) Get(name string) (Value, bool) {
	value, found := f.values[name]
	return value, found
}

// Value returns the first textual entry of the field or an empty string.
func (f *Fields) Value(name string) string {
	if texts := Texts(f.values[name]); len(texts) > 0 {
		return texts[0]
	}

	return ""
}

// Values returns all textual entries of the field.
func (f *Fields) Values(name string) []string {
	return Texts(f.values[name])
}

// Bytes returns raw entries of a Binary field.
func (f *Fields) Bytes(name string) [][]byte {
	binary, _ := f.values[name].(Binary)
	return binary
}

func (f *Fields) Has(name string) bool {
	_, found := f.values[name]
	return found
}

func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns field names in order of their first appearance.
func (f *Fields) Keys() []string {
	return f.keys
}

// Iter returns an iterator over fields in order of their first appearance.
func (f *Fields) Iter() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range f.keys {
			if !yield(key, f.values[key]) {
				return
			}
		}
	}
}

// Map exposes fields as a plain map. The map is shared with the Fields.
func (f *Fields) Map() map[string]Value {
	return f.values
}
