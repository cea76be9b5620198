package kv

import (
	"iter"

	"github.com/indigo-web/formdata/internal/strutil"
)

type Pair struct {
	Key, Value string
}

// Storage is an ordered collection of (string, string) pairs, used to represent header
// blocks of multipart parts. Keys are stored as they were received, but looked up
// case-insensitively. Linear search is used instead of hashing, which is cheaper on the
// handful of entries a part header normally carries.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromPairs builds a Storage from alternating keys and values. A trailing key without
// a value is stored with an empty one.
func NewFromPairs(kv ...string) *Storage {
	s := NewPrealloc((len(kv) + 1) / 2)

	for i := 0; i < len(kv); i += 2 {
		var value string
		if i+1 < len(kv) {
			value = kv[i+1]
		}

		s.Add(kv[i], value)
	}

	return s
}

// Add adds a new pair of key and value.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	value, _ := s.Get(key)
	return value
}

// Get returns a value and a bool, indicating whether the value was found.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strutil.CmpFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns an iterator over all the values of the key.
func (s *Storage) Values(key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range s.pairs {
			if strutil.CmpFold(pair.Key, key) && !yield(pair.Value) {
				return
			}
		}
	}
}

// Params looks up the first value of the key and splits it into the bare value and an
// iterator over its semicolon-separated parameters, e.g. `form-data; name="title"`.
func (s *Storage) Params(key string) (value string, params iter.Seq2[string, string], found bool) {
	raw, found := s.Get(key)
	if !found {
		return "", strutil.WalkKV(""), false
	}

	value, rest := strutil.CutHeader(raw)
	return value, strutil.WalkKV(rest), true
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Keys returns an iterator over unique keys, in order of their first appearance.
func (s *Storage) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, pair := range s.pairs {
			if s.seen(i, pair.Key) {
				continue
			}

			if !yield(pair.Key) {
				return
			}
		}
	}
}

func (s *Storage) seen(before int, key string) bool {
	for _, pair := range s.pairs[:before] {
		if strutil.CmpFold(pair.Key, key) {
			return true
		}
	}

	return false
}

// Pairs returns an iterator over all the pairs in order of insertion.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}
