package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Set is an insertion-order-preserving collection of unique values.
// It marshals as a plain JSON array so catalogs stay diffable.
type Set[T comparable] struct {
	hash  map[T]int
	items []T
}

func NewSet[T comparable](items ...T) *Set[T] {
	set := &Set[T]{
		hash: make(map[T]int),
	}
	set.Insert(items...)

	return set
}

func (s *Set[T]) Insert(items ...T) {
	if s.hash == nil {
		s.hash = make(map[T]int)
	}
	for _, item := range items {
		if _, exists := s.hash[item]; exists {
			continue
		}
		s.hash[item] = len(s.items)
		s.items = append(s.items, item)
	}
}

func (s *Set[T]) Exists(item T) bool {
	if s == nil {
		return false
	}
	_, exists := s.hash[item]

	return exists
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}

// Array returns the items in insertion order; mutating the result does not
// affect the set.
func (s *Set[T]) Array() []T {
	if s == nil {
		return nil
	}

	return append([]T{}, s.items...)
}

func (s *Set[T]) Range(f func(item T) bool) {
	if s == nil {
		return
	}
	for _, item := range s.items {
		if !f(item) {
			return
		}
	}
}

// Difference returns the items present in s but absent from other,
// preserving s's insertion order.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	diff := NewSet[T]()
	if s == nil {
		return diff
	}
	for _, item := range s.items {
		if !other.Exists(item) {
			diff.Insert(item)
		}
	}

	return diff
}

// ProperSubsetOf reports whether every item of s exists in other and
// other carries at least one more.
func (s *Set[T]) ProperSubsetOf(other *Set[T]) bool {
	if s.Len() >= other.Len() {
		return false
	}
	for _, item := range s.items {
		if !other.Exists(item) {
			return false
		}
	}

	return true
}

func (s *Set[T]) String() string {
	if s == nil {
		return "[]"
	}

	return fmt.Sprintf("%v", s.items)
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(s.items)
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	s.hash = make(map[T]int)
	s.items = s.items[:0]
	s.Insert(items...)

	return nil
}
