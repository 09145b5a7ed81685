package mapjson

import (
	"iter"
	"reflect"
)

// OrderedMap is a map that remembers insertion order. It encodes as a JSON
// object with members in that order, and decoding preserves the order of
// the input. The zero value is an empty map ready to use.
type OrderedMap[K comparable, V any] struct {
	keys  []K
	index map[K]int
	vals  []V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{}
}

// Set stores v under k. A new key goes last; an existing key keeps its place.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under k.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Delete removes k, keeping the order of the remaining keys.
func (m *OrderedMap[K, V]) Delete(k K) {
	i, ok := m.index[k]
	if !ok {
		return
	}
	delete(m.index, k)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in order.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// All iterates over the entries in order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// TypeParams implements Associative.
func (m *OrderedMap[K, V]) TypeParams() []reflect.Type {
	return []reflect.Type{reflect.TypeFor[K](), reflect.TypeFor[V]()}
}

// Range implements Associative.
func (m *OrderedMap[K, V]) Range(yield func(key, value reflect.Value) bool) {
	for i, k := range m.keys {
		if !yield(reflect.ValueOf(&k).Elem(), reflect.ValueOf(&m.vals[i]).Elem()) {
			return
		}
	}
}

// Store implements Associative.
func (m *OrderedMap[K, V]) Store(key, value reflect.Value) {
	var (
		k K
		v V
	)
	if key.IsValid() {
		k, _ = key.Interface().(K)
	}
	if value.IsValid() {
		v, _ = value.Interface().(V)
	}
	m.Set(k, v)
}
