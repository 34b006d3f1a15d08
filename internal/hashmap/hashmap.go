// Package hashmap implements a separate-chaining hash map with a bucket count
// fixed at construction. It never rehashes; lookups cost O(chain length).
package hashmap

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to a 64-bit hash. The bucket index is hash % bucket count.
type HashFunc[K comparable] func(K) uint64

// StringHash hashes a string key with xxhash64.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	buckets [][]entry[K, V]
	hash    HashFunc[K]
	size    int
}

// New returns a map with bucketCount buckets. A non-positive count is clamped
// to 1. When hash is nil keys are hashed with maphash using a per-map seed.
func New[K comparable, V any](bucketCount int, hash HashFunc[K]) *Map[K, V] {
	if bucketCount < 1 {
		bucketCount = 1
	}

	if hash == nil {
		seed := maphash.MakeSeed()
		hash = func(key K) uint64 {
			return maphash.Comparable(seed, key)
		}
	}

	return &Map[K, V]{
		buckets: make([][]entry[K, V], bucketCount),
		hash:    hash,
	}
}

func (m *Map[K, V]) bucketFor(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

// Associate overwrites the value stored for key, or appends a new entry to
// the key's bucket.
func (m *Map[K, V]) Associate(key K, value V) {
	b := m.bucketFor(key)
	for i := range m.buckets[b] {
		if m.buckets[b][i].key == key {
			m.buckets[b][i].value = value
			return
		}
	}

	m.buckets[b] = append(m.buckets[b], entry[K, V]{key: key, value: value})
	m.size++
}

// Erase removes key if present.
func (m *Map[K, V]) Erase(key K) {
	b := m.bucketFor(key)
	chain := m.buckets[b]
	for i := range chain {
		if chain[i].key != key {
			continue
		}

		copy(chain[i:], chain[i+1:])
		var zero entry[K, V]
		chain[len(chain)-1] = zero
		m.buckets[b] = chain[:len(chain)-1]
		m.size--
		return
	}
}

// Find returns a pointer to the value stored for key, or nil. The pointer is
// only valid until the next call that mutates the map.
func (m *Map[K, V]) Find(key K) *V {
	b := m.bucketFor(key)
	for i := range m.buckets[b] {
		if m.buckets[b][i].key == key {
			return &m.buckets[b][i].value
		}
	}

	return nil
}

func (m *Map[K, V]) Len() int {
	return m.size
}

func (m *Map[K, V]) BucketCount() int {
	return len(m.buckets)
}

// Range calls fn for every entry in bucket order, then insertion order within
// a bucket, until fn returns false. fn must not mutate the map.
func (m *Map[K, V]) Range(fn func(key K, value *V) bool) {
	for b := range m.buckets {
		for i := range m.buckets[b] {
			if !fn(m.buckets[b][i].key, &m.buckets[b][i].value) {
				return
			}
		}
	}
}

// LongestChain reports the length of the most populated bucket.
func (m *Map[K, V]) LongestChain() int {
	longest := 0
	for _, chain := range m.buckets {
		if len(chain) > longest {
			longest = len(chain)
		}
	}

	return longest
}
