// Package storage provides the string-keyed blob store the library adapter
// persists into. It is deliberately tiny: get, set, delete. Anything richer
// (indexes, per-record keys, transactions) lives above it.
package storage

// Store is a durable string-keyed blob store.
type Store interface {
	// Get returns the value stored under key. The second return value is
	// false when the key is absent.
	Get(key string) (string, bool, error)
	// Set overwrites the value stored under key.
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}
