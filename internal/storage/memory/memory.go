// Package memory implements storefront storage in process memory.
package memory

import (
	"context"
	"slices"
	"sync"
)

// LocalStorage is an in-memory key/value store partitioned by namespace.
// It is safe for concurrent use.
type LocalStorage struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewLocalStorage returns an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{data: make(map[string]map[string][]byte)}
}

// Namespace returns a view of the store scoped to namespace.
func (s *LocalStorage) Namespace(namespace string) *Namespace {
	return &Namespace{store: s, namespace: namespace}
}

// Namespace is a LocalStorage scoped to one namespace.
type Namespace struct {
	store     *LocalStorage
	namespace string
}

// Load returns a copy of the value stored under key.
func (n *Namespace) Load(_ context.Context, key string) ([]byte, bool, error) {
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()

	v, ok := n.store.data[n.namespace][key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

// Save stores a copy of value under key.
func (n *Namespace) Save(_ context.Context, key string, value []byte) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	ns, ok := n.store.data[n.namespace]
	if !ok {
		ns = make(map[string][]byte)
		n.store.data[n.namespace] = ns
	}
	ns[key] = slices.Clone(value)
	return nil
}

// Delete removes key.
func (n *Namespace) Delete(_ context.Context, key string) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()

	ns := n.store.data[n.namespace]
	delete(ns, key)
	if len(ns) == 0 {
		delete(n.store.data, n.namespace)
	}
	return nil
}
