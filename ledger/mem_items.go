package ledger

import (
	"bytes"
	"sort"
)

type memItems[T ILedgerItem] struct {
	gotItems     map[LedgerKey]T
	updatedItems map[LedgerKey]T
	removedKeys  []LedgerKey
}

func newMemItems[T ILedgerItem]() *memItems[T] {
	return &memItems[T]{
		gotItems:     make(map[LedgerKey]T),
		updatedItems: make(map[LedgerKey]T),
	}
}

func (m *memItems[T]) setGotItem(item T) {
	m.gotItems[item.Key()] = item
}

// setUpdatedItem also revives the key if it was removed in the same version.
func (m *memItems[T]) setUpdatedItem(item T) {
	key := item.Key()
	m.updatedItems[key] = item
	m.delRemovedKey(key)
}

func (m *memItems[T]) appendRemovedKey(key LedgerKey) {
	if !m.isRemoved(key) {
		m.removedKeys = append(m.removedKeys, key)
	}
}

func (m *memItems[T]) isRemoved(key LedgerKey) bool {
	for _, key0 := range m.removedKeys {
		if key0 == key {
			return true
		}
	}
	return false
}

func (m *memItems[T]) getGotItem(key LedgerKey) (T, bool) {
	item, ok := m.gotItems[key]
	return item, ok
}

func (m *memItems[T]) delGotItem(key LedgerKey) T {
	item, ok := m.gotItems[key]
	if ok {
		delete(m.gotItems, key)
	}
	return item
}

func (m *memItems[T]) delUpdatedItem(key LedgerKey) T {
	item, ok := m.updatedItems[key]
	if ok {
		delete(m.updatedItems, key)
	}
	return item
}

func (m *memItems[T]) delRemovedKey(key LedgerKey) {
	for i, key0 := range m.removedKeys {
		if key0 == key {
			m.removedKeys = append(m.removedKeys[:i], m.removedKeys[i+1:]...)
			return
		}
	}
}

// sortedUpdatedKeys returns the keys of updated items in a deterministic order.
// The root hash of the tree depends on the order of updates.
func (m *memItems[T]) sortedUpdatedKeys() []LedgerKey {
	keys := make([]LedgerKey, 0, len(m.updatedItems))
	for k := range m.updatedItems {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

func (m *memItems[T]) reset() {
	m.gotItems = make(map[LedgerKey]T)
	m.updatedItems = make(map[LedgerKey]T)
	m.removedKeys = nil
}
