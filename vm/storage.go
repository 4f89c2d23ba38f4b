package vm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tqscript/tqvm/values"
)

// globalStore is the storage-interface seam for VM-global bindings: a plain
// map in single-threaded mode, a sync.RWMutex-guarded map in shared mode.
// Selecting the implementation at VM-construction time (WithShared) is the
// idiomatic Go substitute for the Rust original's #[cfg(feature = "async")]
// conditional compilation.
type globalStore interface {
	get(ident uint64) (values.Value, bool)
	set(ident uint64, v values.Value)
}

type plainGlobalStore struct {
	m map[uint64]values.Value
}

func newPlainGlobalStore() *plainGlobalStore {
	return &plainGlobalStore{m: make(map[uint64]values.Value)}
}

func (s *plainGlobalStore) get(ident uint64) (values.Value, bool) {
	v, ok := s.m[ident]
	return v, ok
}

func (s *plainGlobalStore) set(ident uint64, v values.Value) {
	s.m[ident] = v
}

type lockedGlobalStore struct {
	mu sync.RWMutex
	m  map[uint64]values.Value
}

func newLockedGlobalStore() *lockedGlobalStore {
	return &lockedGlobalStore{m: make(map[uint64]values.Value)}
}

func (s *lockedGlobalStore) get(ident uint64) (values.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[ident]
	return v, ok
}

func (s *lockedGlobalStore) set(ident uint64, v values.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[ident] = v
}

// collisionTable backs WithCollisionDetection: it remembers the first
// canonical lowercased name seen for each identifier hash and flags a
// mismatch on any later, different name mapping to the same hash.
type collisionTable struct {
	mu    sync.Mutex
	names map[uint64]string
}

func newCollisionTable() *collisionTable {
	return &collisionTable{names: make(map[uint64]string)}
}

func (c *collisionTable) check(ident uint64, name string) error {
	lname := strings.ToLower(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.names[ident]
	if !ok {
		c.names[ident] = lname
		return nil
	}
	if existing != lname {
		return fmt.Errorf("%w: %q and %q both hash to %d", ErrIdentifierCollision, existing, lname, ident)
	}
	return nil
}
