package allocation

import (
	"fmt"
	"sync"
)

// lockTable hands out one mutex per key (per lot, per user) so reserve and
// release serialize only against operations touching the same lot or the
// same user. Mutexes are never removed; the key space is bounded by the
// number of lots and users.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	return m
}

func userKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func lotKey(lotID uint) string {
	return fmt.Sprintf("lot:%d", lotID)
}
