package store

import "sync"

// keyLocks hands out one mutex per entity key. Entries are never evicted; the
// table is bounded by the number of live entities.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// tryAcquire enters the entity's critical section without blocking. The
// second return is false when another operation holds it.
func (k *keyLocks) tryAcquire(key string) (release func(), ok bool) {
	lock := k.get(key)
	if !lock.TryLock() {
		return nil, false
	}
	return lock.Unlock, true
}
