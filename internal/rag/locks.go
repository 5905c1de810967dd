package rag

import "sync"

// keyedLocks hands out one mutex per session id so that index builds and
// deletes for the same session are serialized while different sessions
// never block each other.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) get(id string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	return l
}

func (k *keyedLocks) drop(id string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.locks, id)
}
