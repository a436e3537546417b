package store

import "sync"

// KeyedMutex hands out one mutex per username so every read-modify-write
// sequence touching a user's records runs serialized. The store itself has no
// transactional isolation, so skipping this lock loses updates under
// concurrent requests for the same user.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for username and returns its unlock func.
func (k *KeyedMutex) Lock(username string) func() {
	key := NormalizeUsername(username)
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}
