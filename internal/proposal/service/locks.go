package service

import "sync"

// keyedMutex hands out one mutex per proposal id. Entries are never evicted;
// proposals are never deleted either.
type keyedMutex struct {
	locks sync.Map // map[string]*sync.Mutex
}

func (k *keyedMutex) lock(id string) func() {
	v, _ := k.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
