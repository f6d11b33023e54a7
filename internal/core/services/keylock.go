package services

import (
	"sort"
	"strconv"
	"sync"
)

// KeyLock serialises work on (collection, law number) keys so that two
// ingestions of the same article cannot interleave their snapshot, plan
// and apply steps. Unrelated keys proceed in parallel.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyEntry
}

type keyEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock creates an empty key lock.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyEntry)}
}

// Lock acquires every key in ascending order and returns a function that
// releases them. Duplicate law numbers are locked once.
func (l *KeyLock) Lock(collection string, lawNumbers []int) (unlock func()) {
	keys := make([]int, 0, len(lawNumbers))
	seen := make(map[int]bool, len(lawNumbers))
	for _, n := range lawNumbers {
		if !seen[n] {
			seen[n] = true
			keys = append(keys, n)
		}
	}
	sort.Ints(keys)

	names := make([]string, len(keys))
	for i, n := range keys {
		names[i] = collection + "/" + strconv.Itoa(n)
		l.acquire(names[i])
	}

	return func() {
		for i := len(names) - 1; i >= 0; i-- {
			l.release(names[i])
		}
	}
}

func (l *KeyLock) acquire(name string) {
	l.mu.Lock()
	entry, ok := l.locks[name]
	if !ok {
		entry = &keyEntry{}
		l.locks[name] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

func (l *KeyLock) release(name string) {
	l.mu.Lock()
	entry := l.locks[name]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, name)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}

// held returns the number of keys currently tracked.
func (l *KeyLock) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
