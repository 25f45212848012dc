package services

import (
	"sync"
)

// userLocker hands out one mutex per user id so that multi-step ledger
// operations for the same user run one at a time. Operations on different
// users never contend. The map is never pruned: it grows with the number of
// distinct users seen by this process, a few dozen bytes each.
type userLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocker() *userLocker {
	return &userLocker{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the user's mutex and returns the matching unlock
func (l *userLocker) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// userLocks serializes purchase, cancel, consume and bulk-delete flows
// per user. Shared by every service instance in the process.
var userLocks = newUserLocker()
