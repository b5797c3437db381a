package checkout

import (
	"sync"

	"github.com/google/uuid"
)

// userLocks serializes checkouts per user. Entries are refcounted so the
// map does not grow with every user that ever checked out.
type userLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entries: make(map[uuid.UUID]*lockEntry)}
}

// Lock acquires the lock for the given user, creating it on first use.
func (l *userLocks) Lock(userID uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.entries[userID]
	if !ok {
		entry = &lockEntry{}
		l.entries[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the user's lock and drops the entry when unused.
func (l *userLocks) Unlock(userID uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.entries[userID]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, userID)
		}
	}
	l.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
