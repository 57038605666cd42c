package service

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
)

// LockManager hands out exclusive per-card locks inside this process.
//
// Lock acquires every requested card in ascending id order, so two callers
// locking an overlapping set of cards always contend on the lowest shared id
// first and can never deadlock. Entries are reference counted and dropped once
// no caller holds or waits for them.
type LockManager struct {
	timeout time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*cardLock
}

type cardLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewLockManager creates a LockManager whose Lock calls give up after timeout.
func NewLockManager(timeout time.Duration) *LockManager {
	return &LockManager{
		timeout: timeout,
		locks:   make(map[uuid.UUID]*cardLock),
	}
}

// Lock acquires the locks of ids, ignoring duplicates, and returns a function
// releasing all of them. When the locks cannot be acquired within the configured
// timeout it returns cardDomain.ErrCardBusy and holds nothing. A cancelled ctx
// returns the context error.
func (m *LockManager) Lock(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	ordered := sortedUnique(ids)

	acquireCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	held := make([]uuid.UUID, 0, len(ordered))
	for _, id := range ordered {
		lock := m.ref(id)
		if err := lock.sem.Acquire(acquireCtx, 1); err != nil {
			m.unref(id)
			m.release(held)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, cardDomain.ErrCardBusy
			}
			return nil, err
		}
		held = append(held, id)
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.release(held) })
	}, nil
}

// Timeout returns how long Lock waits before giving up.
func (m *LockManager) Timeout() time.Duration {
	return m.timeout
}

// Len returns the number of cards currently locked or waited on.
func (m *LockManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *LockManager) ref(id uuid.UUID) *cardLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[id]
	if !ok {
		lock = &cardLock{sem: semaphore.NewWeighted(1)}
		m.locks[id] = lock
	}
	lock.refs++
	return lock
}

func (m *LockManager) unref(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock := m.locks[id]
	lock.refs--
	if lock.refs == 0 {
		delete(m.locks, id)
	}
}

// release unlocks held in reverse acquisition order.
func (m *LockManager) release(held []uuid.UUID) {
	for i := len(held) - 1; i >= 0; i-- {
		m.mu.Lock()
		lock := m.locks[held[i]]
		m.mu.Unlock()

		lock.sem.Release(1)
		m.unref(held[i])
	}
}

// sortedUnique returns ids in ascending byte order without duplicates.
func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}

// SortedIDs returns ids in the order Lock acquires them.
func SortedIDs(ids ...uuid.UUID) []uuid.UUID {
	return sortedUnique(ids)
}
