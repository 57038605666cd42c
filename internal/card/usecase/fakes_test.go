package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
)

// journalKey carries the undo log of the running fake transaction.
type journalKey struct{}

type journal struct {
	mu    sync.Mutex
	undos []func()
}

func (j *journal) add(undo func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undos = append(j.undos, undo)
}

// fakeTxManager rolls back writes made through memoryStore when fn fails.
// Callers serialize access to the rows they touch, as the lock manager does.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		for i := len(j.undos) - 1; i >= 0; i-- {
			j.undos[i]()
		}
		return err
	}
	return nil
}

// memoryStore is an in-memory CardRepository, TransferRepository and UserRepository.
type memoryStore struct {
	mu        sync.Mutex
	cards     map[uuid.UUID]cardDomain.Card
	transfers []cardDomain.Transfer
	users     map[uuid.UUID]*userDomain.User

	// failures injected per operation name
	failures map[string]error
	// rowLocked makes GetByIDForUpdate wait like a row lock held elsewhere
	rowLocked map[uuid.UUID]bool
	// lockTimeouts records every SetLockTimeout call
	lockTimeouts []time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		cards:     make(map[uuid.UUID]cardDomain.Card),
		users:     make(map[uuid.UUID]*userDomain.User),
		failures:  make(map[string]error),
		rowLocked: make(map[uuid.UUID]bool),
	}
}

func (s *memoryStore) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

func (s *memoryStore) recordUndo(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.add(undo)
	}
}

func (s *memoryStore) addUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = &userDomain.User{ID: id, Username: "user-" + id.String()[:8]}
}

func (s *memoryStore) put(card *cardDomain.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[card.ID] = *card
}

func (s *memoryStore) get(id uuid.UUID) (cardDomain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	return card, ok
}

func (s *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return user, nil
}

type memoryCardRepository struct{ *memoryStore }

func (r memoryCardRepository) Create(ctx context.Context, card *cardDomain.Card) error {
	if err := r.fail("Create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cards {
		if existing.MaskedNumber == card.MaskedNumber {
			return &cardDomain.DuplicateCardError{MaskedNumber: card.MaskedNumber}
		}
	}
	r.cards[card.ID] = *card
	r.recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.cards, card.ID)
	})
	return nil
}

func (r memoryCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*cardDomain.Card, error) {
	card, ok := r.get(id)
	if !ok {
		return nil, &cardDomain.CardNotFoundError{CardID: id}
	}
	return &card, nil
}

func (r memoryCardRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*cardDomain.Card, error) {
	if err := r.fail("GetByIDForUpdate"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	locked := r.rowLocked[id]
	r.mu.Unlock()
	if locked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return r.GetByID(ctx, id)
}

func (r memoryCardRepository) SetLockTimeout(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockTimeouts = append(r.lockTimeouts, d)
	return nil
}

func (r memoryCardRepository) filter(keep func(cardDomain.Card) bool, offset, limit int) []*cardDomain.Card {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*cardDomain.Card
	for _, card := range r.cards {
		if keep(card) {
			c := card
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *cardDomain.Card) int { return strings.Compare(a.ID.String(), b.ID.String()) })

	if offset >= len(out) {
		return []*cardDomain.Card{}
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r memoryCardRepository) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	return r.filter(func(cardDomain.Card) bool { return true }, offset, limit), nil
}

func (r memoryCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	search = strings.ToLower(search)
	return r.filter(func(c cardDomain.Card) bool {
		if c.OwnerID != ownerID {
			return false
		}
		return search == "" ||
			strings.Contains(strings.ToLower(c.Owner), search) ||
			strings.Contains(strings.ToLower(c.MaskedNumber), search)
	}, offset, limit), nil
}

func (r memoryCardRepository) ListActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	today time.Time,
) ([]*cardDomain.Card, error) {
	return r.filter(func(c cardDomain.Card) bool {
		return c.OwnerID == ownerID && c.Status == cardDomain.StatusActive && !c.ExpiryDate.Before(today)
	}, 0, 0), nil
}

func (r memoryCardRepository) ExistsByMaskedNumber(ctx context.Context, maskedNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range r.cards {
		if card.MaskedNumber == maskedNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r memoryCardRepository) update(ctx context.Context, card *cardDomain.Card, apply func(stored *cardDomain.Card)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.cards[card.ID]
	if !ok {
		return &cardDomain.CardNotFoundError{CardID: card.ID}
	}
	previous := stored
	apply(&stored)
	stored.Version++
	stored.UpdatedAt = card.UpdatedAt
	r.cards[card.ID] = stored
	card.Version = stored.Version

	r.recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.cards[card.ID] = previous
	})
	return nil
}

func (r memoryCardRepository) UpdateStatus(ctx context.Context, card *cardDomain.Card) error {
	if err := r.fail("UpdateStatus"); err != nil {
		return err
	}
	return r.update(ctx, card, func(stored *cardDomain.Card) { stored.Status = card.Status })
}

func (r memoryCardRepository) UpdateBalance(ctx context.Context, card *cardDomain.Card) error {
	if err := r.fail("UpdateBalance"); err != nil {
		return err
	}
	return r.update(ctx, card, func(stored *cardDomain.Card) { stored.Balance = card.Balance })
}

func (r memoryCardRepository) ExpireOverdue(ctx context.Context, today, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, card := range r.cards {
		if r.rowLocked[id] {
			continue
		}
		if card.Status != cardDomain.StatusExpired && card.ExpiryDate.Before(today) {
			card.Status = cardDomain.StatusExpired
			card.Version++
			card.UpdatedAt = now
			r.cards[id] = card
			count++
		}
	}
	return count, nil
}

func (r memoryCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return &cardDomain.CardNotFoundError{CardID: id}
	}
	delete(r.cards, id)
	return nil
}

type memoryTransferRepository struct{ *memoryStore }

func (r memoryTransferRepository) Create(ctx context.Context, transfer *cardDomain.Transfer) error {
	if err := r.fail("CreateTransfer"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = append(r.transfers, *transfer)
	r.recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.transfers = slices.DeleteFunc(r.transfers, func(t cardDomain.Transfer) bool {
			return t.ID == transfer.ID
		})
	})
	return nil
}

func (r memoryTransferRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*cardDomain.Transfer
	for i := len(r.transfers) - 1; i >= 0; i-- {
		if r.transfers[i].OwnerID == ownerID {
			t := r.transfers[i]
			out = append(out, &t)
		}
	}
	if offset >= len(out) {
		return []*cardDomain.Transfer{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
