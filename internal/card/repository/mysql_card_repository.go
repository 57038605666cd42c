package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// MySQLCardRepository implements CardRepository for MySQL. UUIDs are stored
// as BINARY(16) using uuid.MarshalBinary and uuid.UnmarshalBinary. The
// connection string must enable parseTime.
type MySQLCardRepository struct {
	db *sql.DB
}

// NewMySQLCardRepository creates a new MySQLCardRepository.
func NewMySQLCardRepository(db *sql.DB) *MySQLCardRepository {
	return &MySQLCardRepository{db: db}
}

// Create inserts a card. A card with the same masked number already stored
// yields *cardDomain.DuplicateCardError.
func (m *MySQLCardRepository) Create(ctx context.Context, card *cardDomain.Card) error {
	querier := database.GetTx(ctx, m.db)

	id, err := card.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card id")
	}
	ownerID, err := card.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `INSERT INTO cards (` + cardColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		ownerID,
		card.NumberCiphertext,
		card.MaskedNumber,
		card.Owner,
		card.ExpiryDate,
		card.Status,
		card.Balance,
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return &cardDomain.DuplicateCardError{MaskedNumber: card.MaskedNumber}
		}
		return mapCardError(err, "failed to create card")
	}
	return nil
}

func (m *MySQLCardRepository) scanCard(row rowScanner) (*cardDomain.Card, error) {
	var (
		card    cardDomain.Card
		id      []byte
		ownerID []byte
		status  string
	)
	err := row.Scan(
		&id,
		&ownerID,
		&card.NumberCiphertext,
		&card.MaskedNumber,
		&card.Owner,
		&card.ExpiryDate,
		&status,
		&card.Balance,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := card.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal card id")
	}
	if err := card.OwnerID.UnmarshalBinary(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal owner id")
	}
	card.Status = cardDomain.Status(status)
	card.ExpiryDate = cardDomain.NormalizeExpiryDate(card.ExpiryDate)
	return &card, nil
}

func (m *MySQLCardRepository) getOne(
	ctx context.Context,
	cardID uuid.UUID,
	forUpdate bool,
) (*cardDomain.Card, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := cardID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal card id")
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	card, err := m.scanCard(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &cardDomain.CardNotFoundError{CardID: cardID}
		}
		return nil, mapCardError(err, "failed to get card by id")
	}
	return card, nil
}

// GetByID returns the card with cardID or *cardDomain.CardNotFoundError.
func (m *MySQLCardRepository) GetByID(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error) {
	return m.getOne(ctx, cardID, false)
}

// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
func (m *MySQLCardRepository) GetByIDForUpdate(
	ctx context.Context,
	cardID uuid.UUID,
) (*cardDomain.Card, error) {
	return m.getOne(ctx, cardID, true)
}

func (m *MySQLCardRepository) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*cardDomain.Card, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapCardError(err, "failed to list cards")
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*cardDomain.Card, 0)
	for rows.Next() {
		card, err := m.scanCard(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}
	return cards, nil
}

// List returns cards of every owner, newest first.
func (m *MySQLCardRepository) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY id DESC LIMIT ? OFFSET ?`
	return m.list(ctx, query, limit, offset)
}

// ListByOwner returns the cards of ownerID, newest first, optionally filtered
// by a case-insensitive substring of the holder name or masked number.
func (m *MySQLCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	if search == "" {
		query := `SELECT ` + cardColumns + ` FROM cards
				  WHERE owner_id = ?
				  ORDER BY id DESC LIMIT ? OFFSET ?`
		return m.list(ctx, query, owner, limit, offset)
	}

	pattern := likePattern(search)
	query := `SELECT ` + cardColumns + ` FROM cards
			  WHERE owner_id = ? AND (LOWER(owner_name) LIKE LOWER(?) OR LOWER(masked_number) LIKE LOWER(?))
			  ORDER BY id DESC LIMIT ? OFFSET ?`
	return m.list(ctx, query, owner, pattern, pattern, limit, offset)
}

// ListActiveByOwner returns the ACTIVE cards of ownerID not yet past expiry on today.
func (m *MySQLCardRepository) ListActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	today time.Time,
) ([]*cardDomain.Card, error) {
	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + cardColumns + ` FROM cards
			  WHERE owner_id = ? AND status = ? AND expiry_date >= ?
			  ORDER BY id DESC`
	return m.list(ctx, query, owner, cardDomain.StatusActive, today)
}

// ExistsByMaskedNumber reports whether a card with maskedNumber is stored.
func (m *MySQLCardRepository) ExistsByMaskedNumber(ctx context.Context, maskedNumber string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE masked_number = ?)`
	if err := querier.QueryRowContext(ctx, query, maskedNumber).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check card masked number")
	}
	return exists, nil
}

func (m *MySQLCardRepository) update(
	ctx context.Context,
	card *cardDomain.Card,
	query string,
	value any,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := card.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card id")
	}

	result, err := querier.ExecContext(ctx, query, value, card.UpdatedAt, id)
	if err != nil {
		return mapCardError(err, "failed to update card")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return &cardDomain.CardNotFoundError{CardID: card.ID}
	}
	card.Version++
	return nil
}

// UpdateStatus writes card.Status and bumps the stored version.
func (m *MySQLCardRepository) UpdateStatus(ctx context.Context, card *cardDomain.Card) error {
	query := `UPDATE cards SET status = ?, version = version + 1, updated_at = ? WHERE id = ?`
	return m.update(ctx, card, query, card.Status)
}

// UpdateBalance writes card.Balance and bumps the stored version.
func (m *MySQLCardRepository) UpdateBalance(ctx context.Context, card *cardDomain.Card) error {
	query := `UPDATE cards SET balance = ?, version = version + 1, updated_at = ? WHERE id = ?`
	return m.update(ctx, card, query, card.Balance)
}

// SetLockTimeout sets innodb_lock_wait_timeout, rounded up to whole seconds.
// The value stays on the pooled connection; every card transaction sets its own.
func (m *MySQLCardRepository) SetLockTimeout(ctx context.Context, d time.Duration) error {
	querier := database.GetTx(ctx, m.db)

	seconds := max(int64(math.Ceil(d.Seconds())), 1)
	if _, err := querier.ExecContext(ctx, `SET SESSION innodb_lock_wait_timeout = ?`, seconds); err != nil {
		return mapCardError(err, "failed to set lock timeout")
	}
	return nil
}

// ExpireOverdue marks every non-expired card whose expiry date is before today
// as EXPIRED. Rows are locked in id order and rows already locked are skipped,
// so the sweep never waits on a running transfer. It must run inside a
// transaction for the row locks to hold until the update.
func (m *MySQLCardRepository) ExpireOverdue(ctx context.Context, today, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT id FROM cards WHERE status <> ? AND expiry_date < ? ORDER BY id FOR UPDATE SKIP LOCKED`,
		cardDomain.StatusExpired,
		today,
	)
	if err != nil {
		return 0, mapCardError(err, "failed to lock overdue cards")
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []any
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return 0, apperrors.Wrap(err, "failed to scan card id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, mapCardError(err, "failed to iterate overdue cards")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	query := `UPDATE cards SET status = ?, version = version + 1, updated_at = ?
			  WHERE id IN (?` + strings.Repeat(", ?", len(ids)-1) + `)`
	args := append([]any{cardDomain.StatusExpired, now}, ids...)

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapCardError(err, "failed to expire overdue cards")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return affected, nil
}

// Delete removes the card and, through the foreign key cascade, its transfer log rows.
func (m *MySQLCardRepository) Delete(ctx context.Context, cardID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := cardID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal card id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return mapCardError(err, "failed to delete card")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return &cardDomain.CardNotFoundError{CardID: cardID}
	}
	return nil
}
