// Package repository implements card and transfer persistence for PostgreSQL
// and MySQL.
//
// PostgreSQL stores ids as native UUID, MySQL as BINARY(16). Balances and
// amounts are DECIMAL(19,2) columns read and written through decimal.Decimal.
// Every method runs on the transaction carried by ctx when there is one, see
// database.GetTx.
//
// Lock wait failures and deadlocks are reported as cardDomain.ErrCardBusy and unique
// violations on masked_number as *cardDomain.DuplicateCardError.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

const cardColumns = `id, owner_id, number_ciphertext, masked_number, owner_name, expiry_date,
	status, balance, version, created_at, updated_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// likePattern escapes LIKE wildcards in search and wraps it for a substring match.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(search) + "%"
}

// mapCardError translates driver errors shared by every card query.
func mapCardError(err error, message string) error {
	if database.IsLockTimeout(err) {
		return cardDomain.ErrCardBusy
	}
	return apperrors.Wrap(err, message)
}

// PostgreSQLCardRepository implements CardRepository for PostgreSQL.
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// NewPostgreSQLCardRepository creates a new PostgreSQLCardRepository.
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{db: db}
}

// Create inserts a card. A card with the same masked number already stored
// yields *cardDomain.DuplicateCardError.
func (p *PostgreSQLCardRepository) Create(ctx context.Context, card *cardDomain.Card) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cards (` + cardColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		card.ID,
		card.OwnerID,
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

func (p *PostgreSQLCardRepository) scanCard(row rowScanner) (*cardDomain.Card, error) {
	var (
		card   cardDomain.Card
		status string
	)
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
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
	card.Status = cardDomain.Status(status)
	card.ExpiryDate = cardDomain.NormalizeExpiryDate(card.ExpiryDate)
	return &card, nil
}

func (p *PostgreSQLCardRepository) getOne(
	ctx context.Context,
	cardID uuid.UUID,
	forUpdate bool,
) (*cardDomain.Card, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	card, err := p.scanCard(querier.QueryRowContext(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &cardDomain.CardNotFoundError{CardID: cardID}
		}
		return nil, mapCardError(err, "failed to get card by id")
	}
	return card, nil
}

// GetByID returns the card with cardID or *cardDomain.CardNotFoundError.
func (p *PostgreSQLCardRepository) GetByID(ctx context.Context, cardID uuid.UUID) (*cardDomain.Card, error) {
	return p.getOne(ctx, cardID, false)
}

// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
// It must run inside a transaction.
func (p *PostgreSQLCardRepository) GetByIDForUpdate(
	ctx context.Context,
	cardID uuid.UUID,
) (*cardDomain.Card, error) {
	return p.getOne(ctx, cardID, true)
}

func (p *PostgreSQLCardRepository) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*cardDomain.Card, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapCardError(err, "failed to list cards")
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*cardDomain.Card, 0)
	for rows.Next() {
		card, err := p.scanCard(rows)
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
func (p *PostgreSQLCardRepository) List(ctx context.Context, offset, limit int) ([]*cardDomain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY id DESC LIMIT $1 OFFSET $2`
	return p.list(ctx, query, limit, offset)
}

// ListByOwner returns the cards of ownerID, newest first. A non-empty search
// keeps cards whose holder name or masked number contains it, ignoring case.
func (p *PostgreSQLCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	offset, limit int,
) ([]*cardDomain.Card, error) {
	if search == "" {
		query := `SELECT ` + cardColumns + ` FROM cards
				  WHERE owner_id = $1
				  ORDER BY id DESC LIMIT $2 OFFSET $3`
		return p.list(ctx, query, ownerID, limit, offset)
	}

	query := `SELECT ` + cardColumns + ` FROM cards
			  WHERE owner_id = $1 AND (owner_name ILIKE $2 OR masked_number ILIKE $2)
			  ORDER BY id DESC LIMIT $3 OFFSET $4`
	return p.list(ctx, query, ownerID, likePattern(search), limit, offset)
}

// ListActiveByOwner returns the ACTIVE cards of ownerID not yet past expiry on today.
func (p *PostgreSQLCardRepository) ListActiveByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	today time.Time,
) ([]*cardDomain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
			  WHERE owner_id = $1 AND status = $2 AND expiry_date >= $3
			  ORDER BY id DESC`
	return p.list(ctx, query, ownerID, cardDomain.StatusActive, today)
}

// ExistsByMaskedNumber reports whether a card with maskedNumber is stored.
func (p *PostgreSQLCardRepository) ExistsByMaskedNumber(
	ctx context.Context,
	maskedNumber string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE masked_number = $1)`
	if err := querier.QueryRowContext(ctx, query, maskedNumber).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check card masked number")
	}
	return exists, nil
}

func (p *PostgreSQLCardRepository) update(
	ctx context.Context,
	card *cardDomain.Card,
	query string,
	value any,
) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, query, value, card.UpdatedAt, card.ID)
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
func (p *PostgreSQLCardRepository) UpdateStatus(ctx context.Context, card *cardDomain.Card) error {
	query := `UPDATE cards SET status = $1, version = version + 1, updated_at = $2 WHERE id = $3`
	return p.update(ctx, card, query, card.Status)
}

// UpdateBalance writes card.Balance and bumps the stored version.
func (p *PostgreSQLCardRepository) UpdateBalance(ctx context.Context, card *cardDomain.Card) error {
	query := `UPDATE cards SET balance = $1, version = version + 1, updated_at = $2 WHERE id = $3`
	return p.update(ctx, card, query, card.Balance)
}

// SetLockTimeout sets lock_timeout for the rest of the surrounding transaction.
func (p *PostgreSQLCardRepository) SetLockTimeout(ctx context.Context, d time.Duration) error {
	querier := database.GetTx(ctx, p.db)

	timeout := strconv.FormatInt(max(d.Milliseconds(), 1), 10) + "ms"
	if _, err := querier.ExecContext(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
		return mapCardError(err, "failed to set lock timeout")
	}
	return nil
}

// ExpireOverdue marks every non-expired card whose expiry date is before today
// as EXPIRED. Rows are locked in id order and rows already locked are skipped,
// so the sweep never waits on a running transfer.
func (p *PostgreSQLCardRepository) ExpireOverdue(ctx context.Context, today, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cards SET status = $1, version = version + 1, updated_at = $2
			  WHERE id IN (
				SELECT id FROM cards WHERE status <> $1 AND expiry_date < $3
				ORDER BY id FOR UPDATE SKIP LOCKED
			  )`

	result, err := querier.ExecContext(ctx, query, cardDomain.StatusExpired, now, today)
	if err != nil {
		return 0, mapCardError(err, "failed to expire overdue cards")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return affected, nil
}

// Delete removes the card. Transfer log rows referencing it are removed by the
// foreign key cascade.
func (p *PostgreSQLCardRepository) Delete(ctx context.Context, cardID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
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
