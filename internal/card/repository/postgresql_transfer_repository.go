package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

const transferColumns = `id, owner_id, from_card_id, to_card_id, amount, created_at`

// PostgreSQLTransferRepository implements TransferRepository for PostgreSQL.
type PostgreSQLTransferRepository struct {
	db *sql.DB
}

// NewPostgreSQLTransferRepository creates a new PostgreSQLTransferRepository.
func NewPostgreSQLTransferRepository(db *sql.DB) *PostgreSQLTransferRepository {
	return &PostgreSQLTransferRepository{db: db}
}

// Create appends a transfer log entry.
func (p *PostgreSQLTransferRepository) Create(ctx context.Context, transfer *cardDomain.Transfer) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO transfers (` + transferColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		transfer.ID,
		transfer.OwnerID,
		transfer.FromCardID,
		transfer.ToCardID,
		transfer.Amount,
		transfer.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create transfer")
	}
	return nil
}

// ListByOwner returns the transfers of ownerID, newest first.
func (p *PostgreSQLTransferRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + transferColumns + ` FROM transfers
			  WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transfers")
	}
	defer func() {
		_ = rows.Close()
	}()

	transfers := make([]*cardDomain.Transfer, 0)
	for rows.Next() {
		var transfer cardDomain.Transfer
		if err := rows.Scan(
			&transfer.ID,
			&transfer.OwnerID,
			&transfer.FromCardID,
			&transfer.ToCardID,
			&transfer.Amount,
			&transfer.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan transfer")
		}
		transfers = append(transfers, &transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate transfers")
	}
	return transfers, nil
}
