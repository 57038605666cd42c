package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// MySQLTransferRepository implements TransferRepository for MySQL.
type MySQLTransferRepository struct {
	db *sql.DB
}

// NewMySQLTransferRepository creates a new MySQLTransferRepository.
func NewMySQLTransferRepository(db *sql.DB) *MySQLTransferRepository {
	return &MySQLTransferRepository{db: db}
}

// Create appends a transfer log entry.
func (m *MySQLTransferRepository) Create(ctx context.Context, transfer *cardDomain.Transfer) error {
	querier := database.GetTx(ctx, m.db)

	ids := make([][]byte, 0, 4)
	for _, id := range []uuid.UUID{transfer.ID, transfer.OwnerID, transfer.FromCardID, transfer.ToCardID} {
		b, err := id.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal transfer ids")
		}
		ids = append(ids, b)
	}

	query := `INSERT INTO transfers (` + transferColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		ids[0],
		ids[1],
		ids[2],
		ids[3],
		transfer.Amount,
		transfer.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create transfer")
	}
	return nil
}

// ListByOwner returns the transfers of ownerID, newest first.
func (m *MySQLTransferRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*cardDomain.Transfer, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner id")
	}

	query := `SELECT ` + transferColumns + ` FROM transfers
			  WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list transfers")
	}
	defer func() {
		_ = rows.Close()
	}()

	transfers := make([]*cardDomain.Transfer, 0)
	for rows.Next() {
		var transfer cardDomain.Transfer
		var id, ownerBytes, fromCard, toCard []byte
		err := rows.Scan(&id, &ownerBytes, &fromCard, &toCard, &transfer.Amount, &transfer.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan transfer")
		}
		for _, pair := range []struct {
			dst *uuid.UUID
			src []byte
		}{
			{&transfer.ID, id},
			{&transfer.OwnerID, ownerBytes},
			{&transfer.FromCardID, fromCard},
			{&transfer.ToCardID, toCard},
		} {
			if err := pair.dst.UnmarshalBinary(pair.src); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal transfer ids")
			}
		}
		transfers = append(transfers, &transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate transfers")
	}
	return transfers, nil
}
