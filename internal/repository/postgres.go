package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expenseops/receipt-relay/internal/common"
	"github.com/expenseops/receipt-relay/internal/entity"
)

// PostgresStore writes receipt records into the configured table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, table string, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, table: table, logger: logger}
}

func (s *PostgresStore) SaveReceipt(ctx context.Context, rec *entity.ReceiptRecord) error {
	summary, items, prov, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", common.ErrPersistence, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (receipt_id, bucket, object_key, inserted_at, summary, line_items, extraction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (receipt_id) DO UPDATE SET
			bucket = EXCLUDED.bucket,
			object_key = EXCLUDED.object_key,
			inserted_at = EXCLUDED.inserted_at,
			summary = EXCLUDED.summary,
			line_items = EXCLUDED.line_items,
			extraction = EXCLUDED.extraction`,
		pgx.Identifier{s.table}.Sanitize())

	if _, err := s.pool.Exec(ctx, q, rec.ID, rec.Bucket, rec.Key, rec.InsertedAt, summary, items, prov); err != nil {
		s.logger.Error("repository.save_receipt.failed", "receipt_id", rec.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	s.logger.Info("repository.save_receipt.ok", "receipt_id", rec.ID, "table", s.table)
	return nil
}

// marshalRecord encodes the nested parts of a record as JSON for storage.
func marshalRecord(rec *entity.ReceiptRecord) (summary, items, prov []byte, err error) {
	if summary, err = json.Marshal(rec.Summary); err != nil {
		return nil, nil, nil, err
	}
	if items, err = json.Marshal(rec.LineItems); err != nil {
		return nil, nil, nil, err
	}
	if prov, err = json.Marshal(rec.Extraction); err != nil {
		return nil, nil, nil, err
	}
	return summary, items, prov, nil
}
