package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/expenseops/receipt-relay/internal/common"
	"github.com/expenseops/receipt-relay/internal/entity"
)

// SQLiteStore is the local-mode store, used by the one-shot CLI and in
// tests. Same write contract as the Postgres store, JSON kept as TEXT.
type SQLiteStore struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// OpenSQLite opens (or creates) a SQLite database at path. Use ":memory:"
// for a throwaway run.
func OpenSQLite(path string) (*sql.DB, error) {
	return sql.Open("sqlite", path)
}

func NewSQLiteStore(ctx context.Context, db *sql.DB, table string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SQLiteStore{db: db, table: table, logger: logger}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		receipt_id  TEXT PRIMARY KEY,
		bucket      TEXT NOT NULL,
		object_key  TEXT NOT NULL,
		inserted_at TEXT NOT NULL,
		summary     TEXT NOT NULL,
		line_items  TEXT NOT NULL,
		extraction  TEXT NOT NULL
	)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return s, nil
}

func (s *SQLiteStore) SaveReceipt(ctx context.Context, rec *entity.ReceiptRecord) error {
	summary, items, prov, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", common.ErrPersistence, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO %q (receipt_id, bucket, object_key, inserted_at, summary, line_items, extraction)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(receipt_id) DO UPDATE SET
			bucket = excluded.bucket,
			object_key = excluded.object_key,
			inserted_at = excluded.inserted_at,
			summary = excluded.summary,
			line_items = excluded.line_items,
			extraction = excluded.extraction`, s.table)

	if _, err := s.db.ExecContext(ctx, q,
		rec.ID.String(), rec.Bucket, rec.Key, rec.InsertedAt,
		string(summary), string(items), string(prov)); err != nil {
		s.logger.Error("repository.save_receipt.failed", "receipt_id", rec.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	s.logger.Info("repository.save_receipt.ok", "receipt_id", rec.ID, "table", s.table)
	return nil
}
