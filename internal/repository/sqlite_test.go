package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/normalize"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "receipts-test-*")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	db, err := OpenSQLite(filepath.Join(tmpDir, "receipts.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(context.Background(), db, "receipts", nil)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func makeRecord(id uuid.UUID) *entity.ReceiptRecord {
	return &entity.ReceiptRecord{
		ID:         id,
		Bucket:     "b",
		Key:        "k",
		InsertedAt: "2026-08-29T12:30:00Z",
		Summary:    normalize.Summary{"TOTAL": "42.00"},
		LineItems: []normalize.LineItem{{
			Description: "Coffee", Quantity: "1", UnitPrice: "42.00", Total: "42.00",
			Raw: map[string]string{"ITEM": "Coffee"},
		}},
		Extraction: entity.Provenance{API: "AnalyzeExpense", DocCount: 1},
	}
}

func TestSQLiteSaveReceiptRoundTrip(t *testing.T) {
	store := createTestStore(t)
	id := uuid.New()
	rec := makeRecord(id)

	if err := store.SaveReceipt(context.Background(), rec); err != nil {
		t.Fatalf("SaveReceipt: %v", err)
	}

	var bucket, key, insertedAt, summaryJSON, itemsJSON string
	row := store.db.QueryRow(`SELECT bucket, object_key, inserted_at, summary, line_items FROM "receipts" WHERE receipt_id = ?`, id.String())
	if err := row.Scan(&bucket, &key, &insertedAt, &summaryJSON, &itemsJSON); err != nil {
		t.Fatalf("reading row back: %v", err)
	}
	if bucket != "b" || key != "k" || insertedAt != "2026-08-29T12:30:00Z" {
		t.Errorf("unexpected row: %s %s %s", bucket, key, insertedAt)
	}

	var summary normalize.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary["TOTAL"] != "42.00" {
		t.Errorf("summary = %v", summary)
	}

	var items []normalize.LineItem
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		t.Fatalf("decoding line items: %v", err)
	}
	if len(items) != 1 || items[0].Description != "Coffee" || items[0].Raw["ITEM"] != "Coffee" {
		t.Errorf("line items = %+v", items)
	}
}

func TestSQLiteSaveReceiptUpsert(t *testing.T) {
	store := createTestStore(t)
	id := uuid.New()

	if err := store.SaveReceipt(context.Background(), makeRecord(id)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	rec := makeRecord(id)
	rec.Summary = normalize.Summary{"TOTAL": "43.00"}
	if err := store.SaveReceipt(context.Background(), rec); err != nil {
		t.Fatalf("second save with same id: %v", err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM "receipts"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected upsert to keep a single row, got %d", count)
	}
}
