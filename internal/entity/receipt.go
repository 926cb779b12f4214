package entity

import (
	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/normalize"
)

// Provenance records which extraction API produced a record, kept for
// troubleshooting.
type Provenance struct {
	API      string `json:"api"`
	DocCount int    `json:"doc_count"`
}

// ReceiptRecord is the persisted entity for one processed document. It is
// created once per invocation, written exactly once, and never updated or
// deleted by this system. Redeliveries produce a fresh ID, so duplicate
// records for the same document are possible and accepted.
type ReceiptRecord struct {
	ID         uuid.UUID            `json:"receipt_id"`
	Bucket     string               `json:"bucket"`
	Key        string               `json:"key"`
	InsertedAt string               `json:"inserted_at"`
	Summary    normalize.Summary    `json:"summary"`
	LineItems  []normalize.LineItem `json:"line_items"`
	Extraction Provenance           `json:"extraction"`
}
