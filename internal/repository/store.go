package repository

import (
	"context"

	"github.com/expenseops/receipt-relay/internal/entity"
)

// ReceiptStore persists receipt records. The pipeline issues exactly one
// upsert-by-identifier write per invocation; no reads, updates, or deletes.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, rec *entity.ReceiptRecord) error
}
