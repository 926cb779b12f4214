package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/normalize"
)

// Builder assembles persistable receipt records. NewID and Now are
// injectable so tests can pin identifiers and timestamps.
type Builder struct {
	NewID func() uuid.UUID
	Now   func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{NewID: uuid.New, Now: time.Now}
}

// Build stamps a fresh identifier and the current UTC time onto a record.
// The timestamp is rendered RFC3339 with its 'Z' suffix as a formatting
// convention; the value is already UTC.
func (b *Builder) Build(bucket, key string, summary normalize.Summary, items []normalize.LineItem, prov entity.Provenance) *entity.ReceiptRecord {
	return &entity.ReceiptRecord{
		ID:         b.NewID(),
		Bucket:     bucket,
		Key:        key,
		InsertedAt: b.Now().UTC().Format(time.RFC3339),
		Summary:    summary,
		LineItems:  items,
		Extraction: prov,
	}
}
