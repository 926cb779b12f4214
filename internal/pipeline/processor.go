// Package pipeline sequences one invocation end to end: extract, normalize,
// persist, notify. Strictly linear, no internal retries; redelivery by the
// triggering infrastructure is the only retry mechanism, and a re-run
// produces a fresh record identifier (at-least-once semantics).
package pipeline

import (
	"context"
	"log/slog"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/extract"
	"github.com/expenseops/receipt-relay/internal/normalize"
	"github.com/expenseops/receipt-relay/internal/notify"
	"github.com/expenseops/receipt-relay/internal/record"
	"github.com/expenseops/receipt-relay/internal/report"
	"github.com/expenseops/receipt-relay/internal/repository"
	"github.com/expenseops/receipt-relay/internal/trigger"
)

// Result is the invocation outcome. Notified distinguishes "persisted and
// notified" from "persisted, notification failed"; the wire status stays
// "ok" in both cases because the record is already durable.
type Result struct {
	Status         string            `json:"status"`
	ReceiptID      string            `json:"receipt_id"`
	Summary        normalize.Summary `json:"summary"`
	LineItemsCount int               `json:"line_items_count"`
	Notified       bool              `json:"notified"`

	// Record is the persisted entity, for in-process callers (CLI export);
	// it is not part of the invocation output.
	Record *entity.ReceiptRecord `json:"-"`
}

// Processor owns the error boundary around each external call.
type Processor struct {
	Logger    *slog.Logger
	Extractor extract.Extractor
	Store     repository.ReceiptStore
	Notifier  notify.Notifier
	Builder   *record.Builder
}

func NewProcessor(logger *slog.Logger, ex extract.Extractor, store repository.ReceiptStore, notifier notify.Notifier) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Extractor: ex,
		Store:     store,
		Notifier:  notifier,
		Builder:   record.NewBuilder(),
	}
}

// Process runs one document through the pipeline. Extraction and
// persistence failures abort the invocation; a notification failure is
// logged and suppressed since the record is already persisted.
func (p *Processor) Process(ctx context.Context, src trigger.Source) (*Result, error) {
	res, err := p.Extractor.AnalyzeExpense(ctx, src.Bucket, src.Key)
	if err != nil {
		p.Logger.Error("pipeline.extract.failed", "bucket", src.Bucket, "key", src.Key, "err", err)
		return nil, err
	}
	if len(res.ExpenseDocuments) == 0 {
		p.Logger.Warn("pipeline.extract.empty", "bucket", src.Bucket, "key", src.Key)
	}

	summary, items := normalize.Normalize(res.ExpenseDocuments)

	rec := p.Builder.Build(src.Bucket, src.Key, summary, items, entity.Provenance{
		API:      extract.APIName,
		DocCount: len(res.ExpenseDocuments),
	})

	if err := p.Store.SaveReceipt(ctx, rec); err != nil {
		p.Logger.Error("pipeline.persist.failed", "receipt_id", rec.ID, "err", err)
		return nil, err
	}
	p.Logger.Info("pipeline.persist.ok",
		"receipt_id", rec.ID,
		"bucket", src.Bucket,
		"key", src.Key,
		"line_items", len(items),
	)

	notified := true
	msg := report.Render(rec)
	if err := p.Notifier.Send(ctx, msg); err != nil {
		// Non-fatal: the record is durable, so the invocation still succeeds.
		p.Logger.Error("pipeline.notify.failed", "receipt_id", rec.ID, "err", err)
		notified = false
	}

	return &Result{
		Status:         "ok",
		ReceiptID:      rec.ID.String(),
		Summary:        summary,
		LineItemsCount: len(items),
		Notified:       notified,
		Record:         rec,
	}, nil
}
