package record

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/normalize"
)

func TestBuildStampsIdentityAndTimestamp(t *testing.T) {
	id := uuid.MustParse("5e0bb0ae-55c6-41f1-b614-17f0b66ff1b2")
	at := time.Date(2026, 8, 29, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	b := &Builder{
		NewID: func() uuid.UUID { return id },
		Now:   func() time.Time { return at },
	}

	summary := normalize.Summary{"TOTAL": "42.00"}
	rec := b.Build("b", "k", summary, []normalize.LineItem{}, entity.Provenance{API: "AnalyzeExpense", DocCount: 1})

	if rec.ID != id {
		t.Errorf("ID = %v", rec.ID)
	}
	if rec.Bucket != "b" || rec.Key != "k" {
		t.Errorf("source = %s/%s", rec.Bucket, rec.Key)
	}
	// Local time must be rendered as UTC with the literal Z suffix.
	if rec.InsertedAt != "2026-08-29T12:30:00Z" {
		t.Errorf("InsertedAt = %q", rec.InsertedAt)
	}
	if !strings.HasSuffix(rec.InsertedAt, "Z") {
		t.Errorf("InsertedAt missing Z suffix: %q", rec.InsertedAt)
	}
	if rec.Summary["TOTAL"] != "42.00" {
		t.Errorf("summary not carried: %v", rec.Summary)
	}
	if rec.Extraction.API != "AnalyzeExpense" || rec.Extraction.DocCount != 1 {
		t.Errorf("provenance = %+v", rec.Extraction)
	}
}

func TestNewBuilderGeneratesUniqueIDs(t *testing.T) {
	b := NewBuilder()
	r1 := b.Build("b", "k", normalize.Summary{}, nil, entity.Provenance{})
	r2 := b.Build("b", "k", normalize.Summary{}, nil, entity.Provenance{})
	if r1.ID == r2.ID {
		t.Errorf("identifiers must be fresh per build: %v", r1.ID)
	}
}
