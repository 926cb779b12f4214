package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/normalize"
)

func makeRecord(summary normalize.Summary, items []normalize.LineItem) *entity.ReceiptRecord {
	return &entity.ReceiptRecord{
		ID:         uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"),
		Bucket:     "receipts",
		Key:        "2026/lunch.jpg",
		InsertedAt: "2026-08-29T12:30:00Z",
		Summary:    summary,
		LineItems:  items,
	}
}

func TestRenderSubjectAndHeaders(t *testing.T) {
	rec := makeRecord(normalize.Summary{
		"VENDOR_NAME":          "Acme Diner",
		"INVOICE_RECEIPT_DATE": "2026-08-28",
		"TOTAL":                "42.00",
	}, nil)

	msg := Render(rec)
	want := "Receipt processed: Acme Diner on 2026-08-28 (Total 42.00)"
	if msg.Subject != want {
		t.Errorf("subject = %q, want %q", msg.Subject, want)
	}
	for _, s := range []string{"Vendor: Acme Diner", "Date:   2026-08-28", "Total:  42.00",
		"Receipt ID: 0f8fad5b-d9cb-469f-a165-70867728950e", "Source: receipts/2026/lunch.jpg",
		"Inserted at: 2026-08-29T12:30:00Z"} {
		if !strings.Contains(msg.Text, s) {
			t.Errorf("text body missing %q:\n%s", s, msg.Text)
		}
	}
}

func TestRenderFallbacks(t *testing.T) {
	msg := Render(makeRecord(normalize.Summary{}, nil))
	if !strings.Contains(msg.Subject, "Unknown vendor") ||
		!strings.Contains(msg.Subject, "Unknown date") ||
		!strings.Contains(msg.Subject, "Unknown total") {
		t.Errorf("subject missing fallbacks: %q", msg.Subject)
	}
}

func TestRenderSynonymPriority(t *testing.T) {
	msg := Render(makeRecord(normalize.Summary{
		"RECEIVER_NAME": "Receiver Co",
		"SUPPLIER_NAME": "Supplier Co",
		"RECEIPT_DATE":  "2026-01-01",
		"AMOUNT_DUE":    "9.99",
	}, nil))
	want := "Receipt processed: Receiver Co on 2026-01-01 (Total 9.99)"
	if msg.Subject != want {
		t.Errorf("subject = %q, want %q", msg.Subject, want)
	}
}

func TestRenderNoItemsMarker(t *testing.T) {
	msg := Render(makeRecord(normalize.Summary{}, nil))
	if !strings.Contains(msg.Text, "(no line items detected)") {
		t.Errorf("text body missing no-items marker:\n%s", msg.Text)
	}
	if !strings.Contains(msg.HTML, `<td colspan="4">(no line items detected)</td>`) {
		t.Errorf("html body missing merged-cell fallback row:\n%s", msg.HTML)
	}
}

func TestRenderItemLimits(t *testing.T) {
	var items []normalize.LineItem
	for i := 0; i < 60; i++ {
		items = append(items, normalize.LineItem{
			Description: fmt.Sprintf("item-%02d", i),
			Quantity:    "1",
			UnitPrice:   "1.00",
			Total:       "1.00",
		})
	}
	msg := Render(makeRecord(normalize.Summary{}, items))

	if got := strings.Count(msg.Text, "- item-"); got != 10 {
		t.Errorf("text preview has %d items, want 10", got)
	}
	if got := strings.Count(msg.HTML, "<tr><td>item-"); got != 50 {
		t.Errorf("html table has %d rows, want 50", got)
	}
	if strings.Contains(msg.Text, "item-10") {
		t.Errorf("text preview should stop at item-09")
	}
	if strings.Contains(msg.HTML, "item-50") {
		t.Errorf("html table should stop at item-49")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	items := []normalize.LineItem{{Description: `<script>alert("x")</script>`, Quantity: "1"}}
	msg := Render(makeRecord(normalize.Summary{}, items))
	if strings.Contains(msg.HTML, "<script>") {
		t.Errorf("item values must be escaped in html body:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "&lt;script&gt;") {
		t.Errorf("expected escaped markup in html body:\n%s", msg.HTML)
	}
}
