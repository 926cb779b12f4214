// Package report renders a normalized receipt into a human-readable
// notification. Inputs are already normalized to strings upstream, so
// rendering cannot fail on missing data.
package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/expenseops/receipt-relay/internal/entity"
	"github.com/expenseops/receipt-relay/internal/normalize"
	"github.com/expenseops/receipt-relay/internal/notify"
)

// Preview limits: email text stays short, the HTML table can carry more.
const (
	textItemLimit = 10
	htmlItemLimit = 50
)

const noItemsMarker = "(no line items detected)"

var htmlTmpl = template.Must(template.New("receipt").Parse(`<html><body>
<h2>Receipt processed</h2>
<p><strong>Vendor</strong>: {{.Vendor}}<br/>
<strong>Date</strong>: {{.Date}}<br/>
<strong>Total</strong>: {{.Total}}</p>
<table border="1" cellspacing="0" cellpadding="6">
<thead><tr><th>Description</th><th>Qty</th><th>Unit Price</th><th>Line Total</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Total}}</td></tr>
{{- else}}
<tr><td colspan="4">` + noItemsMarker + `</td></tr>
{{- end}}
</tbody>
</table>
<p>Receipt ID: {{.ReceiptID}}<br/>
Source: {{.Source}}<br/>
Inserted at: {{.InsertedAt}}</p>
</body></html>`))

type view struct {
	Vendor     string
	Date       string
	Total      string
	Items      []normalize.LineItem
	ReceiptID  string
	Source     string
	InsertedAt string
}

// Render builds the notification message for a persisted record.
func Render(rec *entity.ReceiptRecord) notify.Message {
	vendor := pick(rec.Summary, []string{"VENDOR_NAME", "RECEIVER_NAME", "SUPPLIER_NAME"}, "Unknown vendor")
	date := pick(rec.Summary, []string{"INVOICE_RECEIPT_DATE", "INVOICE_DATE", "RECEIPT_DATE"}, "Unknown date")
	total := pick(rec.Summary, []string{"TOTAL", "AMOUNT_DUE", "INVOICE_TOTAL"}, "Unknown total")

	v := view{
		Vendor:     vendor,
		Date:       date,
		Total:      total,
		Items:      truncate(rec.LineItems, htmlItemLimit),
		ReceiptID:  rec.ID.String(),
		Source:     rec.Bucket + "/" + rec.Key,
		InsertedAt: rec.InsertedAt,
	}

	var html strings.Builder
	_ = htmlTmpl.Execute(&html, v)

	return notify.Message{
		Subject: fmt.Sprintf("Receipt processed: %s on %s (Total %s)", vendor, date, total),
		Text:    textBody(v, rec.LineItems),
		HTML:    html.String(),
	}
}

func textBody(v view, items []normalize.LineItem) string {
	var lines []string
	for _, i := range truncate(items, textItemLimit) {
		lines = append(lines, fmt.Sprintf("- %s  qty=%s  price=%s  total=%s",
			i.Description, i.Quantity, i.UnitPrice, i.Total))
	}
	preview := strings.Join(lines, "\n")
	if preview == "" {
		preview = noItemsMarker
	}

	return fmt.Sprintf(`Your receipt has been processed.

Vendor: %s
Date:   %s
Total:  %s

Top line items:
%s

Metadata:
- Receipt ID: %s
- Source: %s
- Inserted at: %s
`, v.Vendor, v.Date, v.Total, preview, v.ReceiptID, v.Source, v.InsertedAt)
}

// pick consults candidate summary keys in priority order.
func pick(summary normalize.Summary, keys []string, fallback string) string {
	for _, k := range keys {
		if v := summary[k]; v != "" {
			return v
		}
	}
	return fallback
}

func truncate(items []normalize.LineItem, limit int) []normalize.LineItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
