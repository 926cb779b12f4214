package extract

import "context"

// APIName is the expense-analysis operation recorded as provenance on
// every persisted receipt.
const APIName = "AnalyzeExpense"

// Extractor turns a stored document into structured expense fields.
type Extractor interface {
	AnalyzeExpense(ctx context.Context, bucket, key string) (*Result, error)
}

// Detection is a single detected text span.
type Detection struct {
	Text string `json:"text"`
}

// Field is one detected key/value pair. The label may arrive as a declared
// type or as a raw label detection; either (or both, or neither) can be set.
type Field struct {
	Type           *Detection `json:"type,omitempty"`
	LabelDetection *Detection `json:"label_detection,omitempty"`
	ValueDetection *Detection `json:"value_detection,omitempty"`
}

// LineItem is one detected receipt row.
type LineItem struct {
	Fields []Field `json:"fields"`
}

// LineItemGroup is a block of line items detected together.
type LineItemGroup struct {
	LineItems []LineItem `json:"line_items"`
}

// ExpenseDocument holds everything detected for one document.
type ExpenseDocument struct {
	SummaryFields  []Field         `json:"summary_fields"`
	LineItemGroups []LineItemGroup `json:"line_item_groups"`
}

// Result is the full expense-analysis response.
type Result struct {
	ExpenseDocuments []ExpenseDocument `json:"expense_documents"`
}
