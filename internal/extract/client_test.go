package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/expenseops/receipt-relay/internal/common"
)

func TestAnalyzeExpenseOK(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{
			"expense_documents": [{
				"summary_fields": [
					{"type": {"text": "TOTAL"}, "value_detection": {"text": "42.00"}}
				],
				"line_item_groups": []
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret"}, nil)
	res, err := c.AnalyzeExpense(context.Background(), "b", "k")
	if err != nil {
		t.Fatalf("AnalyzeExpense: %v", err)
	}
	if gotPath != "/v1/expense/analyze" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	doc, ok := gotBody["document"].(map[string]any)
	if !ok || doc["bucket"] != "b" || doc["key"] != "k" {
		t.Errorf("unexpected request body: %v", gotBody)
	}
	if len(res.ExpenseDocuments) != 1 {
		t.Fatalf("expected 1 document, got %d", len(res.ExpenseDocuments))
	}
	sf := res.ExpenseDocuments[0].SummaryFields
	if len(sf) != 1 || sf[0].Type.Text != "TOTAL" || sf[0].ValueDetection.Text != "42.00" {
		t.Fatalf("unexpected summary fields: %+v", sf)
	}
}

func TestAnalyzeExpenseServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "document not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL}, nil)
	if _, err := c.AnalyzeExpense(context.Background(), "b", "k"); !errors.Is(err, common.ErrExtractionService) {
		t.Fatalf("want ErrExtractionService, got %v", err)
	}
}

func TestAnalyzeExpenseMalformedBody(t *testing.T) {
	cases := map[string]string{
		"wrong type":      `{"expense_documents": "nope"}`,
		"bad field shape": `{"expense_documents": [{"summary_fields": [42]}]}`,
		"not json":        `<html>gateway error</html>`,
	}
	for name, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewClient(ClientConfig{BaseURL: srv.URL}, nil)
		_, err := c.AnalyzeExpense(context.Background(), "b", "k")
		srv.Close()
		if !errors.Is(err, common.ErrExtractionParse) {
			t.Errorf("%s: want ErrExtractionParse, got %v", name, err)
		}
	}
}
