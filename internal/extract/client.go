package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expenseops/receipt-relay/internal/common"
)

// ClientConfig for the expense-analysis HTTP client.
type ClientConfig struct {
	BaseURL string        // e.g. https://docai.internal
	APIKey  string        // bearer token; optional for unauthenticated deployments
	Timeout time.Duration // http client timeout
}

// Client calls a managed expense-analysis endpoint over HTTP.
type Client struct {
	cfg    ClientConfig
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// AnalyzeExpense asks the service to analyze the document at bucket/key.
// Transport failures and non-2xx responses surface as ErrExtractionService;
// a body that does not match the documented shape is ErrExtractionParse.
func (c *Client) AnalyzeExpense(ctx context.Context, bucket, key string) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("extract.analyze.start",
		"req_id", rid,
		"bucket", bucket,
		"key", key,
	)

	body := map[string]any{
		"document": map[string]any{"bucket": bucket, "key": key},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/expense/analyze"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("extract.analyze.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionService, err)
	}

	if err := ValidateJSONAgainstSchema(ResponseSchema(), raw); err != nil {
		c.logger.Error("extract.analyze.schema_validation_failed",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionParse, err)
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Error("extract.analyze.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: decode response: %v", common.ErrExtractionParse, err)
	}

	c.logger.Info("extract.analyze.ok",
		"req_id", rid,
		"documents", len(out.ExpenseDocuments),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("extraction response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("extraction status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
