package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/expenseops/receipt-relay/internal/common"
	"github.com/expenseops/receipt-relay/internal/pipeline"
	"github.com/expenseops/receipt-relay/internal/trigger"
)

// Invoker is what the handlers need from the pipeline; substituted with a
// fake in tests.
type Invoker interface {
	Process(ctx context.Context, src trigger.Source) (*pipeline.Result, error)
}

// Handler exposes the pipeline over HTTP: a storage-event webhook and a
// manual invocation endpoint. Both accept the same payload shapes; the two
// routes exist so event delivery and operator use can be authorized and
// monitored separately.
type Handler struct {
	processor Invoker
	logger    *zap.Logger
}

func NewHandler(processor Invoker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{processor: processor, logger: logger}
}

// HandleEvent processes a storage-event webhook delivery.
func (h *Handler) HandleEvent(c echo.Context) error {
	return h.invoke(c)
}

// HandleInvoke processes a manual {bucket, key} invocation.
func (h *Handler) HandleInvoke(c echo.Context) error {
	return h.invoke(c)
}

func (h *Handler) invoke(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "reading request body")
	}

	src, err := trigger.ParseInvocation(raw)
	if err != nil {
		h.logger.Warn("invalid invocation payload", zap.Error(err))
		failedTotal.WithLabelValues(failureStage(err)).Inc()
		return c.JSON(http.StatusBadRequest, errorBody(err))
	}

	res, err := h.processor.Process(c.Request().Context(), src)
	if err != nil {
		h.logger.Error("invocation failed",
			zap.String("bucket", src.Bucket),
			zap.String("key", src.Key),
			zap.Error(err),
		)
		failedTotal.WithLabelValues(failureStage(err)).Inc()
		return c.JSON(httpStatus(err), errorBody(err))
	}

	processedTotal.Inc()
	if !res.Notified {
		notifyFailedTotal.Inc()
	}
	return c.JSON(http.StatusOK, res)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInvocation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrExtractionService), errors.Is(err, common.ErrExtractionParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"status": "error", "error": err.Error()}
}
