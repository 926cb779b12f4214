package server

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/expenseops/receipt-relay/internal/common"
)

var (
	processedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_relay_processed_total",
		Help: "Invocations that persisted a receipt record.",
	})
	failedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_relay_failed_total",
		Help: "Invocations aborted, labeled by failing stage.",
	}, []string{"stage"})
	notifyFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_relay_notification_failures_total",
		Help: "Notifications that failed after a successful persist.",
	})
)

func failureStage(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidInvocation):
		return "trigger"
	case errors.Is(err, common.ErrExtractionService):
		return "extract"
	case errors.Is(err, common.ErrExtractionParse):
		return "parse"
	case errors.Is(err, common.ErrPersistence):
		return "persist"
	default:
		return "internal"
	}
}
