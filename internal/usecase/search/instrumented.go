package search

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/campushq/catalog/internal/domain/query"
)

// InstrumentedEvaluator counts evaluations per catalog and outcome.
type InstrumentedEvaluator struct {
	inner         Evaluator
	searchesTotal *prometheus.CounterVec
}

// NewInstrumented creates a metrics decorator around an Evaluator.
// searchesTotal is a counter vec with labels "catalog" and "status".
func NewInstrumented(inner Evaluator, searchesTotal *prometheus.CounterVec) *InstrumentedEvaluator {
	return &InstrumentedEvaluator{inner: inner, searchesTotal: searchesTotal}
}

var _ Evaluator = (*InstrumentedEvaluator)(nil)

// Evaluate delegates to the inner evaluator and records the outcome.
func (i *InstrumentedEvaluator) Evaluate(
	ctx context.Context, catalogName string, q query.Query,
) (query.Page, error) {
	page, err := i.inner.Evaluate(ctx, catalogName, q)

	if i.searchesTotal != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		i.searchesTotal.WithLabelValues(catalogName, status).Inc()
	}

	return page, err
}
