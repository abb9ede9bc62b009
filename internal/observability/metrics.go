package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "go-flag-graph-service"

var (
	metricsOnce        sync.Once
	repositoryOpsTotal metric.Int64Counter
	graphChecksTotal   metric.Int64Counter
)

func initMetrics() {
	meter := otel.GetMeterProvider().Meter(meterName)
	var err error
	repositoryOpsTotal, err = meter.Int64Counter("repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
	if err != nil {
		repositoryOpsTotal = nil
	}
	graphChecksTotal, err = meter.Int64Counter("flag_graph_checks_total",
		metric.WithDescription("Dependency graph admission checks by check and outcome"))
	if err != nil {
		graphChecksTotal = nil
	}
}

// RecordRepositoryOperation counts one storage operation outcome.
func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	if repositoryOpsTotal == nil {
		return
	}
	repositoryOpsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordGraphCheck counts one dependency-graph admission check. check is
// "mutation" or "deletion"; outcome is "pass", the rejection kind, or "error".
func RecordGraphCheck(ctx context.Context, check, outcome string) {
	metricsOnce.Do(initMetrics)
	if graphChecksTotal == nil {
		return
	}
	graphChecksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}
