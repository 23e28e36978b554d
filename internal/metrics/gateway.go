package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// GatewayMetrics collects gateway business metrics: how authorization
// decisions fall out and how often cached payloads are served.
type GatewayMetrics struct {
	authorizations otelmetric.Int64Counter
	cacheRequests  otelmetric.Int64Counter
}

// NewGatewayMetrics creates the gateway instrument set.
func NewGatewayMetrics(meterProvider *metric.MeterProvider, namespace string) (*GatewayMetrics, error) {
	meter := meterProvider.Meter("gateway")

	authorizations, err := meter.Int64Counter(
		fmt.Sprintf("%s_authorization_decisions_total", namespace),
		otelmetric.WithDescription("Total number of authorization decisions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization counter: %w", err)
	}

	cacheRequests, err := meter.Int64Counter(
		fmt.Sprintf("%s_cache_requests_total", namespace),
		otelmetric.WithDescription("Total number of cache lookups by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache request counter: %w", err)
	}

	return &GatewayMetrics{
		authorizations: authorizations,
		cacheRequests:  cacheRequests,
	}, nil
}

// RecordAuthorization counts one authorization decision for a capability.
func (g *GatewayMetrics) RecordAuthorization(ctx context.Context, capability, outcome string) {
	g.authorizations.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("capability", capability),
		attribute.String("outcome", outcome),
	))
}

// RecordCacheRequest counts one cache lookup for a query namespace.
func (g *GatewayMetrics) RecordCacheRequest(ctx context.Context, namespace string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	g.cacheRequests.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("namespace", namespace),
		attribute.String("result", result),
	))
}
