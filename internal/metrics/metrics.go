package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Metrics struct {
	HTTPRequests   metric.Int64Counter
	HTTPDuration   metric.Float64Histogram
	Launches       metric.Int64Counter
	LaunchDuration metric.Float64Histogram
	Validations    metric.Int64Counter
}

func Setup(serviceName string) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}

	m.HTTPRequests, err = meter.Int64Counter(
		"forge_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPDuration, err = meter.Float64Histogram(
		"forge_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.Launches, err = meter.Int64Counter(
		"forge_token_launches_total",
		metric.WithDescription("Total number of token launch attempts by outcome"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.LaunchDuration, err = meter.Float64Histogram(
		"forge_token_launch_duration_seconds",
		metric.WithDescription("End-to-end token launch duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.Validations, err = meter.Int64Counter(
		"forge_validations_total",
		metric.WithDescription("Total number of validation checks by kind and outcome"),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := promhttp.Handler()
	return m, handler, nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)

	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

func (m *Metrics) RecordLaunch(ctx context.Context, outcome string, duration time.Duration) {
	labels := metric.WithAttributes(attribute.String("outcome", outcome))
	m.Launches.Add(ctx, 1, labels)
	m.LaunchDuration.Record(ctx, duration.Seconds(), labels)
}

func (m *Metrics) RecordValidation(ctx context.Context, kind string, valid bool) {
	m.Validations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("valid", valid),
	))
}
