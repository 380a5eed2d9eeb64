package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and an
// optional OTLP push exporter. It returns a Recorder, the Prometheus HTTP
// handler, and a shutdown function. When telemetry is disabled the Recorder
// still counts in memory and the handler is nil.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "standings-ticker"
	}

	promReader, promHandler, err := prometheusComponents()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := buildOTLPReader(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	instruments, err := newOtelInstruments(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}
	return newRecorder(instruments), promHandler, shutdown, nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrKind      = "kind"
	AttrNamespace = "namespace"
	AttrLeague    = "league"
	AttrResult    = "result"
)

type otelInstruments struct {
	ctx            context.Context
	apiCalls       metric.Int64Counter
	cacheLookups   metric.Int64Counter
	fetches        metric.Int64Counter
	fetchErrors    metric.Int64Counter
	fetchLatencyMs metric.Float64Histogram
	cycles         metric.Int64Counter
	cycleErrors    metric.Int64Counter
	cycleLatencyMs metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("standings-ticker")

	apiCalls, err := meter.Int64Counter("upstream_api_calls_total")
	if err != nil {
		return nil, err
	}
	cacheLookups, err := meter.Int64Counter("cache_lookups_total")
	if err != nil {
		return nil, err
	}
	fetches, err := meter.Int64Counter("league_fetches_total")
	if err != nil {
		return nil, err
	}
	fetchErrors, err := meter.Int64Counter("league_fetch_errors_total")
	if err != nil {
		return nil, err
	}
	fetchLatency, err := meter.Float64Histogram("league_fetch_duration_ms")
	if err != nil {
		return nil, err
	}
	cycles, err := meter.Int64Counter("update_cycles_total")
	if err != nil {
		return nil, err
	}
	cycleErrors, err := meter.Int64Counter("update_cycle_errors_total")
	if err != nil {
		return nil, err
	}
	cycleLatency, err := meter.Float64Histogram("update_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:            context.Background(),
		apiCalls:       apiCalls,
		cacheLookups:   cacheLookups,
		fetches:        fetches,
		fetchErrors:    fetchErrors,
		fetchLatencyMs: fetchLatency,
		cycles:         cycles,
		cycleErrors:    cycleErrors,
		cycleLatencyMs: cycleLatency,
	}, nil
}

func (o *otelInstruments) recordAPICall(kind string, count int) {
	if o == nil {
		return
	}
	o.apiCalls.Add(o.ctx, int64(count), metric.WithAttributes(attribute.String(AttrKind, kind)))
}

func (o *otelInstruments) recordCacheLookup(namespace string, hit bool) {
	if o == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	o.cacheLookups.Add(o.ctx, 1, metric.WithAttributes(
		attribute.String(AttrNamespace, namespace),
		attribute.String(AttrResult, result),
	))
}

func (o *otelInstruments) recordFetch(leagueKey string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrLeague, leagueKey))
	o.fetches.Add(o.ctx, 1, attrs)
	o.fetchLatencyMs.Record(o.ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		o.fetchErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordUpdateCycle(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.cycles.Add(o.ctx, 1)
	o.cycleLatencyMs.Record(o.ctx, float64(duration.Milliseconds()))
	if err != nil {
		o.cycleErrors.Add(o.ctx, 1)
	}
}
