package accountview

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gabapcia/ledgerview/internal/accountview"

var tracer = otel.Tracer(instrumentationName)

type metrics struct {
	merged    metric.Int64Counter
	duplicate metric.Int64Counter
	conflict  metric.Int64Counter
	rejected  metric.Int64Counter
	reload    metric.Float64Histogram
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)

	// Names are constant and valid, creation cannot fail.
	merged, _ := meter.Int64Counter("ledgerview.events.merged",
		metric.WithDescription("Events added to a session's event set"))
	duplicate, _ := meter.Int64Counter("ledgerview.events.duplicate",
		metric.WithDescription("Redelivered events ignored by the merge"))
	conflict, _ := meter.Int64Counter("ledgerview.events.conflict",
		metric.WithDescription("Events rejected for reusing an identity key with different contents"))
	rejected, _ := meter.Int64Counter("ledgerview.events.rejected",
		metric.WithDescription("Logs the normalizer could not turn into events"))
	reload, _ := meter.Float64Histogram("ledgerview.reload.duration",
		metric.WithDescription("Duration of session reloads"),
		metric.WithUnit("s"))

	return &metrics{
		merged:    merged,
		duplicate: duplicate,
		conflict:  conflict,
		rejected:  rejected,
		reload:    reload,
	}
}

func sourceAttr(source string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("source", source))
}

func (m *metrics) recordMerge(ctx context.Context, source string, added, duplicates, conflicts int) {
	if added > 0 {
		m.merged.Add(ctx, int64(added), sourceAttr(source))
	}
	if duplicates > 0 {
		m.duplicate.Add(ctx, int64(duplicates), sourceAttr(source))
	}
	if conflicts > 0 {
		m.conflict.Add(ctx, int64(conflicts), sourceAttr(source))
	}
}

func (m *metrics) recordRejected(ctx context.Context, source string, n int) {
	if n > 0 {
		m.rejected.Add(ctx, int64(n), sourceAttr(source))
	}
}

func (m *metrics) recordReload(ctx context.Context, start time.Time, outcome string) {
	m.reload.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}
