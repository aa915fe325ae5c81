package internal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the logger, tracer and meter of one component.
type Telemetry struct {
	component string
	name      string

	l *Logger

	tracer trace.Tracer
	meter  metric.Meter
}

func NewTelemetry(component, name string) *Telemetry {
	return &Telemetry{
		component: component,
		name:      name,

		l: NewLogger(component, name),

		tracer: otel.GetTracerProvider().Tracer("tickstream"),
		meter:  otel.GetMeterProvider().Meter("tickstream"),
	}
}

func (t *Telemetry) Logger() *Logger {
	return t.l
}

func (t *Telemetry) LogInfo(msg string, args ...any) {
	t.l.Info(msg, args...)
}

func (t *Telemetry) LogWarn(msg string, args ...any) {
	t.l.Warn(msg, args...)
}

func (t *Telemetry) LogError(msg string, err error, args ...any) {
	t.l.Error(msg, err, args...)
}

func (t *Telemetry) setDefaultAttributes(span trace.Span) {
	span.SetAttributes(
		attribute.String("tickstream.component", t.component),
		attribute.String("tickstream.name", t.name),
	)
}

func (t *Telemetry) NewTrace(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, spanName, opts...)
	t.setDefaultAttributes(span)
	return ctx, span
}

func (t *Telemetry) getMeterName(name string) string {
	return fmt.Sprintf("%s_%s_%s", t.component, t.name, name)
}

// NewCounter registers an observable counter fed by the given callback.
func (t *Telemetry) NewCounter(name string, observe func() int64) {
	counterName := t.getMeterName(name)

	_, err := t.meter.Int64ObservableCounter(counterName,
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(observe())
			return nil
		}),
	)
	if err != nil {
		t.LogError("failed to create counter", err, "name", counterName)
		return
	}

	t.LogInfo("created counter", "name", counterName)
}

// NewUpDownCounter registers an observable up/down counter fed by the given
// callback.
func (t *Telemetry) NewUpDownCounter(name string, observe func() int64) {
	counterName := t.getMeterName(name)

	_, err := t.meter.Int64ObservableUpDownCounter(counterName,
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(observe())
			return nil
		}),
	)
	if err != nil {
		t.LogError("failed to create up/down counter", err, "name", counterName)
		return
	}

	t.LogInfo("created up/down counter", "name", counterName)
}

// NewHistogram returns a histogram instrument.
func (t *Telemetry) NewHistogram(name string, opts ...metric.Int64HistogramOption) metric.Int64Histogram {
	histName := t.getMeterName(name)

	hist, err := t.meter.Int64Histogram(histName, opts...)
	if err != nil {
		t.LogError("failed to create histogram", err, "name", histName)
	}

	return hist
}
