package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Options — параметры трейсинга.
type Options struct {
	ServiceName string
	Endpoint    string  // host:port OTLP/HTTP коллектора
	SampleRatio float64 // доля корневых трейсов [0..1]
}

func (o Options) normalized() Options {
	if o.Endpoint == "" {
		o.Endpoint = "localhost:4318"
	}
	if o.ServiceName == "" {
		o.ServiceName = "cart-engine"
	}
	switch {
	case o.SampleRatio < 0:
		o.SampleRatio = 0
	case o.SampleRatio > 1:
		o.SampleRatio = 1
	}
	return o
}

// Sampler — решение родителя уважается; корневые спаны семплируются по доле.
func Sampler(ratio float64) sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// SetupTracing — OTLP/HTTP экспорт, глобальный провайдер и пропагаторы (TraceContext + Baggage).
// Возвращает Shutdown провайдера для graceful stop.
func SetupTracing(ctx context.Context, opts Options) (func(context.Context) error, error) {
	opts = opts.normalized()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(Sampler(opts.SampleRatio)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(opts.ServiceName),
			attribute.String("telemetry.sdk", "opentelemetry"),
		)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return provider.Shutdown, nil
}
