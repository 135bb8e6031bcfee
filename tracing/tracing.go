// Package tracing provides a thin wrapper around OpenTelemetry tracing so
// that the rest of the code base can start and finish spans without being
// concerned with the underlying SDK setup.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mongodb/grip"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/sentinel-project/sentinel-go"

var (
	providerOnce sync.Once
	providerErr  error
	provider     *sdktrace.TracerProvider
	providerOut  io.Closer
)

// Init configures OpenTelemetry with the stdout exporter. If outputFile is an
// empty string the exporter writes to os.Stdout. The function is safe to call
// multiple times; the first successful initialization wins and later calls
// have no effect, including on the file system. Packages in this module work
// without initialization - spans are then no-ops. Callers that initialize
// tracing should call Shutdown before exiting.
func Init(serviceName, serviceVersion, outputFile string) error {
	providerOnce.Do(func() {
		var w io.Writer = os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				providerErr = err
				return
			}
			providerOut = f
			w = f
		}

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			providerErr = err
			return
		}

		providerErr = install(serviceName, serviceVersion, exporter)
	})

	return providerErr
}

// InitWithExporter configures OpenTelemetry using the supplied span exporter,
// which allows integrating with any exporter the OpenTelemetry SDK supports.
// The function is safe to call multiple times; the first successful
// initialization wins.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}

	providerOnce.Do(func() {
		providerErr = install(serviceName, serviceVersion, exporter)
	})

	return providerErr
}

func install(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	provider = tp

	return nil
}

// Shutdown flushes and stops the tracer provider installed by Init or
// InitWithExporter and closes the trace output file, if Init opened one. It
// is a no-op when tracing was never initialized.
func Shutdown(ctx context.Context) error {
	catcher := grip.NewBasicCatcher()
	if provider != nil {
		catcher.Add(provider.Shutdown(ctx))
	}
	if providerOut != nil {
		catcher.Add(providerOut.Close())
	}
	return catcher.Resolve()
}

// StartSpan starts a span with the given name on the globally configured
// tracer provider and returns the derived context along with the span.
func StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(ctx, name)
	for k, v := range attrs {
		span.SetAttributes(attribute.String(k, v))
	}
	return ctx, span
}

// EndSpan finishes the span, recording the error (if any) as the span status.
func EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
