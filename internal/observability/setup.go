package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/iamwavecut/verifybot"

var (
	// Logger receives audit records of panel mutations. It is a no-op until Init.
	Logger = zap.NewNop()

	registry = prometheus.NewRegistry()

	panelActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verify_panel_actions_total",
			Help: "Verification panel actions by outcome",
		},
		[]string{"action", "result"},
	)

	updateProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_processing_duration_seconds",
			Help:    "Time spent processing telegram updates",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func init() {
	registry.MustRegister(panelActionsTotal, updateProcessingDuration)
}

// Init installs the audit logger and the tracer provider. The returned function flushes both.
func Init(ctx context.Context) (func(context.Context) error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	Logger = logger

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		_ = logger.Sync()
		return tp.Shutdown(ctx)
	}, nil
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithField("error", err.Error()).Warn("metrics server shutdown failed")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RecordPanelAction counts a panel action with its outcome
func RecordPanelAction(action, result string) {
	panelActionsTotal.WithLabelValues(action, result).Inc()
}

// StartUpdateProcessing returns a function to record update processing duration
func StartUpdateProcessing() func(status string) {
	start := time.Now()
	return func(status string) {
		updateProcessingDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}
}

// StartSpan opens a span named after a panel action.
func StartSpan(ctx context.Context, name string) (context.Context, func()) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	return ctx, func() { span.End() }
}

// Audit writes a structured record of an admin mutation.
func Audit(action string, adminID int64, fields ...zap.Field) {
	Logger.Info(action, append([]zap.Field{zap.Int64("admin_id", adminID)}, fields...)...)
}
