package workflows

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"

	"github.com/ghuser/cafestock/pkg/config"
	"github.com/ghuser/cafestock/pkg/logger"
)

// TemporalClient is the connection used to schedule reservation expiry
// timers and to run their worker.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	log       logger.Logger
}

// NewTemporalClient dials cfg.TemporalHostPort with tracing enabled.
// Call Close when the application shuts down.
func NewTemporalClient(cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer(cfg.ServiceName + "/temporal"),
	})
	if err != nil {
		return nil, fmt.Errorf("create temporal otel interceptor: %w", err)
	}

	log = log.With("component", "temporal")
	c, err := client.Dial(client.Options{
		HostPort:     cfg.TemporalHostPort,
		Namespace:    cfg.TemporalNamespace,
		Identity:     identity(cfg.ServiceName),
		Logger:       temporalLogger{log: log},
		Interceptors: []interceptor.ClientInterceptor{tracing},
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal server at %s: %w", cfg.TemporalHostPort, err)
	}

	log.Info("temporal client connected", "host_port", cfg.TemporalHostPort, "namespace", cfg.TemporalNamespace)
	return &TemporalClient{Client: c, Namespace: cfg.TemporalNamespace, log: log}, nil
}

// identity names this process in Temporal's worker and history views.
func identity(service string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return service
	}
	return fmt.Sprintf("%s@%s:%d", service, host, os.Getpid())
}

// Ping asks the frontend service for its health, for the /health endpoint.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health: %w", err)
	}
	return nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// temporalLogger routes SDK logs through logger.Logger.
type temporalLogger struct {
	log logger.Logger
}

var _ temporallog.Logger = temporalLogger{}

func (l temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l temporalLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }
