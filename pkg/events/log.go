package events

import (
	"context"
	"sort"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/cafestock/pkg/logger"
)

// watermillLogger sends Watermill's internal logs to logger.Logger. Trace
// level is folded into debug.
type watermillLogger struct{ log logger.Logger }

func newWatermillLogger(log logger.Logger) watermill.LoggerAdapter {
	return watermillLogger{log: log.With("component", "watermill")}
}

func (l watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(logArgs(fields), "error", err)...)
}

func (l watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, logArgs(fields)...)
}

func (l watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, logArgs(fields)...)
}

func (l watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, logArgs(fields)...)
}

func (l watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillLogger{log: l.log.With(logArgs(fields)...)}
}

// logArgs flattens fields into key/value pairs in key order.
func logArgs(fields watermill.LogFields) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

func injectTrace(ctx context.Context, msg *message.Message) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}

// extractTrace returns ctx carrying the trace the publisher attached to msg.
func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
