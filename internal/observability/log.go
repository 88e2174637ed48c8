package observability

import (
	"context"

	"github.com/sirupsen/logrus"
)

type logCtxKey struct{}

type correlationCtxKey struct{}

// ToContext attaches a logrus entry so downstream handlers log with the
// fields (correlation id, message uuid) set by the middleware.
func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, logCtxKey{}, entry)
}

func FromContext(ctx context.Context) *logrus.Entry {
	entry, ok := ctx.Value(logCtxKey{}).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return entry
}

func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationCtxKey{}, correlationID)
}

func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationCtxKey{}).(string)
	return id
}
