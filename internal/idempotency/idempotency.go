package idempotency

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithKey attaches the idempotency key of the operation being processed,
// so every event published on its behalf carries a stable key across
// redeliveries.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

func GetKey(ctx context.Context) string {
	key, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return uuid.NewString()
	}
	return key
}
