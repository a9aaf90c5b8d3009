// Package auth carries the caller identity recorded on audit entries.
// Authorization policy is enforced upstream; this package only propagates
// who is acting.
package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const actorKey contextKey = "actor"

// SystemActor is recorded when no caller identity is attached.
const SystemActor = "system"

// ErrActorNotFound is returned when no actor exists in the context.
var ErrActorNotFound = errors.New("actor not found in context")

// WithActor returns a new context with the given actor attached.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the acting user or process from the context.
// Returns "" and ErrActorNotFound if none is set.
func ActorFromCtx(ctx context.Context) (string, error) {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return "", ErrActorNotFound
	}
	return actor, nil
}

// ActorOrSystem is ActorFromCtx falling back to SystemActor.
func ActorOrSystem(ctx context.Context) string {
	if actor, err := ActorFromCtx(ctx); err == nil {
		return actor
	}
	return SystemActor
}
