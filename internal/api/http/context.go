package http

import (
	"context"
	"errors"

	"staybook-backend/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

var errNoActor = errors.New("actor is not provided in request context")

// WithActor stores the authenticated actor on ctx.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the actor placed there by the auth middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	if !ok || actor.UserID == 0 {
		return domain.Actor{}, errNoActor
	}
	return actor, nil
}
