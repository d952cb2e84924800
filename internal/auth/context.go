package auth

import (
	"context"
	"domainkeeper/internal/types"
)

type actorKey struct{}

func WithActor(ctx context.Context, actor types.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller attached to ctx. Background work has no actor.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(types.Actor)
	return actor, ok
}
