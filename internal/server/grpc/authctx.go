package grpcserver

import (
	"context"
)

type ctxKey string

const identityKey ctxKey = "arena.identity"

// WithIdentity stores the authenticated caller identity in context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromCtx fetches the caller identity from context.
func IdentityFromCtx(ctx context.Context) (string, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
