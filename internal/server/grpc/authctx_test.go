package grpcserver

import (
	"context"
	"testing"
)

func TestIdentityCtx_RoundTrip(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFromCtx(context.Background()); ok {
		t.Fatalf("empty context must carry no identity")
	}
	ctx := WithIdentity(context.Background(), "alice")
	got, ok := IdentityFromCtx(ctx)
	if !ok || got != "alice" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := IdentityFromCtx(WithIdentity(context.Background(), "")); ok {
		t.Fatalf("empty identity must not count as authenticated")
	}
	if _, ok := IdentityFromCtx(context.WithValue(context.Background(), identityKey, 42)); ok {
		t.Fatalf("foreign value type must be ignored")
	}
}
