package requestctx

import (
	"context"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-123")
	if got := UserIDFromContext(ctx); got != "user-123" {
		t.Fatalf("expected user-123, got %q", got)
	}
}

func TestUserIDMissing(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if got := UserIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %q", got)
	}
}

func TestWithUserIDNilContext(t *testing.T) {
	ctx := WithUserID(nil, "user-456")
	if got := UserIDFromContext(ctx); got != "user-456" {
		t.Fatalf("expected user-456, got %q", got)
	}
}
