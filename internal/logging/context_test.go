package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	logger := slog.Default().With("component", "test")

	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the stored logger back")
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Fatal("expected slog.Default for a bare context")
	}
	if got := FromContext(nil); got != slog.Default() {
		t.Fatal("expected slog.Default for a nil context")
	}
}

func TestWithLoggerIgnoresNilLogger(t *testing.T) {
	ctx := WithLogger(context.Background(), nil)
	if got := FromContext(ctx); got != slog.Default() {
		t.Fatal("expected a nil logger to leave the context untouched")
	}
}
