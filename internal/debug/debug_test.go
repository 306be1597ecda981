package debug

import (
	"context"
	"testing"
)

func TestWithDebug(t *testing.T) {
	ctx := context.Background()

	if IsEnabled(ctx) {
		t.Error("Expected debug disabled by default")
	}
	if !IsEnabled(WithDebug(ctx, true)) {
		t.Error("Expected debug enabled after WithDebug(true)")
	}
	if IsEnabled(WithDebug(ctx, false)) {
		t.Error("Expected debug disabled after WithDebug(false)")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	if FromEnv() {
		t.Error("Expected false for empty env")
	}
	t.Setenv(EnvVar, "1")
	if !FromEnv() {
		t.Error("Expected true for MATROID_DEBUG=1")
	}
	t.Setenv(EnvVar, "yes")
	if FromEnv() {
		t.Error("Only the literal 1 enables debug")
	}
}
