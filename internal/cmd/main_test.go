package cmd_test

import (
	"context"
	"testing"

	"github.com/DMarby/gallery-slideshow/internal/cmd"
)

func TestSeed(t *testing.T) {
	if seed := cmd.Seed(""); seed != 0 {
		t.Errorf("wrong seed for an empty string %d", seed)
	}

	if cmd.Seed("living-room") != cmd.Seed("living-room") {
		t.Error("seed is not deterministic")
	}

	if cmd.Seed("living-room") == cmd.Seed("kitchen") {
		t.Error("different strings give the same seed")
	}
}

func TestWaitForInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cmd.WaitForInterrupt(ctx); err == nil || err.Error() != "canceled" {
		t.Errorf("wrong error %v", err)
	}
}
