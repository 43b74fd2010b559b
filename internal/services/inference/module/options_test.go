package module

import (
	"testing"

	"facegate/internal/core/embedding"
	"facegate/internal/platform/config"
)

func TestFromConfig_Threshold(t *testing.T) {
	if got := FromConfig(config.New()).Threshold; got != embedding.DefaultThreshold {
		t.Fatalf("unset threshold: got %v", got)
	}

	t.Setenv("INFERENCE_THRESHOLD", "0")
	o := FromConfig(config.New()).merge(Options{})
	if o.Threshold != 0 {
		t.Fatalf("explicit zero threshold replaced: %v", o.Threshold)
	}

	if got := o.merge(Options{Threshold: 0.6}).Threshold; got != 0.6 {
		t.Fatalf("override ignored: %v", got)
	}
}
