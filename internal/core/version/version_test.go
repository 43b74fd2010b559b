package version

import (
	"testing"

	kit "facegate/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	kit.Swap(t, &Version, "v1.2.3")
	kit.Swap(t, &Commit, "abc123")

	bi := Info("facegate-api")
	if bi.Service != "facegate-api" || bi.Version != "v1.2.3" || bi.Commit != "abc123" || bi.Date != "unknown" {
		t.Fatalf("Info mismatch: %+v", bi)
	}
}
