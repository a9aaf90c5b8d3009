package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/cafestock/pkg/config"
)

func TestSetupSentry_EmptyDSNIsNoop(t *testing.T) {
	if err := SetupSentry(&config.Config{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCaptureError_WithoutClient(t *testing.T) {
	// No client is bound, so both calls must be no-ops.
	CaptureError(context.Background(), nil)
	CaptureError(context.Background(), errors.New("sweep failed"))
}
