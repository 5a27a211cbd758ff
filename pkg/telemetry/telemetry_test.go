package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), &config.TelemetryConfig{ServiceName: "dayflow-test"}, zap.NewNop())
	assert.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
