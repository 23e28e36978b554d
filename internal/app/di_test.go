package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuacalab/forecast-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:         "error",
		DBDriver:         "postgres",
		APIVersion:       "2.0",
		TokenSigningKey:  "test-signing-key",
		MetricsEnabled:   false,
		MetricsNamespace: "test_app",
	}
}

func TestContainer_Config(t *testing.T) {
	cfg := testConfig()
	container := NewContainer(cfg)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger_Singleton(t *testing.T) {
	container := NewContainer(testConfig())
	assert.Same(t, container.Logger(), container.Logger())
}

func TestContainer_TokenService_Singleton(t *testing.T) {
	container := NewContainer(testConfig())
	first := container.TokenService()
	require.NotNil(t, first)
	assert.Equal(t, first, container.TokenService())
}

func TestContainer_Writer(t *testing.T) {
	container := NewContainer(testConfig())
	assert.NotNil(t, container.Writer())
}

func TestContainer_MetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig())

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	gatewayMetrics, err := container.GatewayMetrics()
	require.NoError(t, err)
	assert.Nil(t, gatewayMetrics)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)
}

func TestContainer_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = true
	cfg.MetricsPort = 8081
	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	gatewayMetrics, err := container.GatewayMetrics()
	require.NoError(t, err)
	assert.NotNil(t, gatewayMetrics)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.NotNil(t, metricsServer)

	assert.NoError(t, container.Shutdown(context.Background()))
}

func TestContainer_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "sqlite"
	container := NewContainer(cfg)

	_, err := container.DB()
	assert.Error(t, err)
}

func TestContainer_Shutdown_NothingInitialized(t *testing.T) {
	container := NewContainer(testConfig())
	assert.NoError(t, container.Shutdown(context.Background()))
}
