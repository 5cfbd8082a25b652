package ai

import (
	"errors"
	"testing"
	"time"

	"resumatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakerConfig(enabled bool, minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: config.ProviderOpenAI,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	extraction := NewCircuitBreaker[string]("extraction", breakerConfig(true, 2, 0.5), nil)
	embedding := NewCircuitBreaker[[]float64]("embedding", breakerConfig(true, 5, 0.9), nil)

	assert.Equal(t, "AI-extraction", extraction.GetStats()["name"])
	assert.Equal(t, "AI-embedding", embedding.GetStats()["name"])

	failure := errors.New("boom")
	for range 2 {
		_, err := extraction.Execute(func() (string, error) { return "", failure })
		assert.ErrorIs(t, err, failure)
	}

	assert.False(t, extraction.IsHealthy(), "extraction breaker should be open")
	assert.Equal(t, "open", extraction.GetStats()["state"])
	assert.True(t, embedding.IsHealthy(), "embedding breaker must not be affected")
}

func TestCircuitBreakerOpenRejectsCalls(t *testing.T) {
	cb := NewCircuitBreaker[string]("extraction", breakerConfig(true, 1, 1.0), nil)

	_, err := cb.Execute(func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)

	called := false
	_, err = cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	assert.Error(t, err)
	assert.False(t, called, "open breaker must not invoke the call")
}

func TestDisabledCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker[string]("extraction", breakerConfig(false, 1, 0.1), nil)
	assert.Nil(t, cb)

	for range 5 {
		_, _ = cb.Execute(func() (string, error) { return "", errors.New("boom") })
	}

	result, err := cb.Execute(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetStats())
}
