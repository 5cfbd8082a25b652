package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterPerKeyBudget(t *testing.T) {
	rl := NewRateLimiter(60, 3, nil)
	defer rl.Close()

	for i := range 3 {
		assert.True(t, rl.Allow("ip:1.1.1.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("ip:1.1.1.1"))
	assert.True(t, rl.Allow("ip:2.2.2.2"))

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, int64(1), stats["rejected_requests"])
	assert.Equal(t, 60.0, stats["rate_per_minute"])
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1, nil)
	defer rl.Close()

	rl.Allow("ip:1.1.1.1")
	rl.mu.Lock()
	rl.lastSeen["ip:1.1.1.1"] = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.cleanup(time.Minute)
	assert.Equal(t, 0, rl.GetStats()["active_limiters"])
	rl.Close()
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		wantKey  string
		wantType string
	}{
		{"ip from forwarded for", map[string]string{"X-Forwarded-For": "bogus, 10.0.0.1, 10.0.0.2"}, false, true, "ip:10.0.0.1", "ip"},
		{"ip from real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, false, true, "ip:10.0.0.9", "ip"},
		{"ip from remote addr", nil, false, true, "ip:192.0.2.1", "ip"},
		{"api key wins", map[string]string{"X-API-Key": "k1"}, true, true, "api:k1", "api_key"},
		{"bearer key", map[string]string{"Authorization": "Bearer k2"}, true, false, "api:k2", "api_key"},
		{"api key absent falls back to ip", nil, true, true, "ip:192.0.2.1", "ip"},
		{"nothing enabled", map[string]string{"X-API-Key": "k1"}, false, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/evaluate", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			key, keyType := getRateLimitKey(req, tt.byAPIKey, tt.byIP)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantType, keyType)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijklmnop"))
}
