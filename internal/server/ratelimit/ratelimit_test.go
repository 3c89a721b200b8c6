package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tierConfig builds a limiter config carrying the service's endpoint tiers
// and a generous default for everything else.
func tierConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	bucket := newTokenBucket(5, 0.5)

	for i := 0; i < 5; i++ {
		assert.True(t, bucket.allow(), "request %d fits in the burst", i+1)
	}
	assert.False(t, bucket.allow(), "burst exhausted, nothing refilled yet")
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(2, 10) // 10 tokens/s keeps the test short

	bucket.allow()
	bucket.allow()
	require.False(t, bucket.allow())

	time.Sleep(150 * time.Millisecond)
	assert.True(t, bucket.allow(), "a token should have refilled")
}

func TestTokenBucket_Status(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 4; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.status()
	assert.Equal(t, 6, remaining)
	assert.True(t, resetTime.After(time.Now()), "a drained bucket resets in the future")
}

func TestMatchEndpoint_RecommendTier(t *testing.T) {
	got := MatchEndpoint("/recommend", "POST", DefaultEndpointConfigs())

	require.NotNil(t, got)
	assert.Equal(t, 30, got.Limit)
	assert.Equal(t, 5, got.Burst)
}

func TestMatchEndpoint_PrefixCoversPathParams(t *testing.T) {
	configs := DefaultEndpointConfigs()

	apply := MatchEndpoint("/jobs/42/apply", "POST", configs)
	require.NotNil(t, apply)
	assert.Equal(t, "/jobs/", apply.Path)

	profile := MatchEndpoint("/users/550e8400-e29b-41d4-a716-446655440000/profile", "PUT", configs)
	require.NotNil(t, profile)
	assert.Equal(t, "/users/", profile.Path)
}

func TestMatchEndpoint_MethodMustMatch(t *testing.T) {
	assert.Nil(t, MatchEndpoint("/recommend", "GET", DefaultEndpointConfigs()))
}

func TestMatchEndpoint_HealthNeverThrottled(t *testing.T) {
	got := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())

	require.NotNil(t, got)
	assert.Equal(t, 0, got.Limit)
}

func TestLimiter_RecommendTierExhausts(t *testing.T) {
	limiter := NewLimiter(tierConfig())
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("203.0.113.7", "/recommend", "POST")
		require.True(t, allowed, "request %d is within the burst", i+1)
		assert.Equal(t, 30, info.Limit)
	}

	allowed, info := limiter.Allow("203.0.113.7", "/recommend", "POST")
	assert.False(t, allowed)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_ClientsThrottledIndependently(t *testing.T) {
	limiter := NewLimiter(tierConfig())
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		limiter.Allow("203.0.113.7", "/recommend", "POST")
	}
	allowed, _ := limiter.Allow("203.0.113.7", "/recommend", "POST")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("198.51.100.2", "/recommend", "POST")
	assert.True(t, allowed, "another client has its own bucket")
}

func TestLimiter_UnlistedRouteUsesDefault(t *testing.T) {
	cfg := tierConfig()
	cfg.DefaultLimit = 3
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("203.0.113.7", "/users/1/profile", "GET")
		require.True(t, allowed)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, _ := limiter.Allow("203.0.113.7", "/users/1/profile", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistBypassesTiers(t *testing.T) {
	cfg := tierConfig()
	cfg.Whitelist = map[string]bool{"10.0.0.5": true}
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("10.0.0.5", "/recommend", "POST")
		assert.True(t, allowed, "whitelisted client bypasses the tier")
	}
}

func TestLimiter_BlacklistAlwaysDenied(t *testing.T) {
	cfg := tierConfig()
	cfg.Blacklist = map[string]bool{"192.0.2.9": true}
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	allowed, info := limiter.Allow("192.0.2.9", "/geocode", "GET")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := limiter.Allow("203.0.113.7", "/recommend", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_ConcurrentRequestsHonorLimit(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("203.0.113.7", "/engagements", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestLimiter_CleanupKeepsActiveBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 50 * time.Millisecond,
	})
	defer limiter.Stop()

	clients := make([]string, 6)
	for i := range clients {
		clients[i] = fmt.Sprintf("203.0.113.%d", i+1)
		allowed, _ := limiter.Allow(clients[i], "/engagements", "POST")
		require.True(t, allowed)
	}

	time.Sleep(120 * time.Millisecond)

	// Recently used buckets survive the hourly-cutoff sweep.
	for _, c := range clients {
		allowed, _ := limiter.Allow(c, "/engagements", "POST")
		assert.True(t, allowed)
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("203.0.113.7", "/recommend", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}
