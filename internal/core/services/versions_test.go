package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCache_StartsAtZero(t *testing.T) {
	cache := NewVersionCache()

	assert.Equal(t, uint64(0), cache.VersionOf("1_1"))
}

func TestVersionCache_Bump(t *testing.T) {
	cache := NewVersionCache()

	assert.Equal(t, uint64(1), cache.Bump("1_1"))
	assert.Equal(t, uint64(2), cache.Bump("1_1"))
	assert.Equal(t, uint64(2), cache.VersionOf("1_1"))
	assert.Equal(t, uint64(0), cache.VersionOf("1_2"))
}

func TestVersionCache_ConcurrentBumps(t *testing.T) {
	cache := NewVersionCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Bump("2_255")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), cache.VersionOf("2_255"))
}

func TestVersionCache_CacheBust(t *testing.T) {
	cache := NewVersionCache()

	got, err := cache.CacheBust("http://host/audio/1_1.mp3", "1_1")
	require.NoError(t, err)
	assert.Equal(t, "http://host/audio/1_1.mp3?v=0", got)

	cache.Bump("1_1")
	got, err = cache.CacheBust("http://host/audio/1_1.mp3", "1_1")
	require.NoError(t, err)
	assert.Equal(t, "http://host/audio/1_1.mp3?v=1", got)
}

func TestVersionCache_CacheBust_ReplacesExistingVersion(t *testing.T) {
	cache := NewVersionCache()
	cache.Bump("1_1")
	cache.Bump("1_1")

	got, err := cache.CacheBust("http://host/a.mp3?token=abc&v=9", "1_1")

	require.NoError(t, err)
	assert.Equal(t, "http://host/a.mp3?token=abc&v=2", got)
}

func TestVersionCache_CacheBust_KeepsOtherParamsVerbatim(t *testing.T) {
	cache := NewVersionCache()
	cache.Bump("1_1")

	got, err := cache.CacheBust("http://host/a.mp3?sig=a%2Fb+c&expires=10&v=0&alpha=1", "1_1")

	require.NoError(t, err)
	assert.Equal(t, "http://host/a.mp3?sig=a%2Fb+c&expires=10&alpha=1&v=1", got)
}

func TestVersionCache_CacheBust_InvalidURL(t *testing.T) {
	cache := NewVersionCache()

	_, err := cache.CacheBust("http://host/%zz", "1_1")

	assert.Error(t, err)
}
