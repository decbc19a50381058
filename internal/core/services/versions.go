package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// VersionCache counts completed splits per ayah. The count is appended to
// media URLs so a player never serves audio cut at an old split point.
// Counters only ever increase and are kept for the life of the process.
type VersionCache struct {
	mu       sync.Mutex
	versions map[string]uint64
}

// NewVersionCache creates an empty version cache.
func NewVersionCache() *VersionCache {
	return &VersionCache{versions: make(map[string]uint64)}
}

// Bump increments the version of id and returns the new value.
func (c *VersionCache) Bump(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[id]++
	return c.versions[id]
}

// VersionOf returns the current version of id, zero if never bumped.
func (c *VersionCache) VersionOf(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[id]
}

// CacheBust sets the "v" query parameter of rawURL to the version of id.
// Other query parameters are kept byte for byte and in order, so signed
// URLs stay valid.
func (c *VersionCache) CacheBust(rawURL, id string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse media url: %w", err)
	}

	pairs := make([]string, 0, 4)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" || pair == "v" || strings.HasPrefix(pair, "v=") {
			continue
		}
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, "v="+strconv.FormatUint(c.VersionOf(id), 10))
	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}
