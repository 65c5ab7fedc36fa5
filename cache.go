package main

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedListing stores one listing snapshot with its read time.
type CachedListing struct {
	Records   []Submission
	Timestamp time.Time
}

// ListingCache caches the admin listing snapshot per collection path. The
// admin view is a manual-reload snapshot, so short TTLs only save repeated
// reads within a reload burst; every accepted write invalidates.
type ListingCache struct {
	listings *lru.Cache[string, CachedListing]
	ttl      time.Duration
	mu       sync.Mutex
}

// NewListingCache creates a listing cache with the given size and TTL.
func NewListingCache(size int, ttl time.Duration) (*ListingCache, error) {
	listings, err := lru.New[string, CachedListing](size)
	if err != nil {
		return nil, err
	}
	return &ListingCache{listings: listings, ttl: ttl}, nil
}

// Get retrieves the cached listing for a collection path, expiring stale
// entries.
func (c *ListingCache) Get(path string) ([]Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.listings.Get(path)
	if !ok {
		return nil, false
	}
	if time.Since(cached.Timestamp) > c.ttl {
		c.listings.Remove(path)
		return nil, false
	}
	return cached.Records, true
}

// Set stores a listing snapshot for a collection path.
func (c *ListingCache) Set(path string, records []Submission) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listings.Add(path, CachedListing{Records: records, Timestamp: time.Now()})
}

// Invalidate drops the cached listing for a collection path.
func (c *ListingCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listings.Remove(path)
}
