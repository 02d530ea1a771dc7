package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Resource names a cached list endpoint.
type Resource string

const (
	ResourceProjects     Resource = "projects"
	ResourceContributors Resource = "contributors"
	ResourceIssues       Resource = "issues"
	ResourceComments     Resource = "comments"
)

var allResources = []Resource{
	ResourceProjects,
	ResourceContributors,
	ResourceIssues,
	ResourceComments,
}

// ListCache serves list responses under versioned keys. Every (resource,
// actor) pair has a version counter with no expiry; bumping it orphans all
// previously cached pages at once. Orphaned pages fall out via their TTL.
type ListCache struct {
	client *Client
	ttl    time.Duration
}

// NewListCache creates a ListCache with the given page TTL.
func NewListCache(client *Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func versionKey(resource Resource, actorID uint64) string {
	return fmt.Sprintf("%s_user_%d_version", resource, actorID)
}

func listKey(resource Resource, actorID uint64, page, pageSize int, version int64) string {
	return fmt.Sprintf("%s_user_%d_page_%d_size_%d_v%d", resource, actorID, page, pageSize, version)
}

// version returns the current counter, 0 when no mutation has bumped it yet.
func (c *ListCache) version(ctx context.Context, resource Resource, actorID uint64) (int64, error) {
	v, err := c.client.rdb.Get(ctx, versionKey(resource, actorID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// Get attempts a cached fetch into dest. It reports false on a miss, for
// anonymous actors, and on any redis failure; the caller then runs the live
// query. A hit returns the payload exactly as it was stored. The page size is
// part of the key, so a hit always matches the window the caller asked for.
func (c *ListCache) Get(ctx context.Context, resource Resource, actorID uint64, page, pageSize int, dest interface{}) bool {
	if actorID == 0 {
		return false
	}

	version, err := c.version(ctx, resource, actorID)
	if err != nil {
		log.Printf("cache: version lookup failed for %s user %d: %v", resource, actorID, err)
		return false
	}

	key := listKey(resource, actorID, page, pageSize, version)
	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("cache: get failed for %s: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt entry, drop it rather than serve it again.
		c.client.rdb.Del(ctx, key)
		return false
	}
	return true
}

// Set stores a list response under the current version with the page TTL.
// Failures are logged and swallowed; caching is not a correctness requirement.
func (c *ListCache) Set(ctx context.Context, resource Resource, actorID uint64, page, pageSize int, value interface{}) {
	if actorID == 0 {
		return
	}

	version, err := c.version(ctx, resource, actorID)
	if err != nil {
		log.Printf("cache: version lookup failed for %s user %d: %v", resource, actorID, err)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: marshal failed for %s user %d: %v", resource, actorID, err)
		return
	}

	key := listKey(resource, actorID, page, pageSize, version)
	if err := c.client.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("cache: set failed for %s: %v", key, err)
	}
}
