package taiga

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Reference-data kinds cached per project.
const (
	RefUserStoryStatuses = "userstory-statuses"
	RefTaskStatuses      = "task-statuses"
	RefIssueStatuses     = "issue-statuses"
	RefPriorities        = "priorities"
	RefSeverities        = "severities"
	RefIssueTypes        = "issue-types"
)

const refCacheTTL = 5 * time.Minute

// refCache is a read-through TTL cache for per-project reference data
// (statuses, priorities, severities, issue types). Entries expire lazily on
// Get; no janitor goroutine is started, since one cache exists per session
// client.
type refCache struct {
	cache *ttlcache.Cache[string, []RefItem]
}

func newRefCache() *refCache {
	return &refCache{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, []RefItem](refCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, []RefItem](),
		),
	}
}

func (r *refCache) get(kind string, projectID int) ([]RefItem, bool) {
	item := r.cache.Get(refKey(kind, projectID))
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (r *refCache) set(kind string, projectID int, items []RefItem) {
	r.cache.Set(refKey(kind, projectID), items, ttlcache.DefaultTTL)
}

func refKey(kind string, projectID int) string {
	return fmt.Sprintf("%s:%d", kind, projectID)
}

// ReferenceData returns the reference items of the given kind for a project,
// served from the cache when fresh.
func (c *Client) ReferenceData(ctx context.Context, kind string, projectID int) ([]RefItem, error) {
	switch kind {
	case RefUserStoryStatuses, RefTaskStatuses, RefIssueStatuses,
		RefPriorities, RefSeverities, RefIssueTypes:
	default:
		return nil, fmt.Errorf("unknown reference data kind %q", kind)
	}

	if items, ok := c.refs.get(kind, projectID); ok {
		return items, nil
	}

	q := url.Values{"project": {strconv.Itoa(projectID)}}
	var items []RefItem
	if err := c.do(ctx, http.MethodGet, "/"+kind, q, nil, &items); err != nil {
		return nil, err
	}
	c.refs.set(kind, projectID, items)
	return items, nil
}
