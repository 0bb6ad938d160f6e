package components

import (
	"context"

	"github.com/goliatone/go-cms-authoring/internal/domain"
	"github.com/goliatone/go-cms-authoring/internal/identity"
	"golang.org/x/sync/errgroup"
)

// Cache holds resolved components for one session, keyed by normalized id.
// It is not safe for concurrent writers; ResolveAll writes only after its
// workers have finished.
type Cache struct {
	entries map[string]domain.ComponentDescriptor
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]domain.ComponentDescriptor{}}
}

// key folds every spelling of a GUID, braced or not, onto its hex key. Paths
// and other refs are only trimmed and upper-cased.
func (c *Cache) key(ref string) string {
	if _, err := identity.CanonicalGUID(ref); err == nil || identity.IsBracedGUID(ref) {
		return identity.HexKey(ref)
	}
	return identity.Normalize(ref)
}

// Get returns the cached descriptor for ref.
func (c *Cache) Get(ref string) (domain.ComponentDescriptor, bool) {
	d, ok := c.entries[c.key(ref)]
	return d, ok
}

// Put stores d under ref.
func (c *Cache) Put(ref string, d domain.ComponentDescriptor) {
	c.entries[c.key(ref)] = d
}

// Len reports the number of cached components.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Resolve consults the cache before calling resolver.
func (c *Cache) Resolve(ctx context.Context, resolver Resolver, ref string) (domain.ComponentDescriptor, error) {
	if d, ok := c.Get(ref); ok {
		return d, nil
	}
	d, err := resolver.Resolve(ctx, ref)
	if err != nil {
		return domain.ComponentDescriptor{}, err
	}
	c.Put(ref, d)
	return d, nil
}

// Resolution is the outcome of resolving one component reference.
type Resolution struct {
	Ref        string
	Descriptor domain.ComponentDescriptor
	Err        error
	Cached     bool
}

// ResolveAll resolves the distinct refs, at most concurrency at a time. A
// failure is recorded on its Resolution and never stops the others. Results
// follow the order in which refs first appear.
func (c *Cache) ResolveAll(ctx context.Context, resolver Resolver, refs []string, concurrency int) []Resolution {
	if concurrency <= 0 {
		concurrency = 1
	}

	seen := map[string]bool{}
	var results []Resolution
	for _, ref := range refs {
		k := c.key(ref)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		res := Resolution{Ref: ref}
		if d, ok := c.Get(ref); ok {
			res.Descriptor = d
			res.Cached = true
		}
		results = append(results, res)
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range results {
		if results[i].Cached {
			continue
		}
		g.Go(func() error {
			d, err := resolver.Resolve(ctx, results[i].Ref)
			results[i].Descriptor = d
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.Err == nil && !res.Cached {
			c.Put(res.Ref, res.Descriptor)
		}
	}
	return results
}
