package database

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// probeCache is a bounded cache in front of Relation.probe for columns
// that are queried with the same value repeatedly within a single
// materialization pass (spec §9's polymorphism note). It is invalidated
// wholesale on any write to the owning relation, which is simple and
// correct even though it throws away unrelated cached keys; relations only
// churn between semi-naive iterations, not within one evaluator pass.
type probeCache struct {
	c *lru.Cache[string, []value.Row]
}

func newProbeCache(size int) *probeCache {
	c, err := lru.New[string, []value.Row](size)
	if err != nil {
		// Only returns an error for a non-positive size, which never
		// happens here; a cache is an optimization, never degrade to nil.
		c, _ = lru.New[string, []value.Row](1)
	}
	return &probeCache{c: c}
}

func (p *probeCache) get(key string) ([]value.Row, bool) {
	return p.c.Get(key)
}

func (p *probeCache) put(key string, rows []value.Row) {
	p.c.Add(key, rows)
}

func (p *probeCache) invalidateAll() {
	p.c.Purge()
}
