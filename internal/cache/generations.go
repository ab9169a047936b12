package cache

import "sync"

// generations orders cache writes against invalidations. A fetch snapshots
// the generation of its tags before loading and an invalidation bumps them
// before clearing the store, so a value loaded across an invalidation is
// never written back. Only tags with a fetch in flight are tracked.
type generations struct {
	// order is held shared around a fetch's check-and-write and exclusively
	// around a bump.
	order sync.RWMutex

	mu   sync.Mutex
	tags map[string]*tagGeneration
}

type tagGeneration struct {
	inflight int
	gen      uint64
}

func (g *generations) begin(tags []string) []uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tags == nil {
		g.tags = make(map[string]*tagGeneration)
	}
	snap := make([]uint64, len(tags))
	for i, tag := range tags {
		tg, ok := g.tags[tag]
		if !ok {
			tg = &tagGeneration{}
			g.tags[tag] = tg
		}
		tg.inflight++
		snap[i] = tg.gen
	}
	return snap
}

func (g *generations) current(tags []string, snap []uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, tag := range tags {
		if g.tags[tag].gen != snap[i] {
			return false
		}
	}
	return true
}

func (g *generations) finish(tags []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, tag := range tags {
		tg := g.tags[tag]
		if tg.inflight--; tg.inflight == 0 {
			delete(g.tags, tag)
		}
	}
}

func (g *generations) bump(tags []string) {
	g.order.Lock()
	defer g.order.Unlock()
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, tag := range tags {
		if tg, ok := g.tags[tag]; ok {
			tg.gen++
		}
	}
}

func (g *generations) tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tags)
}
