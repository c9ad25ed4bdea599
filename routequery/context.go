package routequery

import (
	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/layer"
	"github.com/hashrelay/lightning/reserve"
)

// Context is the per-query scoped object bundling a refreshed graph
// handle, a private clone of the capacity cache, the selected layers,
// a handle to the reservation table, and the active overlay patch
// (spec.md §4.8). Callers obtain the refreshed graph/shared-cache pair
// from the process-wide oracle (step 1 of §4.8 — refreshing the
// shared graph is process state, not per-query state) and pass an
// already-cloned cache into NewContext, which then performs steps
// 3-6: materialising the overlay, clearing cache entries the layers
// and reservations override, and applying the patch.
//
// Teardown (Close) removes the overlay patch; it must run on every
// exit path, including error paths, per spec.md §4.6/§4.8.
type Context struct {
	Graph    gossmap.Mutable
	Cache    gossmap.CapacityCache
	Layers   []*layer.Layer
	Reserved *reserve.Table

	// Metrics, if set, receives fast/slow-path counts from every Engine
	// this context hands out. Oracle sets it after NewContext returns.
	Metrics Metrics

	patch  *gossmap.LocalMods
	closed bool
}

// NewContext builds a query context from an already-refreshed graph
// and an already-cloned capacity cache (steps 1-2 of spec.md §4.8,
// performed by the caller against process-wide state), the ordered
// list of layers selected by name (unknown names already filtered out
// by layer.Store.Select, matching step 3's "silently skip"), and the
// reservation table.
//
// The returned Context has its overlay applied; callers must call
// Close when done, on every exit path.
func NewContext(graph gossmap.Mutable, cache gossmap.CapacityCache, layers []*layer.Layer, reserved *reserve.Table) *Context {
	patch := gossmap.NewLocalMods()

	// Step 3: materialise the overlay patch from every selected layer.
	for _, l := range layers {
		l.AddLocalMods(patch)
	}

	// Step 4: clear cache entries each selected layer overrides.
	for _, l := range layers {
		l.ClearOverriddenCapacities(graph, cache)
	}

	// Step 5: clear cache entries for reserved scidds.
	if reserved != nil {
		reserved.ClearCacheEntries(graph, cache)
	}

	// Step 6: apply the overlay patch to the graph.
	patch.Apply(graph)

	return &Context{
		Graph:    graph,
		Cache:    cache,
		Layers:   layers,
		Reserved: reserved,
		patch:    patch,
	}
}

// Engine returns a ConstraintEngine bound to this context's graph,
// cache, layers, and reservation table.
func (c *Context) Engine(log Logger) *Engine {
	return &Engine{
		Graph:    c.Graph,
		Cache:    c.Cache,
		Layers:   c.Layers,
		Reserved: c.Reserved,
		Log:      log,
		Metrics:  c.Metrics,
	}
}

// Close removes the overlay patch, restoring the graph to the state
// it was in before NewContext applied it. It is idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.patch.Remove(c.Graph)
	c.closed = true
}
