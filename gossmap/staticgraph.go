package gossmap

import "sync"

// StaticGraph is an in-memory GraphView backed by plain maps, in the
// style of the teacher's memChannelGraph (autopilot/graph.go). It is
// the reference implementation used by tests and by callers that
// don't yet have a live gossip-store reader wired in; a production
// loader would implement GraphView/Mutable the same way against its
// own on-disk snapshot.
//
// Refresh always reports no change: StaticGraph has no external
// source to advance against. A gossip-store-backed implementation
// overrides this with real snapshot-generation tracking.
type StaticGraph struct {
	mu sync.RWMutex

	// channels holds the base (public) graph, keyed by scid.
	channels map[SCID]Channel

	// index assigns each scid a dense index. An index is never
	// reassigned: removing a channel leaves its slot vacant.
	index    map[SCID]int
	indexRev []SCID

	// local holds layer-injected local channels, overlaid on top of
	// channels for lookups but not assigned a ChannelIndex (they are
	// never capacity-cached: layers declare their capacity explicitly).
	local map[SCID]Channel

	// disabled holds nodes whose adjacent channels are currently
	// unusable, as asserted by the active overlay.
	disabled map[NodeID]bool
}

// NewStaticGraph creates an empty graph.
func NewStaticGraph() *StaticGraph {
	return &StaticGraph{
		channels: make(map[SCID]Channel),
		index:    make(map[SCID]int),
		local:    make(map[SCID]Channel),
		disabled: make(map[NodeID]bool),
	}
}

var (
	_ GraphView = (*StaticGraph)(nil)
	_ Mutable   = (*StaticGraph)(nil)
)

// AddChannel inserts or replaces a public channel and (re)assigns it a
// stable index if it's new.
func (g *StaticGraph) AddChannel(ch Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.index[ch.SCID]; !ok {
		g.index[ch.SCID] = len(g.indexRev)
		g.indexRev = append(g.indexRev, ch.SCID)
	}
	g.channels[ch.SCID] = ch
}

// RemoveChannel drops a public channel. Its index slot is left vacant
// (indexRev keeps a tombstone) so that outstanding ChannelIndex values
// handed out for other channels never shift, matching spec.md §4.1's
// "may change across refreshes, stable within one" contract.
func (g *StaticGraph) RemoveChannel(scid SCID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.channels, scid)
}

// Refresh implements GraphView.
func (g *StaticGraph) Refresh() bool {
	return false
}

// ForEachChannel implements GraphView.
func (g *StaticGraph) ForEachChannel(fn func(Channel)) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, ch := range g.channels {
		fn(ch)
	}
	for _, ch := range g.local {
		fn(ch)
	}
}

// ChannelIndex implements GraphView. Local channels never have a
// stable index: they are excluded from the capacity cache by design
// (spec.md §4.3/§4.7: local channels must declare capacity
// explicitly, so the fast path is never consulted for them).
func (g *StaticGraph) ChannelIndex(scid SCID) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx, ok := g.index[scid]
	if !ok {
		return 0, false
	}
	if _, exists := g.channels[scid]; !exists {
		return 0, false
	}
	return idx, true
}

// NumChannels implements GraphView.
func (g *StaticGraph) NumChannels() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.indexRev)
}

// Channel implements GraphView.
func (g *StaticGraph) Channel(scid SCID) (Channel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if ch, ok := g.local[scid]; ok {
		return ch, true
	}
	ch, ok := g.channels[scid]
	return ch, ok
}

// CapacitySat implements GraphView.
func (g *StaticGraph) CapacitySat(scid SCID) (uint64, bool) {
	ch, ok := g.Channel(scid)
	if !ok || !ch.HasCapacity {
		return 0, false
	}
	return ch.CapacitySat, true
}

// Policy implements GraphView.
func (g *StaticGraph) Policy(scid SCID, dir Direction) (Policy, bool) {
	ch, ok := g.Channel(scid)
	if !ok {
		return Policy{}, false
	}
	p := ch.Policies[dir]
	if p == nil {
		return Policy{}, false
	}
	return *p, true
}

// NodeDisabled reports whether n is currently marked unusable by the
// active overlay.
func (g *StaticGraph) NodeDisabled(n NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.disabled[n]
}

// ChannelUsable reports whether scid can carry traffic given the
// currently-applied overlay: it exists and neither endpoint is
// disabled.
func (g *StaticGraph) ChannelUsable(scid SCID) bool {
	ch, ok := g.Channel(scid)
	if !ok {
		return false
	}
	return !g.NodeDisabled(ch.Node1) && !g.NodeDisabled(ch.Node2)
}

func (g *StaticGraph) addLocalChannel(ch Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.local[ch.SCID] = ch
}

func (g *StaticGraph) removeLocalChannel(scid SCID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.local, scid)
}

func (g *StaticGraph) addDisabledNode(n NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disabled[n] = true
}

func (g *StaticGraph) removeDisabledNode(n NodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.disabled, n)
}
