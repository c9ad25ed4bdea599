package gossmap

// LocalMods is a transient overlay patch: a set of layer-declared
// local channels plus a set of disabled nodes, gathered for the
// duration of one route query. Apply/Remove must be paired on every
// exit path (spec.md §4.6); LocalMods itself is stateless about
// which graph it was applied to, so callers are responsible for that
// pairing (RouteQueryContext does this — see the routequery package).
//
// Grounded on gossmap_localmods_new/gossmap_apply_localmods/
// gossmap_remove_localmods in askrene.c.
type LocalMods struct {
	channels []Channel
	disabled []NodeID
}

// NewLocalMods returns an empty patch.
func NewLocalMods() *LocalMods {
	return &LocalMods{}
}

// AddChannel registers a local channel to be injected on Apply.
func (m *LocalMods) AddChannel(ch Channel) {
	m.channels = append(m.channels, ch)
}

// AddDisabledNode registers a node to be marked unusable on Apply.
func (m *LocalMods) AddDisabledNode(n NodeID) {
	m.disabled = append(m.disabled, n)
}

// Apply splices every registered local channel and disabled node into
// g. It is idempotent per-call but not safe to apply twice without an
// intervening Remove.
func (m *LocalMods) Apply(g Mutable) {
	for _, ch := range m.channels {
		g.addLocalChannel(ch)
	}
	for _, n := range m.disabled {
		g.addDisabledNode(n)
	}
}

// Remove undoes a prior Apply, restoring g to the state it was in
// before the patch was spliced in.
func (m *LocalMods) Remove(g Mutable) {
	for _, ch := range m.channels {
		g.removeLocalChannel(ch.SCID)
	}
	for _, n := range m.disabled {
		g.removeDisabledNode(n)
	}
}
