// Package layer implements named, mutable overlays of user-asserted
// facts — local channels, min/max liquidity constraints, and disabled
// nodes — that a route query can selectively compose on top of the
// base graph.
//
// Grounded on struct layer and its layer_* operations in
// original_source/plugins/askrene/askrene.c.
package layer

import (
	"sync"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/msat"
)

// ConstraintKind distinguishes a minimum from a maximum liquidity
// assertion. It replaces the source's CONSTRAINT_MIN/CONSTRAINT_MAX
// enum with a small Go type, per spec.md §9.
type ConstraintKind uint8

const (
	ConstraintMin ConstraintKind = iota
	ConstraintMax
)

func (k ConstraintKind) String() string {
	if k == ConstraintMin {
		return "min"
	}
	return "max"
}

// Constraint is a single min or max liquidity assertion on a directed
// channel, timestamped for aging.
type Constraint struct {
	SCIDD     gossmap.SCIDD
	Kind      ConstraintKind
	LimitMsat msat.Amount
	Timestamp int64 // unix seconds
}

// LocalChannel is a full channel description declared by a layer for
// a channel that does not exist in the base graph.
type LocalChannel struct {
	SCID        gossmap.SCID
	Source      gossmap.NodeID
	Destination gossmap.NodeID
	CapacityMsat msat.Amount

	BaseFeeMsat      uint32
	ProppFeeMillionths uint32
	Delay            uint16
	HTLCMinMsat      msat.Amount
	HTLCMaxMsat      msat.Amount
}

// constraintKey identifies one (kind, scidd) slot: at most one MIN and
// one MAX per scidd per layer (spec.md §3).
type constraintKey struct {
	scidd gossmap.SCIDD
	kind  ConstraintKind
}

// Layer is a named, mutable overlay. All methods are safe for
// concurrent use.
type Layer struct {
	mu sync.RWMutex

	name string

	localChannels map[gossmap.SCID]LocalChannel
	constraints   map[constraintKey]*Constraint
	disabledNodes map[gossmap.NodeID]struct{}
}

func newLayer(name string) *Layer {
	return &Layer{
		name:          name,
		localChannels: make(map[gossmap.SCID]LocalChannel),
		constraints:   make(map[constraintKey]*Constraint),
		disabledNodes: make(map[gossmap.NodeID]struct{}),
	}
}

// Name returns the layer's name.
func (l *Layer) Name() string {
	return l.name
}

// UpdateLocalChannel inserts or replaces the layer's declaration for
// scid.
func (l *Layer) UpdateLocalChannel(lc LocalChannel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.localChannels[lc.SCID] = lc
}

// FindLocalChannel returns the layer's declaration for scid, if any.
func (l *Layer) FindLocalChannel(scid gossmap.SCID) (LocalChannel, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lc, ok := l.localChannels[scid]
	return lc, ok
}

// CheckLocalChannel reports whether a proposed (source, destination,
// capacity) triple structurally matches an existing declaration — the
// idempotency check create-channel uses before failing a conflicting
// redeclaration (spec.md §4.4, §4.9).
func CheckLocalChannel(lc LocalChannel, src, dst gossmap.NodeID, capacityMsat msat.Amount) bool {
	return lc.Source == src && lc.Destination == dst && lc.CapacityMsat == capacityMsat
}

// UpdateConstraint inserts or replaces the (kind) constraint for
// scidd, refreshing its timestamp, and returns the resulting record.
// A later update with the same kind replaces the earlier one; it does
// not merge (spec.md §3).
func (l *Layer) UpdateConstraint(scidd gossmap.SCIDD, kind ConstraintKind, timestamp int64, limit msat.Amount) Constraint {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := constraintKey{scidd: scidd, kind: kind}
	c := &Constraint{SCIDD: scidd, Kind: kind, LimitMsat: limit, Timestamp: timestamp}
	l.constraints[key] = c
	return *c
}

// FindConstraint returns the (kind) constraint for scidd, if any.
func (l *Layer) FindConstraint(scidd gossmap.SCIDD, kind ConstraintKind) (Constraint, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.constraints[constraintKey{scidd: scidd, kind: kind}]
	if !ok {
		return Constraint{}, false
	}
	return *c, true
}

// AddDisabledNode marks n unusable whenever this layer is selected.
// Idempotent.
func (l *Layer) AddDisabledNode(n gossmap.NodeID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabledNodes[n] = struct{}{}
}

// DisabledNodes returns a snapshot of the layer's disabled-node set.
func (l *Layer) DisabledNodes() []gossmap.NodeID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]gossmap.NodeID, 0, len(l.disabledNodes))
	for n := range l.disabledNodes {
		out = append(out, n)
	}
	return out
}

// NumLocalChannels returns the number of local channels this layer
// currently declares.
func (l *Layer) NumLocalChannels() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.localChannels)
}

// NumConstraints returns the number of MIN/MAX constraints this layer
// currently holds.
func (l *Layer) NumConstraints() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.constraints)
}

// TrimConstraints drops every constraint with Timestamp < cutoff and
// returns how many were removed.
func (l *Layer) TrimConstraints(cutoff int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, c := range l.constraints {
		if c.Timestamp < cutoff {
			delete(l.constraints, k)
			removed++
		}
	}
	return removed
}

// AddLocalMods registers every local channel and disabled-node effect
// this layer asserts into patch, converting LocalChannel's msat fields
// into a gossmap.Channel. Grounded on layer_add_localmods in
// askrene.c.
func (l *Layer) AddLocalMods(patch *gossmap.LocalMods) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, lc := range l.localChannels {
		ch := gossmap.Channel{
			SCID:        lc.SCID,
			Node1:       lc.Source,
			Node2:       lc.Destination,
			CapacitySat: uint64(lc.CapacityMsat) / 1000,
			HasCapacity: true,
			Policies: [2]*gossmap.Policy{
				{
					Enabled:     true,
					BaseFeeMsat: lc.BaseFeeMsat,
					ProppFeePpm: lc.ProppFeeMillionths,
					CLTVDelta:   lc.Delay,
					HTLCMinMsat: uint64(lc.HTLCMinMsat),
					HTLCMaxMsat: uint64(lc.HTLCMaxMsat),
				},
				{
					Enabled:     true,
					BaseFeeMsat: lc.BaseFeeMsat,
					ProppFeePpm: lc.ProppFeeMillionths,
					CLTVDelta:   lc.Delay,
					HTLCMinMsat: uint64(lc.HTLCMinMsat),
					HTLCMaxMsat: uint64(lc.HTLCMaxMsat),
				},
			},
		}
		patch.AddChannel(ch)
	}
	for n := range l.disabledNodes {
		patch.AddDisabledNode(n)
	}
}

// ClearOverriddenCapacities zeroes the capacity-cache entry for every
// channel this layer asserts a constraint or local-channel declaration
// against, forcing the ConstraintEngine slow path so the fold in
// routequery actually sees the layer's assertion. Grounded on
// layer_clear_overridden_capacities in askrene.c.
func (l *Layer) ClearOverriddenCapacities(g gossmap.GraphView, cache gossmap.CapacityCache) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for key := range l.constraints {
		if idx, ok := g.ChannelIndex(key.scidd.SCID); ok {
			cache.Clear(idx)
		}
	}
	for scid := range l.localChannels {
		if idx, ok := g.ChannelIndex(scid); ok {
			cache.Clear(idx)
		}
	}
}
