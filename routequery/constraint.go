// Package routequery implements the constraint-composition algorithm
// (spec.md §4.7) and the per-query context that binds a refreshed
// graph snapshot, its capacity cache, the selected layers, and the
// reservation table for the lifetime of one route query.
//
// Grounded on get_constraints/get_routes in
// original_source/plugins/askrene/askrene.c.
package routequery

import (
	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/layer"
	"github.com/hashrelay/lightning/msat"
	"github.com/hashrelay/lightning/reserve"
)

// Logger is the minimal logging capability ConstraintEngine needs to
// report the integrity warnings spec.md §4.7 step 4 calls for. It is
// satisfied by slog.Logger, which the oracle package passes in directly.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warnf(string, ...interface{}) {}

// Metrics is the minimal counter capability ConstraintEngine needs to
// report whether a Bounds call resolved via the fp16 fast path or fell
// through to the layer/capacity fold.
type Metrics interface {
	IncFastPath()
	IncSlowPath()
}

type noopMetrics struct{}

func (noopMetrics) IncFastPath() {}
func (noopMetrics) IncSlowPath() {}

// Engine computes the effective [min, max] msat window for a directed
// channel by folding the base graph, the selected layers, and the
// reservation table, in that order. No result is cached: every call
// recomputes from scratch (spec.md §4.7 step 6).
type Engine struct {
	Graph    gossmap.GraphView
	Cache    gossmap.CapacityCache
	Layers   []*layer.Layer
	Reserved *reserve.Table
	Log      Logger
	Metrics  Metrics
}

// Bounds returns the effective minimum and maximum msat that scidd can
// currently carry. max < min means the edge cannot carry any more
// traffic at all; callers must treat that as unusable (spec.md §4.7
// step 5).
func (e *Engine) Bounds(scidd gossmap.SCIDD) (min, max msat.Amount) {
	log := e.Log
	if log == nil {
		log = noopLogger{}
	}
	m := e.Metrics
	if m == nil {
		m = noopMetrics{}
	}

	min = msat.Zero
	max = msat.MaxAmount

	// Step 2: fast path.
	if idx, ok := e.Graph.ChannelIndex(scidd.SCID); ok {
		if capMsat, hit := e.Cache.Lookup(idx); hit {
			m.IncFastPath()
			max = msat.Amount(capMsat)
			return e.subtractReservation(scidd, min, max)
		}
	}
	m.IncSlowPath()

	// Step 3: layer fold, in caller-supplied order. The MIN/MAX
	// aggregation is commutative; only the tie-breaking for equal
	// limits depends on order, which this preserves by iterating
	// e.Layers as given.
	for _, l := range e.Layers {
		if cmin, ok := l.FindConstraint(scidd, layer.ConstraintMin); ok {
			if cmin.LimitMsat.Greater(min) {
				min = cmin.LimitMsat
			}
		}
		if cmax, ok := l.FindConstraint(scidd, layer.ConstraintMax); ok {
			if cmax.LimitMsat.Less(max) {
				max = cmax.LimitMsat
			}
		}
	}

	// Step 4: capacity fallback.
	if max == msat.MaxAmount {
		if capSat, ok := e.Graph.CapacitySat(scidd.SCID); ok {
			max = msat.FromSatoshis(capSat)
		} else {
			log.Warnf("channel %s has no capacity and no layer constraint; "+
				"leaving max unbounded", scidd)
		}
	}

	return e.subtractReservation(scidd, min, max)
}

// subtractReservation applies step 5: if scidd is reserved, subtract
// the reserved amount from both bounds with saturating subtraction.
func (e *Engine) subtractReservation(scidd gossmap.SCIDD, min, max msat.Amount) (msat.Amount, msat.Amount) {
	if e.Reserved == nil {
		return min, max
	}
	r, ok := e.Reserved.Find(scidd)
	if !ok {
		return min, max
	}
	min, _ = min.Sub(r.AmountMsat)
	max, _ = max.Sub(r.AmountMsat)
	return min, max
}

// Usable reports whether the [min, max] bounds leave any room at all:
// max >= min. The caller is responsible for calling Bounds first.
func Usable(min, max msat.Amount) bool {
	return !max.Less(min)
}
