package routequery

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/msat"
)

// Hop is one leg of a route: traverse scidd, forwarding amountMsat
// onward to nextNode with the given outgoing CLTV delta.
type Hop struct {
	SCID       gossmap.SCID
	Dir        gossmap.Direction
	NextNodeID gossmap.NodeID
	AmountMsat msat.Amount
	CLTVDelta  uint32
}

// Route is an ordered, non-empty sequence of hops plus an estimated
// end-to-end success probability in [0, 1].
type Route struct {
	Hops        []Hop
	SuccessProb float64
}

// ErrNoRoute is returned by a RouteFinder when no viable path exists.
type ErrNoRoute struct {
	Source, Destination gossmap.NodeID
}

func (e *ErrNoRoute) Error() string {
	return "no route found from " + e.Source.String() + " to " + e.Destination.String()
}

// RouteFinder is the pluggable interface spec.md §9's first Open
// Question asks for: the actual pathfinding algorithm, its
// probability estimator, and its use of per-direction policy are out
// of scope for this core (spec.md §1), but ConstraintEngine is the
// stable surface a real implementation composes against. FindRoutes
// must consult qctx.Engine for every candidate edge it considers so
// that layer constraints and reservations are honored.
type RouteFinder interface {
	FindRoutes(ctx context.Context, qctx *Context, source, destination gossmap.NodeID, amountMsat msat.Amount) ([]Route, error)
}

// StubFinder is the one concrete RouteFinder this package ships. It
// reproduces the behavior of the source's get_routes stub (a
// synthetic single-hop route) but, unlike the source's hard-coded
// scid, actually walks the outgoing edges of source through
// ConstraintEngine and only succeeds if one of them can carry
// amountMsat to destination directly. This keeps the stub exercising
// the real constraint/overlay/reservation machinery end to end
// (spec.md §8 scenarios 1 and 6 both require this) while leaving room
// for a real multi-hop pathfinder to be substituted later without
// touching routequery or layer/reserve.
//
// defaultCLTVDelta is a fixed fallback used when the traversed channel (local
// or public) declares no policy; the source hard-codes 6 for its
// synthetic hop.
type StubFinder struct {
	Log Logger
}

var _ RouteFinder = (*StubFinder)(nil)

const defaultCLTVDelta = 6

func (f *StubFinder) FindRoutes(ctx context.Context, qctx *Context, source, destination gossmap.NodeID, amountMsat msat.Amount) ([]Route, error) {
	candidates := candidateEdges(qctx.Graph, source, destination)
	if len(candidates) == 0 {
		return nil, &ErrNoRoute{Source: source, Destination: destination}
	}

	type result struct {
		route Route
		ok    bool
	}
	results := make([]result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	engine := qctx.Engine(f.Log)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			min, max := engine.Bounds(cand.scidd)
			if !Usable(min, max) {
				return nil
			}
			if amountMsat.Less(min) || max.Less(amountMsat) {
				return nil
			}

			delay := uint32(defaultCLTVDelta)
			if p, ok := qctx.Graph.Policy(cand.scidd.SCID, cand.scidd.Dir); ok {
				delay = uint32(p.CLTVDelta)
			}

			results[i] = result{
				route: Route{
					Hops: []Hop{{
						SCID:       cand.scidd.SCID,
						Dir:        cand.scidd.Dir,
						NextNodeID: destination,
						AmountMsat: amountMsat,
						CLTVDelta:  delay,
					}},
					SuccessProb: 1,
				},
				ok: true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.ok {
			return []Route{r.route}, nil
		}
	}
	return nil, &ErrNoRoute{Source: source, Destination: destination}
}

type candidateEdge struct {
	scidd gossmap.SCIDD
}

// candidateEdges returns every directed channel directly connecting
// source to destination, in either public or local form, skipping any
// channel the overlay has made unusable.
func candidateEdges(g gossmap.GraphView, source, destination gossmap.NodeID) []candidateEdge {
	var out []candidateEdge
	g.ForEachChannel(func(ch gossmap.Channel) {
		if !g.ChannelUsable(ch.SCID) {
			return
		}
		switch {
		case ch.Node1 == source && ch.Node2 == destination:
			out = append(out, candidateEdge{scidd: gossmap.SCIDD{SCID: ch.SCID, Dir: gossmap.Direction0}})
		case ch.Node2 == source && ch.Node1 == destination:
			out = append(out, candidateEdge{scidd: gossmap.SCIDD{SCID: ch.SCID, Dir: gossmap.Direction1}})
		}
	})
	return out
}
