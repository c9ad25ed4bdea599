package routequery

import (
	"context"
	"testing"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/layer"
	"github.com/hashrelay/lightning/reserve"
)

func TestStubFinderFindsSingleHopRoute(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	g.AddChannel(gossmap.Channel{
		SCID: 1, Node1: a, Node2: b,
		CapacitySat: 1_000_000, HasCapacity: true,
		Policies: [2]*gossmap.Policy{{Enabled: true, CLTVDelta: 40}, {Enabled: true, CLTVDelta: 40}},
	})
	qctx := NewContext(g, gossmap.Build(g), nil, reserve.NewTable())
	defer qctx.Close()

	f := &StubFinder{}
	routes, err := f.FindRoutes(context.Background(), qctx, a, b, 500_000)
	if err != nil {
		t.Fatalf("expected a route, got error: %v", err)
	}
	if len(routes) != 1 || len(routes[0].Hops) != 1 {
		t.Fatalf("expected exactly one single-hop route, got %+v", routes)
	}
	hop := routes[0].Hops[0]
	if hop.SCID != 1 || hop.CLTVDelta != 40 {
		t.Fatalf("unexpected hop: %+v", hop)
	}
	if routes[0].SuccessProb != 1 {
		t.Fatalf("a directly reachable channel should report probability 1, got %f", routes[0].SuccessProb)
	}
}

func TestStubFinderReturnsNoRouteWhenUnreachable(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	qctx := NewContext(g, gossmap.Build(g), nil, reserve.NewTable())
	defer qctx.Close()

	f := &StubFinder{}
	_, err := f.FindRoutes(context.Background(), qctx, a, b, 500_000)
	if err == nil {
		t.Fatalf("expected ErrNoRoute when no channel connects source and destination")
	}
	if _, ok := err.(*ErrNoRoute); !ok {
		t.Fatalf("expected *ErrNoRoute, got %T", err)
	}
}

func TestStubFinderDisabledNodeClosesOffEdges(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})

	store := layer.NewStore()
	l := store.Create("blocklist")
	l.AddDisabledNode(b)

	qctx := NewContext(g, gossmap.Build(g), []*layer.Layer{l}, reserve.NewTable())
	defer qctx.Close()

	f := &StubFinder{}
	_, err := f.FindRoutes(context.Background(), qctx, a, b, 500_000)
	if err == nil {
		t.Fatalf("a disabled destination node must close off the edge, expected ErrNoRoute")
	}
}

func TestStubFinderRejectsAmountOutsideBounds(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})
	qctx := NewContext(g, gossmap.Build(g), nil, reserve.NewTable())
	defer qctx.Close()

	f := &StubFinder{}
	_, err := f.FindRoutes(context.Background(), qctx, a, b, 2_000_000_000)
	if err == nil {
		t.Fatalf("an amount exceeding capacity must not yield a route")
	}
}
