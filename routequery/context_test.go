package routequery

import (
	"testing"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/layer"
	"github.com/hashrelay/lightning/reserve"
)

// countChannels counts every channel visible through g, including
// overlay-injected local channels (which NumChannels does not count).
func countChannels(g gossmap.GraphView) int {
	n := 0
	g.ForEachChannel(func(gossmap.Channel) { n++ })
	return n
}

func TestNewContextAndCloseBalanceTheOverlay(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b, c := node(1), node(2), node(3)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})
	before := countChannels(g)

	store := layer.NewStore()
	l := store.Create("overlay")
	l.UpdateLocalChannel(layer.LocalChannel{
		SCID:         2,
		Source:       b,
		Destination:  c,
		CapacityMsat: 500_000_000,
	})

	qctx := NewContext(g, gossmap.Build(g), []*layer.Layer{l}, reserve.NewTable())
	if countChannels(g) != before+1 {
		t.Fatalf("expected local channel to be applied, channel count %d want %d", countChannels(g), before+1)
	}
	if _, ok := g.Channel(2); !ok {
		t.Fatalf("local channel 2 should be visible through the graph while the context is open")
	}

	qctx.Close()
	if countChannels(g) != before {
		t.Fatalf("Close should remove the overlay, channel count %d want %d", countChannels(g), before)
	}
	if _, ok := g.Channel(2); ok {
		t.Fatalf("local channel 2 should no longer be visible after Close")
	}
}

func TestNewContextClosesIdempotently(t *testing.T) {
	g := gossmap.NewStaticGraph()
	qctx := NewContext(g, gossmap.Build(g), nil, reserve.NewTable())
	qctx.Close()
	qctx.Close()
}

func TestNewContextClearsLayerOverriddenCapacity(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})
	cache := gossmap.Build(g)

	idx, ok := g.ChannelIndex(1)
	if !ok {
		t.Fatalf("channel 1 should have a cache index")
	}
	if _, hit := cache.Lookup(idx); !hit {
		t.Fatalf("expected a populated fast-path entry before any override")
	}

	store := layer.NewStore()
	l := store.Create("overlay")
	l.UpdateConstraint(gossmap.SCIDD{SCID: 1, Dir: gossmap.Direction0}, layer.ConstraintMax, 1, 10)

	qctx := NewContext(g, cache, []*layer.Layer{l}, reserve.NewTable())
	defer qctx.Close()

	if _, hit := qctx.Cache.Lookup(idx); hit {
		t.Fatalf("the layer's constrained channel must have its fast-path entry cleared")
	}
}

func TestNewContextClearsReservedCapacity(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := node(1), node(2)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})
	cache := gossmap.Build(g)
	idx, _ := g.ChannelIndex(1)

	tbl := reserve.NewTable()
	sd := gossmap.SCIDD{SCID: 1, Dir: gossmap.Direction0}
	tbl.Add([]reserve.PathEntry{{SCIDD: sd, AmountMsat: 1000}})

	qctx := NewContext(g, cache, nil, tbl)
	defer qctx.Close()

	if _, hit := qctx.Cache.Lookup(idx); hit {
		t.Fatalf("a reserved channel must have its fast-path entry cleared")
	}
}
