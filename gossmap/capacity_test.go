package gossmap

import "testing"

func TestBuildAndLookupFastPath(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})

	cache := Build(g)
	idx, _ := g.ChannelIndex(1)

	capMsat, ok := cache.Lookup(idx)
	if !ok {
		t.Fatalf("expected fast path hit")
	}
	if capMsat < 1_000_000_000 {
		t.Fatalf("capacity understated: got %d msat, want >= 1_000_000_000", capMsat)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})

	cache := Build(g)
	clone := cache.Clone()
	idx, _ := g.ChannelIndex(1)

	clone.Clear(idx)

	if _, ok := clone.Lookup(idx); ok {
		t.Fatalf("clone should be cleared")
	}
	if _, ok := cache.Lookup(idx); !ok {
		t.Fatalf("clearing the clone must not affect the shared cache")
	}
}

func TestMissingCapacityIsSentinel(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, HasCapacity: false})

	cache := Build(g)
	idx, _ := g.ChannelIndex(1)

	if _, ok := cache.Lookup(idx); ok {
		t.Fatalf("missing capacity must fall through to the slow path")
	}
}
