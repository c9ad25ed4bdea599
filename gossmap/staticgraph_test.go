package gossmap

import "testing"

func nodeID(b byte) NodeID {
	var n NodeID
	n[0] = 0x02
	n[32] = b
	return n
}

func TestStaticGraphChannelIndexStableAcrossUnrelatedChanges(t *testing.T) {
	g := NewStaticGraph()
	a, b, c := nodeID(1), nodeID(2), nodeID(3)

	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 100, HasCapacity: true})
	idx1, ok := g.ChannelIndex(1)
	if !ok {
		t.Fatalf("expected channel 1 to exist")
	}

	g.AddChannel(Channel{SCID: 2, Node1: b, Node2: c, CapacitySat: 200, HasCapacity: true})

	idx1Again, ok := g.ChannelIndex(1)
	if !ok || idx1Again != idx1 {
		t.Fatalf("channel 1's index changed after unrelated add: %d -> %d", idx1, idx1Again)
	}
}

func TestStaticGraphRemoveThenChannelIndexMissing(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 100, HasCapacity: true})
	g.RemoveChannel(1)

	if _, ok := g.ChannelIndex(1); ok {
		t.Fatalf("removed channel should not report a valid index")
	}
	if _, ok := g.Channel(1); ok {
		t.Fatalf("removed channel should not be found")
	}
}

func TestStaticGraphDisabledNodeMakesChannelUnusable(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 100, HasCapacity: true})

	if !g.ChannelUsable(1) {
		t.Fatalf("channel should be usable before disabling")
	}
	g.addDisabledNode(b)
	if g.ChannelUsable(1) {
		t.Fatalf("channel adjacent to a disabled node must be unusable")
	}
	g.removeDisabledNode(b)
	if !g.ChannelUsable(1) {
		t.Fatalf("channel should be usable again after overlay removal")
	}
}

func TestStaticGraphLocalChannelHasNoCacheIndex(t *testing.T) {
	g := NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.addLocalChannel(Channel{SCID: 99, Node1: a, Node2: b, CapacitySat: 500, HasCapacity: true})

	if _, ok := g.ChannelIndex(99); ok {
		t.Fatalf("local channels must not receive a stable cache index")
	}
	if ch, ok := g.Channel(99); !ok || ch.CapacitySat != 500 {
		t.Fatalf("local channel should still be visible to lookups")
	}
	g.removeLocalChannel(99)
	if _, ok := g.Channel(99); ok {
		t.Fatalf("local channel should disappear after removal")
	}
}
