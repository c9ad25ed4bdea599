package reserve

import (
	"math"
	"testing"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/msat"
)

func scidd(scid uint64, dir gossmap.Direction) gossmap.SCIDD {
	return gossmap.SCIDD{SCID: gossmap.SCID(scid), Dir: dir}
}

func TestAddAccumulatesAndCountsHTLCs(t *testing.T) {
	tbl := NewTable()
	sd := scidd(1, gossmap.Direction0)

	idx := tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: 100}})
	if idx != 1 {
		t.Fatalf("expected full success, got failing index %d", idx)
	}
	idx = tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: 50}})
	if idx != 1 {
		t.Fatalf("expected full success, got failing index %d", idx)
	}

	r, ok := tbl.Find(sd)
	if !ok {
		t.Fatalf("expected a reservation to exist")
	}
	if r.AmountMsat != 150 {
		t.Fatalf("got amount %d, want 150", r.AmountMsat)
	}
	if r.NumHTLCs != 2 {
		t.Fatalf("got %d htlcs, want 2", r.NumHTLCs)
	}
}

func TestDoubleReserveOverflowLeavesFirstApplied(t *testing.T) {
	tbl := NewTable()
	sd := scidd(1, gossmap.Direction0)
	big := msat.Amount(math.MaxUint64/2 + 1)

	idx := tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: big}})
	if idx != 1 {
		t.Fatalf("first reserve should fully succeed, got index %d", idx)
	}

	idx = tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: big}})
	if idx != 0 {
		t.Fatalf("second reserve should fail at index 0, got %d", idx)
	}

	r, ok := tbl.Find(sd)
	if !ok || r.AmountMsat != big {
		t.Fatalf("table should still show only the first reservation, got %+v", r)
	}
}

func TestRemoveUnderflowStopsAtFailingIndex(t *testing.T) {
	tbl := NewTable()
	sdA := scidd(1, gossmap.Direction0)
	sdB := scidd(2, gossmap.Direction1)

	tbl.Add([]PathEntry{
		{SCIDD: sdA, AmountMsat: 100},
	})

	idx := tbl.Remove([]PathEntry{
		{SCIDD: sdA, AmountMsat: 100},
		{SCIDD: sdB, AmountMsat: 1}, // never reserved: underflows
	})
	if idx != 1 {
		t.Fatalf("expected underflow at index 1, got %d", idx)
	}

	if _, ok := tbl.Find(sdA); ok {
		t.Fatalf("sdA's reservation should have been fully removed (amount+htlcs reach zero)")
	}
}

func TestRemoveToZeroDeletesRecord(t *testing.T) {
	tbl := NewTable()
	sd := scidd(1, gossmap.Direction0)

	tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: 100}})
	idx := tbl.Remove([]PathEntry{{SCIDD: sd, AmountMsat: 100}})
	if idx != 1 {
		t.Fatalf("expected full removal, got failing index %d", idx)
	}

	if _, ok := tbl.Find(sd); ok {
		t.Fatalf("record with zero amount and zero htlcs must be absent")
	}
}

func TestClearCacheEntries(t *testing.T) {
	g := gossmap.NewStaticGraph()
	a, b := nodeID(1), nodeID(2)
	g.AddChannel(gossmap.Channel{SCID: 1, Node1: a, Node2: b, CapacitySat: 1_000_000, HasCapacity: true})
	cache := gossmap.Build(g)

	tbl := NewTable()
	sd := scidd(1, gossmap.Direction0)
	tbl.Add([]PathEntry{{SCIDD: sd, AmountMsat: 1000}})

	idx, _ := g.ChannelIndex(1)
	if _, ok := cache.Lookup(idx); !ok {
		t.Fatalf("expected fast path before clearing")
	}

	tbl.ClearCacheEntries(g, cache)

	if _, ok := cache.Lookup(idx); ok {
		t.Fatalf("expected cache entry cleared for reserved scidd")
	}
}

func nodeID(b byte) gossmap.NodeID {
	var n gossmap.NodeID
	n[0] = 0x02
	n[32] = b
	return n
}
