package gossmap

// CapacityCache is a flat array indexed by ChannelIndex, holding each
// channel's on-chain capacity compressed to fp16. A zero entry is a
// sentinel meaning "no fast answer — consult layers and reservations"
// (spec.md §3, §4.2). It is rebuilt in full whenever GraphView.Refresh
// reports the snapshot advanced, and cloned per query so that
// per-query clearing (ConstraintEngine's slow-path forcing) never
// disturbs the shared copy.
type CapacityCache []uint16

// Build iterates every channel in g and compresses its capacity into a
// fresh cache, grounded on get_capacities() in askrene.c.
func Build(g GraphView) CapacityCache {
	cache := make(CapacityCache, g.NumChannels())
	g.ForEachChannel(func(ch Channel) {
		idx, ok := g.ChannelIndex(ch.SCID)
		if !ok {
			// Local channels have no stable index and are never
			// capacity-cached.
			return
		}
		if !ch.HasCapacity {
			cache[idx] = 0
			return
		}
		cache[idx] = compressFP16(ch.CapacitySat, true)
	})
	return cache
}

// Clone returns an independent copy, bound to the lifetime of one
// RouteQueryContext.
func (c CapacityCache) Clone() CapacityCache {
	clone := make(CapacityCache, len(c))
	copy(clone, c)
	return clone
}

// Lookup returns the decompressed capacity in msat for idx, and
// whether the fast path applies (idx is in range and the entry is
// nonzero).
func (c CapacityCache) Lookup(idx int) (capMsat uint64, ok bool) {
	if idx < 0 || idx >= len(c) || c[idx] == 0 {
		return 0, false
	}
	return decompressFP16(c[idx]) * 1000, true
}

// Clear zeroes the entry at idx, forcing the slow path on next lookup.
// idx out of range is a no-op.
func (c CapacityCache) Clear(idx int) {
	if idx < 0 || idx >= len(c) {
		return
	}
	c[idx] = 0
}
