// Package gossmap provides a read-only view of the public Lightning
// channel graph, a dense per-channel capacity cache derived from it,
// and the transient overlay ("localmods") machinery a query uses to
// splice in layer-declared local channels and disabled-node effects
// for the duration of one route query.
package gossmap

import (
	"encoding/hex"
	"fmt"
)

// NodeID is a compressed secp256k1 public key identifying a node.
type NodeID [33]byte

func (n NodeID) String() string {
	return fmt.Sprintf("%x", n[:])
}

// ParseNodeID decodes a 33-byte hex-encoded public key.
func ParseNodeID(s string) (NodeID, error) {
	var n NodeID
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("node id %q: %w", s, err)
	}
	if len(b) != len(n) {
		return n, fmt.Errorf("node id %q: expected %d bytes, got %d", s, len(n), len(b))
	}
	copy(n[:], b)
	return n, nil
}

// SCID is a short channel ID: a compact 64-bit identifier of a
// published channel.
type SCID uint64

func (s SCID) String() string {
	return fmt.Sprintf("%d", uint64(s))
}

// Direction selects one of the two directed sides of a channel.
type Direction uint8

const (
	Direction0 Direction = 0
	Direction1 Direction = 1
)

// Valid reports whether d is 0 or 1.
func (d Direction) Valid() bool {
	return d == Direction0 || d == Direction1
}

// SCIDD is a directed channel: a scid plus a direction. It is the
// atomic unit addressed by constraints and reservations.
type SCIDD struct {
	SCID SCID
	Dir  Direction
}

func (s SCIDD) String() string {
	return fmt.Sprintf("%d/%d", uint64(s.SCID), s.Dir)
}

// Policy describes one direction's forwarding terms for a channel.
type Policy struct {
	Enabled       bool
	BaseFeeMsat   uint32
	ProppFeePpm   uint32
	CLTVDelta     uint16
	HTLCMinMsat   uint64
	HTLCMaxMsat   uint64
}

// Channel is a public channel as recorded in the base graph.
type Channel struct {
	SCID     SCID
	Node1    NodeID
	Node2    NodeID
	// CapacitySat is the on-chain channel capacity in satoshis.
	CapacitySat uint64
	// HasCapacity is false for the rare malformed/partial channel the
	// gossip-store loader could not size; see spec.md §4.7 step 4.
	HasCapacity bool
	Policies    [2]*Policy
}

// Endpoint returns the node on the far side of the channel for the
// given direction: direction 0 goes from Node1 to Node2.
func (c Channel) Endpoint(dir Direction) NodeID {
	if dir == Direction0 {
		return c.Node2
	}
	return c.Node1
}

// GraphView is the capability set the query engine depends on. A
// gossip-store-backed implementation is the production loader; this
// package also supplies StaticGraph for tests and for wrapping
// layer-injected local channels.
type GraphView interface {
	// Refresh advances to the latest snapshot. It returns true iff the
	// snapshot changed, in which case the caller must rebuild any
	// cached per-channel data.
	Refresh() bool

	// ForEachChannel iterates every channel currently in the graph, in
	// no particular order. The callback must not mutate the graph.
	ForEachChannel(func(Channel))

	// ChannelIndex returns a dense, stable-within-a-snapshot index for
	// scid, and whether the channel exists.
	ChannelIndex(scid SCID) (int, bool)

	// NumChannels returns the number of channels in the current
	// snapshot, i.e. the exclusive upper bound on ChannelIndex values.
	NumChannels() int

	// Channel looks up a channel by scid.
	Channel(scid SCID) (Channel, bool)

	// CapacitySat returns the on-chain capacity of scid, if known.
	CapacitySat(scid SCID) (uint64, bool)

	// Policy returns the forwarding policy for (scid, dir), if known.
	Policy(scid SCID, dir Direction) (Policy, bool)

	// NodeDisabled reports whether n is currently marked unusable by
	// the active overlay.
	NodeDisabled(n NodeID) bool

	// ChannelUsable reports whether scid can currently carry traffic:
	// it exists and neither endpoint is disabled.
	ChannelUsable(scid SCID) bool
}

// Mutable is implemented by graph views that support the overlay
// machinery in localmods.go: adding/removing synthetic local channels
// and marking nodes unusable. StaticGraph implements it; a real
// gossip-store-backed view would wrap its own localmods support
// behind the same interface.
type Mutable interface {
	GraphView

	addLocalChannel(ch Channel)
	removeLocalChannel(scid SCID)
	addDisabledNode(n NodeID)
	removeDisabledNode(n NodeID)
}
