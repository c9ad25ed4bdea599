package oracle

// The request/response shapes below mirror spec.md §6's command table
// field for field, keeping the JSON-RPC naming (snake_case, msat
// suffixes) the source and its callers already use.

// PathEntry is one leg of a reserve/unreserve path.
type PathEntry struct {
	ShortChannelID uint64 `json:"short_channel_id"`
	Direction      uint8  `json:"direction"`
	AmountMsat     uint64 `json:"amount_msat"`
}

// GetRoutesRequest is the getroutes command's parameters.
type GetRoutesRequest struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	AmountMsat  uint64   `json:"amount_msat"`
	Layers      []string `json:"layers"`
}

// RouteHop is one hop of a returned route.
type RouteHop struct {
	ShortChannelID uint64 `json:"short_channel_id"`
	Direction      uint8  `json:"direction"`
	NodeID         string `json:"node_id"`
	Amount         uint64 `json:"amount"`
	Delay          uint32 `json:"delay"`
}

// RouteResult is one candidate route in a getroutes response.
type RouteResult struct {
	ProbabilityPPM uint32     `json:"probability_ppm"`
	Path           []RouteHop `json:"path"`
}

// GetRoutesResponse is the getroutes command's result.
type GetRoutesResponse struct {
	Routes []RouteResult `json:"routes"`
}

// ReserveRequest is shared by reserve and unreserve.
type ReserveRequest struct {
	Path []PathEntry `json:"path"`
}

// CreateChannelRequest is the create-channel command's parameters.
type CreateChannelRequest struct {
	Layer                     string `json:"layer"`
	Source                    string `json:"source"`
	Destination               string `json:"destination"`
	ShortChannelID            uint64 `json:"short_channel_id"`
	CapacityMsat              uint64 `json:"capacity_msat"`
	HTLCMinimumMsat           uint64 `json:"htlc_minimum_msat"`
	HTLCMaximumMsat           uint64 `json:"htlc_maximum_msat"`
	FeeBaseMsat               uint32 `json:"fee_base_msat"`
	FeeProportionalMillionths uint32 `json:"fee_proportional_millionths"`
	Delay                     uint16 `json:"delay"`
	CheckOnly                 bool   `json:"check_only,omitempty"`
}

// InformChannelRequest is the inform-channel command's parameters.
// Exactly one of MinimumMsat or MaximumMsat must be set.
type InformChannelRequest struct {
	Layer          string  `json:"layer"`
	ShortChannelID uint64  `json:"short_channel_id"`
	Direction      uint8   `json:"direction"`
	MinimumMsat    *uint64 `json:"minimum_msat,omitempty"`
	MaximumMsat    *uint64 `json:"maximum_msat,omitempty"`
	CheckOnly      bool    `json:"check_only,omitempty"`
}

// ConstraintResult mirrors the constraint the inform-channel command
// just inserted or replaced.
type ConstraintResult struct {
	ShortChannelID uint64 `json:"short_channel_id"`
	Direction      uint8  `json:"direction"`
	Kind           string `json:"kind"`
	LimitMsat      uint64 `json:"limit_msat"`
	TimestampSec   int64  `json:"timestamp_sec"`
}

// InformChannelResponse is the inform-channel command's result.
type InformChannelResponse struct {
	Constraint ConstraintResult `json:"constraint"`
}

// DisableNodeRequest is the disable-node command's parameters.
type DisableNodeRequest struct {
	Layer string `json:"layer"`
	Node  string `json:"node"`
}

// ListLayersRequest optionally names a single layer.
type ListLayersRequest struct {
	Layer string `json:"layer,omitempty"`
}

// LayerSummary describes one layer for listlayers.
type LayerSummary struct {
	Name             string `json:"name"`
	NumLocalChannels int    `json:"num_local_channels"`
	NumConstraints   int    `json:"num_constraints"`
	NumDisabledNodes int    `json:"num_disabled_nodes"`
}

// ListLayersResponse is the listlayers command's result.
type ListLayersResponse struct {
	Layers []LayerSummary `json:"layers"`
}

// AgeRequest is the age command's parameters.
type AgeRequest struct {
	Layer  string `json:"layer"`
	Cutoff uint64 `json:"cutoff"`
}

// AgeResponse is the age command's result.
type AgeResponse struct {
	Layer      string `json:"layer"`
	NumRemoved int    `json:"num_removed"`
}
