// Package oracle implements the command surface that maps external
// getroutes/reserve/unreserve/create-channel/inform-channel/
// disable-node/listlayers/age requests onto the gossmap, layer, and
// reserve packages. It plays the role askrene.c's json_askrene_*
// command handlers play in the source, and RouterBackend plays in the
// teacher: a thin, heavily-validating translation layer in front of
// the real state.
package oracle

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hashrelay/lightning/gossmap"
	"github.com/hashrelay/lightning/layer"
	"github.com/hashrelay/lightning/msat"
	"github.com/hashrelay/lightning/reserve"
	"github.com/hashrelay/lightning/routequery"
)

// Clock abstracts the wall clock so inform-channel's timestamping is
// testable without sleeping.
type Clock interface {
	NowUnix() int64
}

// Oracle is the process-wide payment-route oracle. Commands are
// dispatched one at a time under mu, matching spec.md §5's
// single-in-flight-mutator model; the mutex exists to make that
// invariant hold even if a host embeds the Oracle in a concurrent
// server loop.
type Oracle struct {
	mu sync.Mutex

	graph    gossmap.Mutable
	cache    gossmap.CapacityCache
	layers   *layer.Store
	reserved *reserve.Table
	finder   routequery.RouteFinder
	clock    Clock

	metrics *metrics
}

// Option configures an Oracle at construction time.
type Option func(*Oracle)

// WithRouteFinder overrides the default StubFinder.
func WithRouteFinder(f routequery.RouteFinder) Option {
	return func(o *Oracle) { o.finder = f }
}

// WithClock overrides the default wall-clock source, for tests.
func WithClock(c Clock) Option {
	return func(o *Oracle) { o.clock = c }
}

// WithMetricsRegistry registers the oracle's counters with reg instead
// of the default Prometheus registry.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(o *Oracle) { o.metrics = newMetrics(reg) }
}

// New constructs an Oracle over an already-loaded graph. cfg supplies
// the LayerStore's capacity ceiling.
func New(graph gossmap.Mutable, cfg Config, opts ...Option) *Oracle {
	maxLayers := cfg.MaxLayers
	if maxLayers <= 0 {
		maxLayers = DefaultConfig().MaxLayers
	}
	o := &Oracle{
		graph:    graph,
		cache:    gossmap.Build(graph),
		layers:   layer.NewStoreWithCapacity(maxLayers),
		reserved: reserve.NewTable(),
		finder:   &routequery.StubFinder{Log: orclLog},
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = newMetrics(nil)
	}
	return o
}

type systemClock struct{}

func (systemClock) NowUnix() int64 {
	return time.Now().Unix()
}

// refreshLocked performs spec.md §4.8 step 1: advancing the graph
// snapshot and, if it moved, rebuilding the shared capacity cache.
// Callers must hold o.mu.
func (o *Oracle) refreshLocked() {
	if o.graph.Refresh() {
		o.cache = gossmap.Build(o.graph)
	}
}

// GetRoutes implements the getroutes command.
func (o *Oracle) GetRoutes(ctx context.Context, req GetRoutesRequest) (*GetRoutesResponse, error) {
	source, err := gossmap.ParseNodeID(req.Source)
	if err != nil {
		return nil, &ParamError{Field: "source", Msg: err.Error()}
	}
	destination, err := gossmap.ParseNodeID(req.Destination)
	if err != nil {
		return nil, &ParamError{Field: "destination", Msg: err.Error()}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.metrics.queriesTotal.Inc()
	o.refreshLocked()

	selected := o.layers.Select(req.Layers)
	qctx := routequery.NewContext(o.graph, o.cache.Clone(), selected, o.reserved)
	qctx.Metrics = o.metrics
	defer qctx.Close()

	routes, err := o.finder.FindRoutes(ctx, qctx, source, destination, msat.Amount(req.AmountMsat))
	if err != nil {
		if _, ok := err.(*routequery.ErrNoRoute); ok {
			o.metrics.noRouteTotal.Inc()
		}
		return nil, err
	}

	resp := &GetRoutesResponse{Routes: make([]RouteResult, 0, len(routes))}
	for _, r := range routes {
		path := make([]RouteHop, 0, len(r.Hops))
		for _, h := range r.Hops {
			path = append(path, RouteHop{
				ShortChannelID: uint64(h.SCID),
				Direction:      uint8(h.Dir),
				NodeID:         h.NextNodeID.String(),
				Amount:         uint64(h.AmountMsat),
				Delay:          h.CLTVDelta,
			})
		}
		resp.Routes = append(resp.Routes, RouteResult{
			ProbabilityPPM: probabilityPPM(r.SuccessProb),
			Path:           path,
		})
	}
	return resp, nil
}

func probabilityPPM(p float64) uint32 {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return uint32(math.Round(p * 1_000_000))
}

// Reserve implements the reserve command: on partial success, the
// whole command fails naming the first failing scidd and the amount
// already reserved there (spec.md §4.9, §7).
func (o *Oracle) Reserve(req ReserveRequest) error {
	path, err := parsePath(req.Path)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	idx := o.reserved.Add(path)
	if idx != len(path) {
		o.metrics.reservationOverflowTotal.Inc()
		failing := path[idx]
		r, _ := o.reserved.Find(failing.SCIDD)
		return newDomainError(ErrReservationOverflow,
			"reservation on %s would overflow; %s already reserved there",
			failing.SCIDD, r.AmountMsat)
	}
	return nil
}

// Unreserve implements the unreserve command, symmetric with Reserve.
func (o *Oracle) Unreserve(req ReserveRequest) error {
	path, err := parsePath(req.Path)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	idx := o.reserved.Remove(path)
	if idx != len(path) {
		o.metrics.reservationUnderflowTotal.Inc()
		failing := path[idx]
		return newDomainError(ErrReservationUnderflow,
			"reservation on %s underflowed", failing.SCIDD)
	}
	return nil
}

func parsePath(entries []PathEntry) ([]reserve.PathEntry, error) {
	out := make([]reserve.PathEntry, 0, len(entries))
	for _, e := range entries {
		if e.Direction > 1 {
			return nil, &ParamError{Field: "path.direction", Msg: "must be 0 or 1"}
		}
		out = append(out, reserve.PathEntry{
			SCIDD: gossmap.SCIDD{
				SCID: gossmap.SCID(e.ShortChannelID),
				Dir:  gossmap.Direction(e.Direction),
			},
			AmountMsat: msat.Amount(e.AmountMsat),
		})
	}
	return out, nil
}

// CreateChannel implements the create-channel command. Validation runs
// to completion before any state is touched, and a check-only request
// never creates the layer, matching json_askrene_create_channel's
// order in askrene.c (it defers new_layer until after command_check_only
// returns).
func (o *Oracle) CreateChannel(req CreateChannelRequest) error {
	var fieldErrs []*ParamError
	src, err := gossmap.ParseNodeID(req.Source)
	if err != nil {
		fieldErrs = append(fieldErrs, &ParamError{Field: "source", Msg: err.Error()})
	}
	dst, err := gossmap.ParseNodeID(req.Destination)
	if err != nil {
		fieldErrs = append(fieldErrs, &ParamError{Field: "destination", Msg: err.Error()})
	}
	if len(fieldErrs) > 0 {
		return validationErrors(fieldErrs...)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	scid := gossmap.SCID(req.ShortChannelID)
	capacityMsat := msat.Amount(req.CapacityMsat)

	if existing, ok := o.layers.Find(req.Layer); ok {
		if lc, ok := existing.FindLocalChannel(scid); ok {
			if !layer.CheckLocalChannel(lc, src, dst, capacityMsat) {
				return newDomainError(ErrChannelMismatch,
					"channel %s already exists in layer %q with different values", scid, req.Layer)
			}
			return nil
		}
	}

	if req.CheckOnly {
		return nil
	}

	l := o.layers.Create(req.Layer)
	l.UpdateLocalChannel(layer.LocalChannel{
		SCID:               scid,
		Source:             src,
		Destination:        dst,
		CapacityMsat:       capacityMsat,
		BaseFeeMsat:        req.FeeBaseMsat,
		ProppFeeMillionths: req.FeeProportionalMillionths,
		Delay:              req.Delay,
		HTLCMinMsat:        msat.Amount(req.HTLCMinimumMsat),
		HTLCMaxMsat:        msat.Amount(req.HTLCMaximumMsat),
	})
	return nil
}

// InformChannel implements the inform-channel command. A check-only
// request never creates the layer, matching json_askrene_inform_channel's
// order in askrene.c (it defers find_layer/new_layer until after
// command_check_only returns).
func (o *Oracle) InformChannel(req InformChannelRequest) (*InformChannelResponse, error) {
	var fieldErrs []*ParamError
	if req.Direction > 1 {
		fieldErrs = append(fieldErrs, &ParamError{Field: "direction", Msg: "must be 0 or 1"})
	}
	haveMin := req.MinimumMsat != nil
	haveMax := req.MaximumMsat != nil
	if haveMin == haveMax {
		fieldErrs = append(fieldErrs, &ParamError{Field: "minimum_msat/maximum_msat",
			Msg: "exactly one of minimum_msat or maximum_msat must be supplied"})
	}
	if len(fieldErrs) > 0 {
		return nil, validationErrors(fieldErrs...)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	scidd := gossmap.SCIDD{SCID: gossmap.SCID(req.ShortChannelID), Dir: gossmap.Direction(req.Direction)}
	var kind layer.ConstraintKind
	var limit msat.Amount
	if haveMin {
		kind = layer.ConstraintMin
		limit = msat.Amount(*req.MinimumMsat)
	} else {
		kind = layer.ConstraintMax
		limit = msat.Amount(*req.MaximumMsat)
	}

	if req.CheckOnly {
		return &InformChannelResponse{Constraint: constraintToResult(layer.Constraint{
			SCIDD: scidd, Kind: kind, LimitMsat: limit, Timestamp: o.clock.NowUnix(),
		})}, nil
	}

	l := o.layers.Create(req.Layer)
	c := l.UpdateConstraint(scidd, kind, o.clock.NowUnix(), limit)
	return &InformChannelResponse{Constraint: constraintToResult(c)}, nil
}

func constraintToResult(c layer.Constraint) ConstraintResult {
	return ConstraintResult{
		ShortChannelID: uint64(c.SCIDD.SCID),
		Direction:      uint8(c.SCIDD.Dir),
		Kind:           c.Kind.String(),
		LimitMsat:      uint64(c.LimitMsat),
		TimestampSec:   c.Timestamp,
	}
}

// DisableNode implements the disable-node command. Idempotent.
func (o *Oracle) DisableNode(req DisableNodeRequest) error {
	n, err := gossmap.ParseNodeID(req.Node)
	if err != nil {
		return &ParamError{Field: "node", Msg: err.Error()}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	l := o.layers.Create(req.Layer)
	l.AddDisabledNode(n)
	return nil
}

// ListLayers implements the listlayers command.
func (o *Oracle) ListLayers(req ListLayersRequest) *ListLayersResponse {
	o.mu.Lock()
	defer o.mu.Unlock()

	var layers []*layer.Layer
	if req.Layer != "" {
		if l, ok := o.layers.Find(req.Layer); ok {
			layers = []*layer.Layer{l}
		}
	} else {
		layers = o.layers.List()
	}

	resp := &ListLayersResponse{Layers: make([]LayerSummary, 0, len(layers))}
	for _, l := range layers {
		resp.Layers = append(resp.Layers, summarizeLayer(l))
	}
	return resp
}

func summarizeLayer(l *layer.Layer) LayerSummary {
	return LayerSummary{
		Name:             l.Name(),
		NumLocalChannels: l.NumLocalChannels(),
		NumConstraints:   l.NumConstraints(),
		NumDisabledNodes: len(l.DisabledNodes()),
	}
}

// Age implements the age command.
func (o *Oracle) Age(req AgeRequest) (*AgeResponse, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	l, ok := o.layers.Find(req.Layer)
	if !ok {
		return nil, newDomainError(ErrUnknownLayer, "layer %q does not exist", req.Layer)
	}
	removed := l.TrimConstraints(int64(req.Cutoff))
	return &AgeResponse{Layer: req.Layer, NumRemoved: removed}, nil
}
