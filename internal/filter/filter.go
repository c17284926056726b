// Package filter holds the console's active route filters: a free-text query
// and a set of categorical facets. The product facet is persisted; the
// others last for the session only.
package filter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/prefs"
	"github.com/five82/routewatch/internal/route"
)

// FacetName identifies one facet of State.
type FacetName string

const (
	FacetStatus      FacetName = "status"
	FacetCriticality FacetName = "criticality"
	FacetVehicleType FacetName = "vehicle-type"
	FacetProduct     FacetName = "product"
)

// ProductsKey is the prefs key holding the persisted product facet.
const ProductsKey = "routes.filter.products"

// Names lists the facets in display order.
var Names = []FacetName{FacetStatus, FacetCriticality, FacetVehicleType, FacetProduct}

// State is the set of active filters. It is safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	query  string
	facets map[FacetName]*Facet
	kv     prefs.Store
	logger *zap.Logger
}

// New builds an unrestricted State and restores the product facet from kv.
// kv may be nil, in which case nothing is persisted.
func New(ctx context.Context, kv prefs.Store, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	statuses := make([]string, len(route.Statuses))
	for i, st := range route.Statuses {
		statuses[i] = string(st)
	}
	criticalities := make([]string, len(route.Criticalities))
	for i, c := range route.Criticalities {
		criticalities[i] = string(c)
	}

	s := &State{
		facets: map[FacetName]*Facet{
			FacetStatus:      NewFacet(string(FacetStatus), statuses),
			FacetCriticality: NewFacet(string(FacetCriticality), criticalities),
			FacetVehicleType: NewFacet(string(FacetVehicleType), route.VehicleTypes),
			FacetProduct:     NewFacet(string(FacetProduct), route.Products),
		},
		kv:     kv,
		logger: logger,
	}
	s.restoreProducts(ctx)
	return s
}

func (s *State) restoreProducts(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, err := s.kv.Get(ctx, ProductsKey)
	if err != nil {
		if !errors.Is(err, prefs.ErrNotFound) {
			s.logger.Warn("load product filter", zap.Error(err))
		}
		return
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		s.logger.Warn("decode product filter", zap.Error(err))
		return
	}
	s.facets[FacetProduct].Set(values)
}

// Query returns the free-text query.
func (s *State) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery replaces the free-text query. Blank queries clear it.
func (s *State) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = strings.TrimSpace(q)
}

// Enabled reports whether value v passes the named facet.
func (s *State) Enabled(name FacetName, v string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facets[name]
	return !ok || f.Enabled(v)
}

// Domain returns the possible values of the named facet.
func (s *State) Domain(name FacetName) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facets[name]; ok {
		return f.Domain()
	}
	return nil
}

// Values returns the allowed list of the named facet.
func (s *State) Values(name FacetName) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facets[name]; ok {
		return f.Values()
	}
	return nil
}

// Toggle flips value v of the named facet. Toggling the product facet
// writes it to the prefs store; the in-memory change stands even if the
// write fails.
func (s *State) Toggle(ctx context.Context, name FacetName, v string) error {
	s.mu.Lock()
	f, ok := s.facets[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown facet %q", name)
	}
	f.Toggle(v)
	var products []string
	if name == FacetProduct {
		products = f.Values()
	}
	s.mu.Unlock()

	if name == FacetProduct {
		return s.persistProducts(ctx, products)
	}
	return nil
}

// Reset clears the query and every facet.
func (s *State) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.query = ""
	for _, f := range s.facets {
		f.Reset()
	}
	s.mu.Unlock()
	return s.persistProducts(ctx, nil)
}

func (s *State) persistProducts(ctx context.Context, values []string) error {
	if s.kv == nil {
		return nil
	}
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode product filter: %w", err)
	}
	if err := s.kv.Put(ctx, ProductsKey, raw); err != nil {
		return fmt.Errorf("save product filter: %w", err)
	}
	return nil
}

// Match reports whether r passes the query and every restricting facet.
func (s *State) Match(r route.Route) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchLocked(r)
}

func (s *State) matchLocked(r route.Route) bool {
	for _, name := range Names {
		if !s.facets[name].Enabled(facetValue(r, name)) {
			return false
		}
	}
	return r.ContainsText(s.query)
}

// Apply returns the routes that pass Match, preserving order.
func (s *State) Apply(routes []route.Route) []route.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]route.Route, 0, len(routes))
	for _, r := range routes {
		if s.matchLocked(r) {
			out = append(out, r)
		}
	}
	return out
}

// EnabledCount is the number of restricting facets, plus one when a query
// is set.
func (s *State) EnabledCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.facets {
		if f.Restricting() {
			n++
		}
	}
	if s.query != "" {
		n++
	}
	return n
}

func facetValue(r route.Route, name FacetName) string {
	switch name {
	case FacetStatus:
		return string(r.Status)
	case FacetCriticality:
		return string(r.Criticality)
	case FacetVehicleType:
		return r.VehicleType
	case FacetProduct:
		return r.Product
	}
	return ""
}
