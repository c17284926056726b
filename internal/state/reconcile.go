package state

import (
	"github.com/five82/routewatch/internal/route"
)

// ReconcileRoutes carries client state from previous onto the matching
// routes of incoming. Routes missing from incoming are dropped and new
// routes pass through unchanged. Neither input is modified.
func ReconcileRoutes(previous, incoming []route.Route) []route.Route {
	out := make([]route.Route, len(incoming))
	copy(out, incoming)
	if len(previous) == 0 {
		return out
	}

	index := make(map[string]int, len(previous))
	for i, r := range previous {
		index[r.ID] = i
	}
	for i := range out {
		if j, ok := index[out[i].ID]; ok {
			out[i].Migrate(previous[j])
		}
	}
	return out
}

// ReconcileRoute is ReconcileRoutes for a single route's details.
func ReconcileRoute(previous, incoming route.Route) route.Route {
	if previous.ID == incoming.ID {
		incoming.Migrate(previous)
	}
	return incoming
}

// NewRoutesStore returns the published cell for the route list.
func NewRoutesStore() *Store[[]route.Route] {
	return NewStore(ReconcileRoutes, cloneRoutes)
}

// NewRouteStore returns the published cell for one route's details.
func NewRouteStore() *Store[route.Route] {
	return NewStore(ReconcileRoute, cloneRoute)
}

func cloneRoutes(routes []route.Route) []route.Route {
	if len(routes) == 0 {
		return nil
	}
	dup := make([]route.Route, len(routes))
	for i, r := range routes {
		dup[i] = cloneRoute(r)
	}
	return dup
}

func cloneRoute(r route.Route) route.Route {
	if len(r.Stops) > 0 {
		stops := make([]route.Stop, len(r.Stops))
		copy(stops, r.Stops)
		r.Stops = stops
	}
	return r
}

// EditClientState applies fn to the ClientState of the published route with
// the given id. The edit survives later polls through ReconcileRoutes.
func EditClientState(s *Store[[]route.Route], id string, fn func(*route.ClientState)) bool {
	found := false
	s.Update(func(routes []route.Route) []route.Route {
		for i := range routes {
			if routes[i].ID == id {
				fn(&routes[i].Client)
				found = true
				break
			}
		}
		return routes
	})
	return found
}
