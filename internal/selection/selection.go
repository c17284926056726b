// Package selection tracks which route, and which stop on it, the operator
// has selected. Selections are stored as ids so they survive every snapshot
// replacement: a selected route that disappears from a snapshot simply fails
// to resolve, and resolves again if a later snapshot brings it back.
package selection

import (
	"sync"

	"github.com/five82/routewatch/internal/route"
)

// Tracker holds the current selection. The zero value selects nothing.
type Tracker struct {
	mu      sync.RWMutex
	routeID string
	stopID  string
}

// SelectRoute selects a route. Choosing a different route clears the stop
// selection.
func (t *Tracker) SelectRoute(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id != t.routeID {
		t.stopID = ""
	}
	t.routeID = id
}

// SelectStop selects a stop on the current route.
func (t *Tracker) SelectStop(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopID = id
}

// Clear removes both selections.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routeID, t.stopID = "", ""
}

// RouteID returns the selected route id.
func (t *Tracker) RouteID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.routeID
}

// StopID returns the selected stop id.
func (t *Tracker) StopID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stopID
}

// Route resolves the selected route against routes.
func (t *Tracker) Route(routes []route.Route) (route.Route, bool) {
	id := t.RouteID()
	if id == "" {
		return route.Route{}, false
	}
	for _, r := range routes {
		if r.ID == id {
			return r, true
		}
	}
	return route.Route{}, false
}

// Stop resolves the selected stop on r.
func (t *Tracker) Stop(r route.Route) (route.Stop, bool) {
	id := t.StopID()
	if id == "" {
		return route.Stop{}, false
	}
	return r.Stop(id)
}

// Observe is called after each publish. When the selected route is present
// but no longer has the selected stop, the stop selection ends.
func (t *Tracker) Observe(routes []route.Route) {
	r, ok := t.Route(routes)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopID == "" || t.routeID != r.ID {
		return
	}
	if _, ok := r.Stop(t.stopID); !ok {
		t.stopID = ""
	}
}
