package selection

import (
	"testing"

	"github.com/five82/routewatch/internal/route"
)

func TestTracker_ReResolvesAcrossSnapshots(t *testing.T) {
	var tr Tracker
	tr.SelectRoute("S1")

	first := []route.Route{{ID: "S1", Status: route.StatusNotStarted}, {ID: "S2"}}
	if r, ok := tr.Route(first); !ok || r.Status != route.StatusNotStarted {
		t.Fatalf("Route(first) = %#v, %v; want S1", r, ok)
	}

	without := []route.Route{{ID: "S2"}}
	if _, ok := tr.Route(without); ok {
		t.Fatalf("Route resolved S1 in a snapshot without it")
	}
	tr.Observe(without)
	if tr.RouteID() != "S1" {
		t.Fatalf("selection cleared to %q, want S1 kept", tr.RouteID())
	}

	back := []route.Route{{ID: "S1", Status: route.StatusInProgress}}
	r, ok := tr.Route(back)
	if !ok || r.Status != route.StatusInProgress {
		t.Fatalf("Route(back) = %#v, %v; want new S1 object", r, ok)
	}
}

func TestTracker_ChangingRouteClearsStop(t *testing.T) {
	var tr Tracker
	tr.SelectRoute("R1")
	tr.SelectStop("stop-1")

	tr.SelectRoute("R1")
	if tr.StopID() != "stop-1" {
		t.Fatalf("reselecting same route cleared stop")
	}
	tr.SelectStop("stop-2")
	if tr.RouteID() != "R1" {
		t.Fatalf("SelectStop changed route selection")
	}
	tr.SelectRoute("R2")
	if tr.StopID() != "" {
		t.Fatalf("StopID = %q after changing route, want empty", tr.StopID())
	}
}

func TestTracker_ObserveDropsVanishedStop(t *testing.T) {
	var tr Tracker
	tr.SelectRoute("R1")
	tr.SelectStop("s2")

	withStop := []route.Route{{ID: "R1", Stops: []route.Stop{{ID: "s1"}, {ID: "s2", Address: "Harbour 9"}}}}
	tr.Observe(withStop)
	r, _ := tr.Route(withStop)
	if s, ok := tr.Stop(r); !ok || s.Address != "Harbour 9" {
		t.Fatalf("Stop = %#v, %v; want s2", s, ok)
	}

	// Route missing entirely: stop selection survives.
	tr.Observe(nil)
	if tr.StopID() != "s2" {
		t.Fatalf("StopID cleared while route was absent")
	}

	withoutStop := []route.Route{{ID: "R1", Stops: []route.Stop{{ID: "s1"}}}}
	tr.Observe(withoutStop)
	if tr.StopID() != "" {
		t.Fatalf("StopID = %q, want cleared once the stop vanished", tr.StopID())
	}
}

func TestTracker_ZeroValueResolvesNothing(t *testing.T) {
	var tr Tracker
	if _, ok := tr.Route([]route.Route{{ID: ""}}); ok {
		t.Fatalf("empty selection resolved a route")
	}
	tr.SelectRoute("R1")
	tr.Clear()
	if tr.RouteID() != "" || tr.StopID() != "" {
		t.Fatalf("Clear left selection behind")
	}
}
