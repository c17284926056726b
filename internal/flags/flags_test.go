package flags

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_ToggleAndIsFlagged(t *testing.T) {
	var s Store

	if s.IsFlagged("r1") {
		t.Fatalf("IsFlagged on empty store = true, want false")
	}
	if !s.Toggle("r1") {
		t.Fatalf("first Toggle = false, want true")
	}
	if !s.IsFlagged("r1") {
		t.Fatalf("IsFlagged after toggle = false, want true")
	}
	if s.IsFlagged("r2") {
		t.Fatalf("IsFlagged(r2) = true, want false")
	}
	if s.Toggle("r1") {
		t.Fatalf("second Toggle = true, want false")
	}
	if s.IsFlagged("r1") {
		t.Fatalf("IsFlagged after second toggle = true, want false")
	}
}

func TestStore_InstancesAreIsolated(t *testing.T) {
	var a, b Store
	a.Toggle("r1")
	if b.IsFlagged("r1") {
		t.Fatalf("flag leaked between store instances")
	}
}

func TestStore_FlaggedSorted(t *testing.T) {
	var s Store
	for _, id := range []string{"c", "a", "b"} {
		s.Toggle(id)
	}
	s.Toggle("b")
	if diff := cmp.Diff([]string{"a", "c"}, s.Flagged()); diff != "" {
		t.Fatalf("Flagged mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentToggles(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle("r1")
			_ = s.IsFlagged("r1")
		}()
	}
	wg.Wait()
	if s.IsFlagged("r1") {
		t.Fatalf("even number of toggles left r1 flagged")
	}
}
