package route

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type flagSet map[string]bool

func (f flagSet) IsFlagged(id string) bool { return f[id] }

func ids(routes []Route) []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.ID
	}
	return out
}

func TestSorted_CriticalityThenTerminal(t *testing.T) {
	routes := []Route{
		{ID: "A", Reference: "A", Criticality: CriticalityMedium, Status: StatusInProgress},
		{ID: "B", Reference: "B", Criticality: CriticalityMedium, Status: StatusCompleted},
		{ID: "C", Reference: "C", Criticality: CriticalityHigh, Status: StatusNotStarted},
	}

	got := ids(Sorted(routes, nil))
	want := []string{"C", "A", "B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Sorted order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_FlaggedAlwaysFirst(t *testing.T) {
	flagged := Route{ID: "F", Reference: "A", Criticality: CriticalityLow, Status: StatusCancelled}
	others := []Route{
		{ID: "X1", Reference: "Z", Criticality: CriticalityHigh, Status: StatusInProgress},
		{ID: "X2", Reference: "M", Criticality: CriticalityMedium, Status: StatusNotStarted},
		{ID: "X3", Reference: "B", Criticality: "", Status: StatusRequested},
	}
	flags := flagSet{"F": true}

	for _, other := range others {
		if c := Compare(flagged, other, flags); c >= 0 {
			t.Fatalf("Compare(flagged, %s) = %d, want < 0", other.ID, c)
		}
		if c := Compare(other, flagged, flags); c <= 0 {
			t.Fatalf("Compare(%s, flagged) = %d, want > 0", other.ID, c)
		}
	}
}

func TestCompare_Cascade(t *testing.T) {
	tests := []struct {
		name string
		a, b Route
		want int
	}{
		{
			name: "terminal after active",
			a:    Route{ID: "1", Status: StatusCompleted, Criticality: CriticalityHigh},
			b:    Route{ID: "2", Status: StatusRequested, Criticality: CriticalityLow},
			want: 1,
		},
		{
			name: "higher criticality first",
			a:    Route{ID: "1", Status: StatusRequested, Criticality: CriticalityHigh},
			b:    Route{ID: "2", Status: StatusInProgress, Criticality: CriticalityMedium},
			want: -1,
		},
		{
			name: "status rank breaks criticality tie",
			a:    Route{ID: "1", Status: StatusNotStarted, Criticality: CriticalityLow},
			b:    Route{ID: "2", Status: StatusInProgress, Criticality: CriticalityLow},
			want: 1,
		},
		{
			name: "reverse reference last",
			a:    Route{ID: "1", Reference: "R-100", Status: StatusInProgress},
			b:    Route{ID: "2", Reference: "R-200", Status: StatusInProgress},
			want: 1,
		},
		{
			name: "id breaks reference tie",
			a:    Route{ID: "b", Reference: "same", Status: StatusInProgress},
			b:    Route{ID: "a", Reference: "same", Status: StatusInProgress},
			want: -1,
		},
		{
			name: "identical",
			a:    Route{ID: "a", Reference: "same", Status: StatusInProgress},
			b:    Route{ID: "a", Reference: "same", Status: StatusInProgress},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b, nil); got != tt.want {
				t.Fatalf("Compare = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSorted_IdempotentAndDoesNotMutate(t *testing.T) {
	routes := []Route{
		{ID: "1", Reference: "R1", Status: StatusCompleted},
		{ID: "2", Reference: "R2", Status: StatusInProgress, Criticality: CriticalityHigh},
		{ID: "3", Reference: "R3", Status: StatusNotStarted},
		{ID: "4", Reference: "R4", Status: StatusNotStarted},
		{ID: "5", Reference: "R5", Status: StatusCancelled, Criticality: CriticalityHigh},
	}
	original := ids(routes)
	flags := flagSet{"3": true}

	first := ids(Sorted(routes, flags))
	second := ids(Sorted(routes, flags))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Sorted not deterministic (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, ids(Sorted(Sorted(routes, flags), flags))); diff != "" {
		t.Fatalf("Sorted not idempotent:\n%s", diff)
	}
	if diff := cmp.Diff(original, ids(routes)); diff != "" {
		t.Fatalf("Sorted mutated input:\n%s", diff)
	}
	want := []string{"3", "2", "4", "5", "1"}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("Sorted order mismatch (-want +got):\n%s", diff)
	}
}
