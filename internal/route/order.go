package route

import (
	"cmp"
	"slices"
	"strings"
)

// Flagger reports whether a route id is flagged for attention.
type Flagger interface {
	IsFlagged(id string) bool
}

// Compare orders routes for display. The first rule that distinguishes the
// two routes wins:
//
//  1. flagged routes first
//  2. terminal routes last
//  3. higher criticality first
//  4. higher status rank first
//  5. reverse reference, then reverse id
//
// A nil Flagger treats every route as unflagged.
func Compare(a, b Route, flags Flagger) int {
	if flags != nil {
		fa, fb := flags.IsFlagged(a.ID), flags.IsFlagged(b.ID)
		if fa != fb {
			if fa {
				return -1
			}
			return 1
		}
	}
	if ta, tb := a.Status.Terminal(), b.Status.Terminal(); ta != tb {
		if ta {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(b.Criticality.Rank(), a.Criticality.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Status.Rank(), a.Status.Rank()); c != 0 {
		return c
	}
	if c := strings.Compare(b.Reference, a.Reference); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}

// Sorted returns a sorted copy of routes; the input is left untouched.
func Sorted(routes []Route, flags Flagger) []Route {
	out := slices.Clone(routes)
	slices.SortStableFunc(out, func(a, b Route) int {
		return Compare(a, b, flags)
	})
	return out
}
