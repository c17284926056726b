// Package ui implements the routewatch console on Bubble Tea.
//
// The console never fetches anything itself. Schedulers in the poll package
// publish into state stores; the model reads those stores on a short tick,
// filters and sorts the route list, and renders it. Client-side annotations
// (flags, selection, the filter facets) live in their own cells and are
// looked up by route id, so a poll never clobbers them.
//
// Views:
//
//   - List: every route passing the active filters, flagged first
//   - Details: one route polled on its own until it reaches a terminal status
//   - Filters: a checkbox overlay over every facet value
//
// Terminal focus is reported to the schedulers (tea.WithReportFocus), which
// poll faster while the console has focus.
package ui
