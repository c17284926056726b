package route

import (
	"strings"
	"time"
)

// Status is a route lifecycle state as reported by the backend.
type Status string

const (
	StatusRequested   Status = "requested"
	StatusNotApproved Status = "not-approved"
	StatusNotStarted  Status = "not-started"
	StatusInProgress  Status = "in-progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

// Statuses lists every known status in display order.
var Statuses = []Status{
	StatusInProgress,
	StatusNotStarted,
	StatusNotApproved,
	StatusRequested,
	StatusCompleted,
	StatusCancelled,
}

var statusRanks = map[Status]int{
	StatusInProgress:  5,
	StatusNotStarted:  4,
	StatusNotApproved: 3,
	StatusRequested:   2,
	StatusCompleted:   1,
	StatusCancelled:   0,
}

// Known reports whether s is one of the declared statuses.
func (s Status) Known() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank orders statuses for sorting; higher ranks sort first.
func (s Status) Rank() int {
	if rank, ok := statusRanks[s]; ok {
		return rank
	}
	return -1
}

// Terminal reports whether no further updates are expected for the route.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Criticality is the urgency the dispatcher assigned to a route.
type Criticality string

const (
	CriticalityLow    Criticality = "low"
	CriticalityMedium Criticality = "medium"
	CriticalityHigh   Criticality = "high"
)

// Criticalities lists every known criticality, most urgent first.
var Criticalities = []Criticality{CriticalityHigh, CriticalityMedium, CriticalityLow}

// Rank returns the numeric urgency; unknown values rank 0.
func (c Criticality) Rank() int {
	switch c {
	case CriticalityHigh:
		return 3
	case CriticalityMedium:
		return 2
	case CriticalityLow:
		return 1
	default:
		return 0
	}
}

// VehicleTypes and Products are the facet domains the backend uses.
var (
	VehicleTypes = []string{"bike", "car", "van", "truck"}
	Products     = []string{"express", "scheduled", "solution", "freight"}
)

// StopStatus is the state of a single stop along a route.
type StopStatus string

const (
	StopPending   StopStatus = "pending"
	StopArrived   StopStatus = "arrived"
	StopCompleted StopStatus = "completed"
	StopCancelled StopStatus = "cancelled"
	StopFailed    StopStatus = "failed"
)

// Driver identifies the person driving a route.
type Driver struct {
	ID    string
	Name  string
	Phone string
}

// Stop is one pickup or delivery location on a route.
type Stop struct {
	ID        string
	Status    StopStatus
	Address   string
	ArrivedAt *time.Time
}

// ClientState holds fields that exist only in the console. They are carried
// across snapshots by Migrate and never come from the backend.
type ClientState struct {
	// Pending labels a user action still in flight for this route.
	Pending  string
	Expanded bool
}

// Route is one tracked entity. Everything except Client is replaced
// wholesale on every poll. Nil pointer fields were absent from the payload.
type Route struct {
	ID           string
	Slug         string
	Reference    string
	Status       Status
	Criticality  Criticality
	VehicleType  string
	Product      string
	Driver       *Driver
	Stops        []Stop
	PlannedStart *time.Time
	CompletedAt  *time.Time
	UpdatedAt    *time.Time

	Client ClientState
}

// Migrate copies client-managed state from the previous instance of the
// same route onto r.
func (r *Route) Migrate(previous Route) {
	r.Client = previous.Client
}

// Stop returns the stop with the given id.
func (r Route) Stop(id string) (Stop, bool) {
	for _, s := range r.Stops {
		if s.ID == id {
			return s, true
		}
	}
	return Stop{}, false
}

// CompletedStops counts stops that are no longer outstanding.
func (r Route) CompletedStops() int {
	n := 0
	for _, s := range r.Stops {
		if s.Status == StopCompleted || s.Status == StopCancelled || s.Status == StopFailed {
			n++
		}
	}
	return n
}

// ContainsText reports whether every whitespace-separated token of query
// occurs, ignoring case, in one of the route's searchable fields.
func (r Route) ContainsText(query string) bool {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return true
	}
	haystack := r.searchFields()
	for _, token := range tokens {
		found := false
		for _, field := range haystack {
			if strings.Contains(field, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r Route) searchFields() []string {
	fields := []string{
		strings.ToLower(r.Reference),
		strings.ToLower(r.Slug),
		strings.ToLower(r.VehicleType),
	}
	if r.Driver != nil {
		fields = append(fields, strings.ToLower(r.Driver.Name), strings.ToLower(r.Driver.Phone))
	}
	for _, s := range r.Stops {
		fields = append(fields, strings.ToLower(s.Address))
	}
	return fields
}
