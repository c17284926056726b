package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const backendTimestampLayout = "2006-01-02 15:04:05"

// Record mirrors one route object on the wire.
type Record struct {
	ID           string        `json:"id"`
	Slug         string        `json:"slug"`
	Reference    string        `json:"reference"`
	Status       string        `json:"status"`
	Criticality  string        `json:"criticality"`
	VehicleType  string        `json:"vehicleType"`
	Product      string        `json:"product"`
	Driver       *DriverRecord `json:"driver"`
	Stops        []StopRecord  `json:"stops"`
	PlannedStart string        `json:"plannedStart"`
	CompletedAt  string        `json:"completedAt"`
	UpdatedAt    string        `json:"updatedAt"`
}

// DriverRecord mirrors the driver object on the wire.
type DriverRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// StopRecord mirrors one stop object on the wire.
type StopRecord struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Address   string `json:"address"`
	ArrivedAt string `json:"arrivedAt"`
}

var errMissingID = errors.New("missing id")

// DecodeError describes a record that was skipped by DecodeAll.
type DecodeError struct {
	Index int
	ID    string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("route %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("route %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses a single wire record.
func Decode(raw json.RawMessage) (Route, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Route{}, fmt.Errorf("decode route: %w", err)
	}
	return rec.Route()
}

// DecodeAll parses every record, skipping malformed ones so a single bad
// record never blocks the rest of the snapshot.
func DecodeAll(raws []json.RawMessage) ([]Route, []*DecodeError) {
	routes := make([]Route, 0, len(raws))
	var skipped []*DecodeError
	for i, raw := range raws {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			skipped = append(skipped, &DecodeError{Index: i, Err: err})
			continue
		}
		r, err := rec.Route()
		if err != nil {
			skipped = append(skipped, &DecodeError{Index: i, ID: rec.ID, Err: err})
			continue
		}
		routes = append(routes, r)
	}
	return routes, skipped
}

// Route validates the record and converts it into a Route.
func (rec Record) Route() (Route, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return Route{}, errMissingID
	}
	status := Status(strings.TrimSpace(rec.Status))
	if !status.Known() {
		return Route{}, fmt.Errorf("unknown status %q", rec.Status)
	}

	r := Route{
		ID:           id,
		Slug:         strings.TrimSpace(rec.Slug),
		Reference:    strings.TrimSpace(rec.Reference),
		Status:       status,
		Criticality:  Criticality(strings.ToLower(strings.TrimSpace(rec.Criticality))),
		VehicleType:  strings.TrimSpace(rec.VehicleType),
		Product:      strings.TrimSpace(rec.Product),
		PlannedStart: parseTime(rec.PlannedStart),
		CompletedAt:  parseTime(rec.CompletedAt),
		UpdatedAt:    parseTime(rec.UpdatedAt),
	}
	if r.Slug == "" {
		r.Slug = r.ID
	}
	if r.Reference == "" {
		r.Reference = r.Slug
	}
	if rec.Driver != nil {
		r.Driver = &Driver{ID: rec.Driver.ID, Name: rec.Driver.Name, Phone: rec.Driver.Phone}
	}
	if len(rec.Stops) > 0 {
		r.Stops = make([]Stop, 0, len(rec.Stops))
		for _, s := range rec.Stops {
			r.Stops = append(r.Stops, Stop{
				ID:        s.ID,
				Status:    StopStatus(s.Status),
				Address:   s.Address,
				ArrivedAt: parseTime(s.ArrivedAt),
			})
		}
	}
	return r, nil
}

func parseTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.Local); err == nil {
		return &t
	}
	return nil
}
