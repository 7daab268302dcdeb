package argus

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Incident is the remote representation of an ongoing monitored state.
//
// An incident is open while EndTime is nil. Stateless incidents (heartbeats)
// carry no meaningful end and are marked with the API's "infinity" sentinel
// on the wire; they are never returned by ListOpen.
type Incident struct {
	// ID is the store-assigned identity (primary key). Zero before creation.
	ID int64

	// Description is the human-readable message shown in the incident UI.
	Description string

	// StartTime is when the monitored state began.
	StartTime time.Time

	// EndTime is when the state ended. Nil while the incident is open.
	EndTime *time.Time

	// Stateless marks point-in-time incidents that never resolve.
	Stateless bool

	// Tags carry enough of the signal's identity to recognize "same state"
	// on a later cycle, across process restarts.
	Tags map[string]string

	// SourceIncidentID is an optional caller-chosen identifier.
	SourceIncidentID string
}

// IsOpen reports whether the incident represents an ongoing condition.
func (i Incident) IsOpen() bool {
	return i.EndTime == nil && !i.Stateless
}

// endTimeInfinity is the API sentinel for stateless incidents.
const endTimeInfinity = "infinity"

// wireTag is the API representation of a single tag.
type wireTag struct {
	Tag string `json:"tag"`
}

// wireIncident is the API representation of an incident.
type wireIncident struct {
	PK               int64     `json:"pk,omitempty"`
	Description      string    `json:"description"`
	StartTime        string    `json:"start_time"`
	EndTime          *string   `json:"end_time,omitempty"`
	Tags             []wireTag `json:"tags"`
	SourceIncidentID string    `json:"source_incident_id,omitempty"`
}

func toWire(inc Incident) wireIncident {
	w := wireIncident{
		PK:               inc.ID,
		Description:      inc.Description,
		StartTime:        inc.StartTime.Format(time.RFC3339),
		Tags:             tagsToWire(inc.Tags),
		SourceIncidentID: inc.SourceIncidentID,
	}
	switch {
	case inc.Stateless:
		inf := endTimeInfinity
		w.EndTime = &inf
	case inc.EndTime != nil:
		s := inc.EndTime.Format(time.RFC3339)
		w.EndTime = &s
	}
	return w
}

func fromWire(w wireIncident) (Incident, error) {
	start, err := time.Parse(time.RFC3339, w.StartTime)
	if err != nil {
		return Incident{}, fmt.Errorf("incident %d: bad start_time %q: %w", w.PK, w.StartTime, err)
	}
	inc := Incident{
		ID:               w.PK,
		Description:      w.Description,
		StartTime:        start,
		Tags:             tagsFromWire(w.Tags),
		SourceIncidentID: w.SourceIncidentID,
	}
	if w.EndTime != nil {
		if *w.EndTime == endTimeInfinity {
			inc.Stateless = true
		} else {
			end, err := time.Parse(time.RFC3339, *w.EndTime)
			if err != nil {
				return Incident{}, fmt.Errorf("incident %d: bad end_time %q: %w", w.PK, *w.EndTime, err)
			}
			inc.EndTime = &end
		}
	}
	return inc, nil
}

// tagsToWire converts a tag map to the API's "key=value" list form.
// Keys are sorted so requests are deterministic.
func tagsToWire(tags map[string]string) []wireTag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]wireTag, 0, len(keys))
	for _, k := range keys {
		out = append(out, wireTag{Tag: k + "=" + tags[k]})
	}
	return out
}

// tagsFromWire parses the API's "key=value" list form back into a map.
// Malformed entries without a separator are kept under their full text with
// an empty value rather than dropped, so nothing persisted is lost.
func tagsFromWire(wire []wireTag) map[string]string {
	if len(wire) == 0 {
		return map[string]string{}
	}
	tags := make(map[string]string, len(wire))
	for _, wt := range wire {
		key, value, found := strings.Cut(wt.Tag, "=")
		if !found {
			tags[wt.Tag] = ""
			continue
		}
		tags[key] = value
	}
	return tags
}
