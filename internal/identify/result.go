package identify

import (
	"encoding/json"

	"metabohunter/internal/peaks"
)

// Match is the identification outcome for one input peak.
type Match struct {
	Shift     float64
	Intensity float64
	// MetaboliteID is empty when no metabolite claims the peak.
	MetaboliteID string
	Name         string
	Score        float64
}

// Matched reports whether a metabolite was assigned.
func (m Match) Matched() bool {
	return m.MetaboliteID != ""
}

type matchWire struct {
	Shift        float64  `json:"shift" yaml:"shift"`
	Intensity    float64  `json:"intensity" yaml:"intensity"`
	MetaboliteID *string  `json:"metabolite_id" yaml:"metabolite_id"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Score        *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

func (m Match) wire() matchWire {
	w := matchWire{Shift: m.Shift, Intensity: m.Intensity, Name: m.Name}
	if m.Matched() {
		id, score := m.MetaboliteID, m.Score
		w.MetaboliteID = &id
		w.Score = &score
	}
	return w
}

// MarshalJSON renders an unmatched peak with a null metabolite_id.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}

// MarshalYAML renders an unmatched peak with a null metabolite_id.
func (m Match) MarshalYAML() (any, error) {
	return m.wire(), nil
}

// Result holds one Match per input peak, in input order.
type Result []Match

// IDs returns the metabolite identifiers in input order, nil where unmatched.
func (r Result) IDs() []*string {
	out := make([]*string, len(r))
	for i := range r {
		if r[i].Matched() {
			id := r[i].MetaboliteID
			out[i] = &id
		}
	}
	return out
}

// MatchedCount returns how many peaks received a metabolite.
func (r Result) MatchedCount() int {
	n := 0
	for _, m := range r {
		if m.Matched() {
			n++
		}
	}
	return n
}

func unmatched(list peaks.List) Result {
	out := make(Result, len(list))
	for i, p := range list {
		out[i] = Match{Shift: p.Shift, Intensity: p.Intensity}
	}
	return out
}
