// Package metabohunter talks to the MetaboHunter web service: it encodes the two
// form requests and extracts the tables embedded in the two responses.
package metabohunter

import (
	"errors"
	"fmt"
	"slices"
)

const (
	DefaultBaseURL     = "http://www.nrcbioinformatics.ca/metabohunter/"
	SubmitPath         = "post_handler.php"
	MatchedPeaksPath   = "download_matched_peaks.php"
	MatchedPeaksSuffix = "_matched_spectra.txt"
	HitsHeader         = "Rank\tID\tMetabolite name\tMatching peaks score\tTaxonomic origin"
)

// ErrParse marks a response that does not have the expected layout.
var ErrParse = errors.New("unexpected metabohunter response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("metabohunter %s returned %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("metabohunter %s returned %s: %s", e.Endpoint, e.Status, e.Body)
}

// RankingRow is one candidate metabolite from the ranking table.
type RankingRow struct {
	Rank         int     `json:"rank" yaml:"rank"`
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Score        float64 `json:"score" yaml:"score"`
	PeaksMatched int     `json:"peaks_matched" yaml:"peaks_matched"`
	PeaksTotal   int     `json:"peaks_total" yaml:"peaks_total"`
	Taxonomy     string  `json:"taxonomic_origin" yaml:"taxonomic_origin"`
}

// RankingTable keeps rows in first-seen order of their identifier. A row with
// an identifier already present replaces the earlier row in place.
type RankingTable struct {
	rows  []RankingRow
	index map[string]int
}

// Put inserts or replaces row.
func (t *RankingTable) Put(row RankingRow) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[row.ID]; ok {
		t.rows[i] = row
		return
	}
	t.index[row.ID] = len(t.rows)
	t.rows = append(t.rows, row)
}

// Lookup returns the row for id.
func (t *RankingTable) Lookup(id string) (RankingRow, bool) {
	if t == nil {
		return RankingRow{}, false
	}
	i, ok := t.index[id]
	if !ok {
		return RankingRow{}, false
	}
	return t.rows[i], true
}

// Rows returns a copy of the rows in table order.
func (t *RankingTable) Rows() []RankingRow {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// IDs returns the identifiers in table order.
func (t *RankingTable) IDs() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.ID
	}
	return out
}

func (t *RankingTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// RankingResponse is what the first request yields.
type RankingResponse struct {
	Table *RankingTable
	// TableText is the tab-separated table exactly as embedded in the page; it
	// is sent back verbatim with the second request.
	TableText string
	// SampleFile is the server-side token naming the uploaded peak list.
	SampleFile string
}

// Evidence maps a metabolite identifier to the peak texts it explains.
type Evidence struct {
	ids   []string
	peaks map[string][]string
}

// Put records the peaks for id, replacing any earlier line for the same id.
func (e *Evidence) Put(id string, peaks []string) {
	if e.peaks == nil {
		e.peaks = make(map[string][]string)
	}
	if _, ok := e.peaks[id]; !ok {
		e.ids = append(e.ids, id)
	}
	e.peaks[id] = peaks
}

// Peaks returns the peak texts claimed by id.
func (e *Evidence) Peaks(id string) ([]string, bool) {
	if e == nil {
		return nil, false
	}
	p, ok := e.peaks[id]
	return slices.Clone(p), ok
}

// IDs returns the identifiers in the order they first appeared.
func (e *Evidence) IDs() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.ids)
}

func (e *Evidence) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}
