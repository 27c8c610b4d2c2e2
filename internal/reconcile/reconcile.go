// Package reconcile joins the ranking table with the matched-peak evidence and
// projects the result back onto the caller's peak order.
package reconcile

import (
	"strconv"

	"metabohunter/internal/gateway/metabohunter"
)

// Assignment maps a peak rendered with JoinKey to a metabolite identifier.
type Assignment map[string]string

// JoinKey renders a chemical shift the way the service prints matched peaks:
// fixed, two decimal places. It is the only key used to match peaks.
func JoinKey(shift float64) string {
	return strconv.FormatFloat(shift, 'f', 2, 64)
}

// Invert builds the peak -> metabolite mapping from evidence restricted to
// ranked metabolites. Metabolites are visited in ranking order and their peaks
// in listed order; when several claim the same peak the last one visited wins.
//
// Last write wins is kept for compatibility. It is not a ranking decision: a
// lower-ranked metabolite overrides a better one claiming the same peak.
func Invert(ranking *metabohunter.RankingTable, evidence *metabohunter.Evidence) Assignment {
	out := make(Assignment)
	for _, id := range ranking.IDs() {
		claimed, ok := evidence.Peaks(id)
		if !ok {
			continue
		}
		for _, peak := range claimed {
			out[peak] = id
		}
	}
	return out
}

// Project looks up every shift in order. The result has one entry per shift,
// holding the metabolite identifier or "" when the peak has no match.
func Project(shifts []float64, a Assignment) []string {
	out := make([]string, len(shifts))
	for i, s := range shifts {
		out[i] = a[JoinKey(s)]
	}
	return out
}
