package metabohunter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"metabohunter/internal/pkg/text"

	"golang.org/x/net/html"
)

const (
	hitsField       = "hits"
	sampleFileField = "sample_file"
	snippetLen      = 120
)

// "0.83 (5/6)": score followed by matched/total peak counts.
var scorePattern = regexp.MustCompile(`^(.*?) \((\d+)/(\d+)\)`)

// ParseRankingResponse extracts the ranking table and the sample-file token
// from the HTML returned by the peak-list submission.
func ParseRankingResponse(body string) (RankingResponse, error) {
	inputs := hiddenInputs(body, hitsField, sampleFileField)
	hits, ok := inputs[hitsField]
	if !ok {
		return RankingResponse{}, fmt.Errorf("%w: no %q field in page: %s", ErrParse, hitsField, text.Snippet(body, snippetLen))
	}
	sample, ok := inputs[sampleFileField]
	if !ok {
		return RankingResponse{}, fmt.Errorf("%w: no %q field in page", ErrParse, sampleFileField)
	}
	tableText, err := splitHits(hits)
	if err != nil {
		return RankingResponse{}, err
	}
	table, err := ParseRankingTable(tableText)
	if err != nil {
		return RankingResponse{}, err
	}
	return RankingResponse{Table: table, TableText: tableText, SampleFile: sample}, nil
}

// splitHits drops the header line and the trailing newline of the hits value.
// A header line on its own is an empty table.
func splitHits(value string) (string, error) {
	nl := strings.IndexByte(value, '\n')
	if nl < 0 || !strings.HasSuffix(value, "\n") {
		return "", fmt.Errorf("%w: hits field is not header+table: %s", ErrParse, text.Snippet(value, snippetLen))
	}
	if nl == len(value)-1 {
		return "", nil
	}
	return value[nl+1 : len(value)-1], nil
}

// ParseRankingTable decodes tab-separated rows of
// rank, id, name, "score (matched/total)", taxonomic origin.
func ParseRankingTable(tableText string) (*RankingTable, error) {
	table := &RankingTable{}
	for i, line := range strings.Split(tableText, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := parseRankingRow(line)
		if err != nil {
			return nil, fmt.Errorf("ranking row %d: %w", i+1, err)
		}
		table.Put(row)
	}
	return table, nil
}

func parseRankingRow(line string) (RankingRow, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 5 {
		return RankingRow{}, fmt.Errorf("%w: want 5 tab-separated fields, got %d: %s", ErrParse, len(fields), text.Snippet(line, snippetLen))
	}
	rank, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return RankingRow{}, fmt.Errorf("%w: rank %q", ErrParse, fields[0])
	}
	m := scorePattern.FindStringSubmatch(fields[3])
	if m == nil {
		return RankingRow{}, fmt.Errorf("%w: score field %q", ErrParse, fields[3])
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return RankingRow{}, fmt.Errorf("%w: score %q", ErrParse, m[1])
	}
	matched, err := strconv.Atoi(m[2])
	if err != nil {
		return RankingRow{}, fmt.Errorf("%w: matched count %q", ErrParse, m[2])
	}
	total, err := strconv.Atoi(m[3])
	if err != nil {
		return RankingRow{}, fmt.Errorf("%w: total count %q", ErrParse, m[3])
	}
	return RankingRow{
		Rank:         rank,
		ID:           strings.TrimSpace(fields[1]),
		Name:         fields[2],
		Score:        score,
		PeaksMatched: matched,
		PeaksTotal:   total,
		Taxonomy:     strings.TrimSpace(fields[4]),
	}, nil
}

// ParseEvidence decodes the matched-peaks download: one "<id>: <peak> <peak> ..."
// line per metabolite. Blank lines are skipped.
func ParseEvidence(body string) *Evidence {
	ev := &Evidence{}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		id := strings.TrimRight(fields[0], ":")
		ev.Put(id, fields[1:])
	}
	return ev
}

// hiddenInputs returns the value attribute of the first <input> element
// carrying each requested name.
func hiddenInputs(body string, names ...string) map[string]string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	found := make(map[string]string, len(names))
	z := html.NewTokenizer(strings.NewReader(body))
	for len(found) < len(want) {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.Data != "input" {
			continue
		}
		var name, value string
		hasValue := false
		for _, attr := range tok.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "value":
				value = attr.Val
				hasValue = true
			}
		}
		if !want[name] || !hasValue {
			continue
		}
		if _, seen := found[name]; !seen {
			found[name] = value
		}
	}
	return found
}
