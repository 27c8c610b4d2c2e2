package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"metabohunter/internal/catalog"
	"metabohunter/internal/identify"
	"metabohunter/internal/settings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// fileResult is one identified input file.
type fileResult struct {
	File    string          `json:"file" yaml:"file"`
	Matched int             `json:"matched" yaml:"matched"`
	Matches identify.Result `json:"matches" yaml:"matches"`
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case formatYAML:
		return writeYAML(w, results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  (%d/%d matched)", r.File, r.Matched, len(r.Matches))))
		fmt.Fprintln(w, matchTable(r.Matches).Render())
	}
	return nil
}

func matchTable(result identify.Result) *table.Table {
	rows := make([][]string, len(result))
	for i, m := range result {
		id, name, score := "-", "", ""
		if m.Matched() {
			id, name, score = m.MetaboliteID, m.Name, strconv.FormatFloat(m.Score, 'f', -1, 64)
		}
		rows[i] = []string{
			strconv.FormatFloat(m.Shift, 'f', -1, 64),
			strconv.FormatFloat(m.Intensity, 'f', -1, 64),
			id, name, score,
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if result[row].Matched() {
				return cellStyle
			}
			return dimStyle
		}).
		Headers("SHIFT", "INTENSITY", "METABOLITE", "NAME", "SCORE").
		Rows(rows...)
}

type parameterView struct {
	Fields  []settings.Field   `json:"fields" yaml:"fields"`
	Current catalog.Parameters `json:"current" yaml:"current"`
}

func writeParameters(w io.Writer, format string, view parameterView) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML:
		return writeYAML(w, view)
	}
	rows := make([][]string, 0, len(view.Fields))
	for _, f := range view.Fields {
		current, _ := view.Current.Get(f.Name)
		allowed := strings.Join(f.Options, ", ")
		if f.Kind == settings.KindSlider {
			allowed = fmt.Sprintf("%g..%g step %g", f.Min, f.Max, f.Step)
		}
		rows = append(rows, []string{string(f.Name), f.Label, fmt.Sprint(current), allowed})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("NAME", "LABEL", "CURRENT", "ALLOWED").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
