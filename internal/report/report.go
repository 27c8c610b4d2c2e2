// Package report renders an identification result as a standalone HTML page.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"metabohunter/internal/identify"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorMatched       = "#34d399"
	colorUnmatched     = "#6b7280"

	chartWidthPx    = 1400
	spectrumHeight  = 520
	breakdownHeight = 420
	unmatchedLabel  = "unmatched"
)

// Render writes a page with the peak spectrum, coloured by assignment, and the
// share of peaks claimed by each metabolite.
func Render(w io.Writer, result identify.Result) error {
	if w == nil {
		return errors.New("report: nil writer")
	}
	page := components.NewPage()
	page.PageTitle = "MetaboHunter identification"
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(spectrumChart(result), breakdownChart(result))
	return page.Render(w)
}

func initOpts(height int) opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", height),
		BackgroundColor: colorBackground,
	}
}

func spectrumChart(result identify.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(spectrumHeight)),
		charts.WithTitleOpts(opts.Title{
			Title:         "Peaks",
			Subtitle:      fmt.Sprintf("%d peaks, %d matched", len(result), result.MatchedCount()),
			Left:          "left",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "ppm",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "intensity",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	xAxis := make([]string, len(result))
	data := make([]opts.BarData, len(result))
	for i, m := range result {
		xAxis[i] = strconv.FormatFloat(m.Shift, 'f', 2, 64)
		color, name := colorUnmatched, unmatchedLabel
		if m.Matched() {
			color, name = colorMatched, label(m)
		}
		data[i] = opts.BarData{
			Name:      name,
			Value:     m.Intensity,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("intensity", data)
	return bar
}

func breakdownChart(result identify.Result) *charts.Pie {
	counts := make(map[string]int)
	for _, m := range result {
		key := unmatchedLabel
		if m.Matched() {
			key = label(m)
		}
		counts[key]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	data := make([]opts.PieData, len(names))
	for i, name := range names {
		data[i] = opts.PieData{Name: name, Value: counts[name]}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(breakdownHeight)),
		charts.WithTitleOpts(opts.Title{Title: "Peaks per metabolite", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Right: "10", TextStyle: &opts.TextStyle{Color: colorTextSecondary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	pie.AddSeries("peaks", data)
	return pie
}

func label(m identify.Match) string {
	if m.Name == "" {
		return m.MetaboliteID
	}
	return fmt.Sprintf("%s %s", m.MetaboliteID, m.Name)
}
