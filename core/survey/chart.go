package survey

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderTierChart writes a standalone HTML page with a bar chart of the report's tier distribution.
func RenderTierChart(w io.Writer, report Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    report.Survey.Title,
			Subtitle: "Students per performance tier",
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Students"}),
	)

	labels := make([]string, 0, len(AllTiers))
	items := make([]opts.BarData, 0, len(AllTiers))
	for _, tier := range AllTiers {
		labels = append(labels, string(tier))
		items = append(items, opts.BarData{Value: report.TierCounts[tier]})
	}
	bar.SetXAxis(labels).AddSeries("students", items)
	return bar.Render(w)
}
