package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Series is a named group of poses drawn in one colour.
type Series struct {
	Name  string
	Poses []Pose
}

// RenderHTML writes a standalone scatter chart of every series. Each point's
// tooltip carries its rotation.
func RenderHTML(w io.Writer, title string, series []Series) error {
	total := 0
	for _, s := range series {
		total += len(s.Poses)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("series=%d poses=%d", len(series), total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range series {
		data := make([]opts.ScatterData, 0, len(s.Poses))
		for _, p := range s.Poses {
			data = append(data, opts.ScatterData{
				Name:  fmt.Sprintf("rot=%.3f", p.Rotation),
				Value: []interface{}{p.X, p.Y},
			})
		}
		scatter.AddSeries(s.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
