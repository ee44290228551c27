package holtwinters

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sHolt-Winters:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTrend: %s    Damped: %t    Seasonal: %s    Period: %d\n",
		prefix, indentExpand(indent, 1),
		m.Shape.Trend, m.Shape.Damped, m.Shape.Seasonal, m.Shape.Period,
	); err != nil {
		return err
	}

	transform := "None"
	if m.Lambda != nil {
		transform = fmt.Sprintf("Box-Cox lambda=%.4f", *m.Lambda)
	}
	if _, err := fmt.Fprintf(w, "%s%sTransform: %s    Remove Bias: %t\n",
		prefix, indentExpand(indent, 1), transform, m.RemoveBias,
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sCoefficients:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "%s%sName\tValue\t\n", prefix, indentExpand(indent, 1))
	rows := []struct {
		name    string
		val     float64
		applies bool
	}{
		{"alpha", m.Params.Alpha, true},
		{"beta", m.Params.Beta, m.Shape.HasTrend()},
		{"gamma", m.Params.Gamma, m.Shape.HasSeason()},
		{"phi", m.Params.Phi, m.Shape.Damped},
		{"l0", m.Params.L0, true},
		{"b0", m.Params.B0, m.Shape.HasTrend()},
	}
	for _, row := range rows {
		if !row.applies {
			continue
		}
		fmt.Fprintf(tbl, "%s%s%s\t%.5f\t\n", prefix, indentExpand(indent, 1), row.name, row.val)
	}
	for i, s0 := range m.Params.S0 {
		fmt.Fprintf(tbl, "%s%ss0.%d\t%.5f\t\n", prefix, indentExpand(indent, 1), i, s0)
	}
	return tbl.Flush()
}

// TablePrint writes the model followed by the fit criteria, scores and optimization
// diagnostics
func (r *Results) TablePrint(w io.Writer, prefix, indent string) error {
	if err := r.Model().TablePrint(w, prefix, indent); err != nil {
		return err
	}

	c := r.criteria
	if _, err := fmt.Fprintf(w, "%s%sCriteria:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sSSE: %.3f    AIC: %.3f    AICc: %.3f    BIC: %.3f    K: %d\n",
		prefix, indentExpand(indent, 1), c.SSE, c.AIC, c.AICc, c.BIC, c.K,
	); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
		prefix, indentExpand(indent, 1), r.scores.MAPE, r.scores.MSE, r.scores.R2,
	); err != nil {
		return err
	}

	d := r.in.optimization
	if d == nil {
		_, err := fmt.Fprintf(w, "%s%sOptimization: None\n", prefix, indentExpand(indent, 0))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sOptimization:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sMethod: %s    Converged: %t    Status: %s    Evaluations: %d\n",
		prefix, indentExpand(indent, 1), d.Method, d.Converged, d.Status, d.Evaluations,
	)
	return err
}

// LineSeries generates an echart multi-line chart over a shared x axis. Each series in y must
// have the same length as the axis, nil entries leave gaps.
func LineSeries(title string, seriesName []string, x []string, y [][]*float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(x)
	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, val := range y[i] {
			if val == nil {
				lineData = append(lineData, opts.LineData{Value: "-"})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: *val})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// padded places vals at offset within a series of length n
func padded(n, offset int, vals []float64) []*float64 {
	out := make([]*float64, n)
	for i := range vals {
		v := vals[i]
		out[offset+i] = &v
	}
	return out
}

func (r *Results) axis(horizon int) ([]string, error) {
	n := len(r.in.y)
	x := make([]string, 0, n+horizon)
	if r.in.t == nil {
		for i := 0; i < n+horizon; i++ {
			x = append(x, strconv.Itoa(i))
		}
		return x, nil
	}

	for _, t := range r.in.t {
		x = append(x, t.Format(time.RFC3339))
	}
	fcastT, _, err := r.ForecastTimes(horizon)
	if err != nil {
		return nil, err
	}
	for _, t := range fcastT {
		x = append(x, t.Format(time.RFC3339))
	}
	return x, nil
}

// PlotFit uses the Apache Echarts library to write an html page showing the training series
// with its fit and forecast, the smoothed components and the fit residuals
func (r *Results) PlotFit(w io.Writer, horizon int) error {
	if horizon < 0 {
		horizon = 0
	}
	x, err := r.axis(horizon)
	if err != nil {
		return err
	}
	n := len(r.in.y)
	total := n + horizon

	page := components.NewPage()
	page.AddCharts(
		LineSeries(
			"Holt-Winters Fit",
			[]string{"Actual", "Fitted", "Forecast"},
			x,
			[][]*float64{
				padded(total, 0, r.in.y),
				padded(total, 0, r.fitted),
				padded(total, n, r.Forecast(horizon)),
			},
		),
		LineSeries(
			"Components",
			[]string{"Level", "Slope", "Season"},
			x[:n],
			[][]*float64{
				padded(n, 0, r.level),
				padded(n, 0, r.slope),
				padded(n, 0, r.season),
			},
		),
		LineSeries(
			"Residual",
			[]string{"Residual"},
			x[:n],
			[][]*float64{padded(n, 0, r.residuals)},
		),
	)
	return page.Render(w)
}
