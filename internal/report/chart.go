package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ledger/internal/core"
)

var ErrNoData = errors.New("no data to chart")

var (
	incomeColor  = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	expenseColor = drawing.Color{R: 220, G: 20, B: 20, A: 255}
	gridColor    = drawing.Color{R: 220, G: 220, B: 220, A: 255}
)

const day = 24 * time.Hour

// RenderChart draws daily income and expense as two lines and writes the
// PNG to w.
func RenderChart(w io.Writer, totals []core.DailyTotal) error {
	if len(totals) == 0 {
		return ErrNoData
	}

	xs := make([]time.Time, len(totals))
	income := make([]float64, len(totals))
	expense := make([]float64, len(totals))
	maxY := 0.0
	for i, t := range totals {
		xs[i] = t.Date.Time
		income[i] = t.Income
		expense[i] = t.Expense
		maxY = max(maxY, t.Income, t.Expense)
	}

	// go-chart refuses a zero-width range, which a single day or an
	// all-zero series would produce.
	minX, maxX := xs[0], xs[len(xs)-1]
	if !maxX.After(minX) {
		minX, maxX = minX.Add(-day), maxX.Add(day)
	}
	if maxY <= 0 {
		maxY = 1
	}

	graph := chart.Chart{
		Title:  "Income and Expense Over Time",
		Width:  1000,
		Height: 500,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: dateValueFormatter,
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(minX),
				Max: chart.TimeToFloat64(maxX),
			},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
		},
		YAxis: chart.YAxis{
			Name: "Amount",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxY * 1.1,
			},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    core.Income.String(),
				XValues: xs,
				YValues: income,
				Style:   chart.Style{StrokeColor: incomeColor, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    core.Expense.String(),
				XValues: xs,
				YValues: expense,
				Style:   chart.Style{StrokeColor: expenseColor, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func dateValueFormatter(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return chart.TimeFromFloat64(t).UTC().Format(core.DateLayout)
	case time.Time:
		return t.UTC().Format(core.DateLayout)
	}
	return ""
}
