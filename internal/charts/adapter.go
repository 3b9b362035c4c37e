// Package charts reshapes aggregation output into chart.js series.
package charts

import (
	"blackphoenix/internal/format"
	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

const (
	LineLabel  = "Sof foyda"
	lineColor  = "#eab308"
	lineFill   = "rgba(234,179,8,0.1)"
	pointColor = "#fff"
)

// DoughnutPalette is cycled when there are more slices than colours.
var DoughnutPalette = []string{"#eab308", "#f59e0b", "#f97316", "#fbbf24", "#ca8a04", "#fde68a"}

func Line(buckets []models.DailyBucket) models.LineChart {
	labels := make([]string, len(buckets))
	data := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		data[i] = b.Amount.InexactFloat64()
	}

	return models.LineChart{
		Labels: labels,
		Datasets: []models.LineDataset{{
			Label:                LineLabel,
			Data:                 data,
			Fill:                 true,
			Tension:              0.4,
			BackgroundColor:      lineFill,
			BorderColor:          lineColor,
			PointBackgroundColor: lineColor,
			PointBorderColor:     pointColor,
			PointBorderWidth:     2,
			PointRadius:          6,
			PointHoverRadius:     9,
		}},
	}
}

func Doughnut(entries []models.ProductRevenueEntry) models.DoughnutChart {
	labels := make([]string, len(entries))
	data := make([]float64, len(entries))
	colors := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.ProductName
		data[i] = e.TotalAmount.InexactFloat64()
		colors[i] = DoughnutPalette[i%len(DoughnutPalette)]
	}

	return models.DoughnutChart{
		Labels: labels,
		Datasets: []models.DoughnutDataset{{
			Data:            data,
			BackgroundColor: colors,
			BorderWidth:     3,
			BorderColor:     "hsl(var(--b1))",
			HoverOffset:     10,
		}},
	}
}

// Bars scales each bucket against the largest one. The divisor is at least 1
// so an all-zero week renders flat bars instead of dividing by zero.
func Bars(buckets []models.DailyBucket, f *format.Formatter) models.BarChart {
	peak := Peak(buckets)
	bars := make([]models.Bar, len(buckets))
	for i, b := range buckets {
		bars[i] = models.Bar{
			Label:   b.Label,
			Amount:  b.Amount.InexactFloat64(),
			Display: f.Currency(b.Amount),
			Tick:    f.Compact(b.Amount),
			Height:  b.Amount.Div(peak).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64(),
		}
	}
	return models.BarChart{Bars: bars}
}

// Peak returns max(amounts..., 1).
func Peak(buckets []models.DailyBucket) decimal.Decimal {
	peak := decimal.NewFromInt(1)
	for _, b := range buckets {
		if b.Amount.GreaterThan(peak) {
			peak = b.Amount
		}
	}
	return peak
}
