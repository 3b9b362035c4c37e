package charts

import (
	"testing"

	"blackphoenix/internal/format"
	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

func buckets(amounts ...int64) []models.DailyBucket {
	out := make([]models.DailyBucket, len(amounts))
	for i, a := range amounts {
		out[i] = models.DailyBucket{Label: string(rune('A' + i)), Amount: decimal.NewFromInt(a)}
	}
	return out
}

func TestLine(t *testing.T) {
	chart := Line(buckets(0, 10, 0, 0, 25, 0, 150))

	if len(chart.Labels) != 7 || chart.Labels[6] != "G" {
		t.Fatalf("Unexpected labels %v", chart.Labels)
	}
	if len(chart.Datasets) != 1 {
		t.Fatalf("Expected 1 dataset, got %d", len(chart.Datasets))
	}
	ds := chart.Datasets[0]
	if ds.Data[6] != 150 || ds.Data[1] != 10 {
		t.Errorf("Unexpected data %v", ds.Data)
	}
	if ds.BorderColor != "#eab308" || !ds.Fill || ds.Tension != 0.4 {
		t.Errorf("Style metadata missing: %+v", ds)
	}
}

func TestDoughnutCyclesPalette(t *testing.T) {
	entries := make([]models.ProductRevenueEntry, 8)
	for i := range entries {
		entries[i] = models.ProductRevenueEntry{ProductName: string(rune('a' + i)), TotalAmount: decimal.NewFromInt(int64(80 - i))}
	}

	chart := Doughnut(entries)
	colors := chart.Datasets[0].BackgroundColor
	if len(colors) != 8 {
		t.Fatalf("Expected 8 colours, got %d", len(colors))
	}
	if colors[6] != DoughnutPalette[0] || colors[7] != DoughnutPalette[1] {
		t.Errorf("Palette not cycled: %v", colors)
	}
	if chart.Labels[0] != "a" || chart.Datasets[0].Data[0] != 80 {
		t.Errorf("Unexpected first slice %s=%v", chart.Labels[0], chart.Datasets[0].Data[0])
	}
}

func TestDoughnutEmpty(t *testing.T) {
	chart := Doughnut(nil)
	if len(chart.Labels) != 0 || len(chart.Datasets[0].Data) != 0 {
		t.Errorf("Expected empty series, got %+v", chart)
	}
}

func TestBars(t *testing.T) {
	f := format.New("en", format.DefaultSuffix)

	chart := Bars(buckets(50, 200, 0), f)
	if chart.Bars[1].Height != 100 || chart.Bars[0].Height != 25 || chart.Bars[2].Height != 0 {
		t.Errorf("Unexpected heights %+v", chart.Bars)
	}
	if chart.Bars[1].Display != "200 so'm" {
		t.Errorf("Expected display 200 so'm, got %s", chart.Bars[1].Display)
	}
	if chart.Bars[1].Tick != "200" {
		t.Errorf("Expected tick 200, got %s", chart.Bars[1].Tick)
	}

	flat := Bars(buckets(0, 0, 0), f)
	for _, b := range flat.Bars {
		if b.Height != 0 {
			t.Errorf("Expected flat bars, got %+v", b)
		}
	}
	if !Peak(buckets(0, 0)).Equal(decimal.NewFromInt(1)) {
		t.Error("Expected peak floor of 1")
	}
}
