package engine

import (
	"fmt"
	"testing"
	"time"

	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func order(amount float64, createdAt time.Time, product string) models.OrderRecord {
	o := models.OrderRecord{
		TotalAmount:   models.NewAmount(amount),
		CreatedAt:     models.NewTimestamp(createdAt),
		Status:        models.StatusDelivered,
		PaymentStatus: models.PaymentPaid,
	}
	if product != "" {
		o.Product = &models.ProductRef{ProductName: product}
	}
	return o
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestScenarioTodayAndOld(t *testing.T) {
	// Scenario:
	// 100 + 50 today, 25 eight days ago (outside the window)
	orders := []models.OrderRecord{
		order(100, testNow.Add(-2*time.Hour), "Latte"),
		order(50, testNow.Add(-5*time.Hour), "Latte"),
		order(25, testNow.AddDate(0, 0, -8), "Mocha"),
	}

	if got := TotalRevenue(orders); !got.Equal(dec(175)) {
		t.Errorf("Expected total 175, got %s", got)
	}

	series := Last7DaysSeries(orders, testNow)
	if len(series) != 7 {
		t.Fatalf("Expected 7 buckets, got %d", len(series))
	}
	if !series[6].Amount.Equal(dec(150)) {
		t.Errorf("Expected today bucket 150, got %s", series[6].Amount)
	}
	if series[6].Date != "2026-10-17" {
		t.Errorf("Expected last bucket 2026-10-17, got %s", series[6].Date)
	}
	if series[0].Date != "2026-10-11" {
		t.Errorf("Expected first bucket 2026-10-11, got %s", series[0].Date)
	}

	sum := decimal.Zero
	for _, b := range series {
		sum = sum.Add(b.Amount)
	}
	if !sum.Equal(dec(150)) {
		t.Errorf("Old order leaked into the series: sum %s", sum)
	}
}

func TestLast7DaysAlwaysSeven(t *testing.T) {
	sizes := []int{0, 1, 2500}
	for _, n := range sizes {
		orders := make([]models.OrderRecord, n)
		for i := range orders {
			orders[i] = order(float64(i%40), testNow.AddDate(0, 0, -(i%20)), fmt.Sprintf("P%d", i%7))
		}
		series := Last7DaysSeries(orders, testNow)
		if len(series) != 7 {
			t.Errorf("n=%d: Expected 7 buckets, got %d", n, len(series))
		}
		for i := 1; i < len(series); i++ {
			if series[i-1].Date >= series[i].Date {
				t.Errorf("n=%d: buckets not oldest-first at %d", n, i)
			}
		}
	}
}

func TestLast7DaysEmptyIsZeroFilled(t *testing.T) {
	series := Last7DaysSeries(nil, testNow)
	for _, b := range series {
		if !b.Amount.IsZero() {
			t.Errorf("Expected zero bucket, got %s on %s", b.Amount, b.Date)
		}
		if b.Label == "" {
			t.Errorf("Missing label for %s", b.Date)
		}
	}
}

func TestLast7DaysUsesViewerZone(t *testing.T) {
	tashkent := time.FixedZone("UZT", 5*60*60)
	now := testNow.In(tashkent) // 2026-10-17 20:00 local

	// 22:00 UTC on the 16th is 03:00 on the 17th in UTC+5
	late := order(40, time.Date(2026, 10, 16, 22, 0, 0, 0, time.UTC), "Latte")

	series := Last7DaysSeries([]models.OrderRecord{late}, now)
	if !series[6].Amount.Equal(dec(40)) {
		t.Errorf("Expected order on local today, got today=%s yesterday=%s", series[6].Amount, series[5].Amount)
	}

	seriesUTC := Last7DaysSeries([]models.OrderRecord{late}, testNow)
	if !seriesUTC[5].Amount.Equal(dec(40)) {
		t.Errorf("Expected order on UTC yesterday, got %s", seriesUTC[5].Amount)
	}
}

func TestUnparseableCreatedAt(t *testing.T) {
	bad := models.OrderRecord{TotalAmount: models.NewAmount(70), Product: &models.ProductRef{ProductName: "Latte"}}
	orders := []models.OrderRecord{bad, order(30, testNow, "Latte")}

	if got := TotalRevenue(orders); !got.Equal(dec(100)) {
		t.Errorf("Expected total 100, got %s", got)
	}
	if got := Last7DaysSeries(orders, testNow)[6].Amount; !got.Equal(dec(30)) {
		t.Errorf("Expected today 30, got %s", got)
	}
	byProduct := RevenueByProduct(orders)
	if len(byProduct) != 1 || !byProduct[0].TotalAmount.Equal(dec(100)) {
		t.Errorf("Expected Latte 100, got %+v", byProduct)
	}
}

func TestNullAmountIsZero(t *testing.T) {
	var nullAmount models.Amount
	if err := nullAmount.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatal(err)
	}
	orders := []models.OrderRecord{
		order(10, testNow, "Latte"),
		{TotalAmount: nullAmount, CreatedAt: models.NewTimestamp(testNow)},
	}
	if got := TotalRevenue(orders); !got.Equal(dec(10)) {
		t.Errorf("Expected total 10, got %s", got)
	}
}

func TestRevenueByProductGroups(t *testing.T) {
	orders := []models.OrderRecord{
		order(30, testNow, "Widget"),
		order(20, testNow, "Widget"),
	}
	got := RevenueByProduct(orders)
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if got[0].ProductName != "Widget" || !got[0].TotalAmount.Equal(dec(50)) {
		t.Errorf("Expected Widget 50, got %s %s", got[0].ProductName, got[0].TotalAmount)
	}
}

func TestRevenueByProductOrdering(t *testing.T) {
	orders := []models.OrderRecord{
		order(10, testNow, "Tea"),
		order(40, testNow, "Latte"),
		order(10, testNow, "Juice"),
		order(5, testNow, ""),
		{TotalAmount: models.NewAmount(5), Product: &models.ProductRef{ID: "p9"}},
		order(25, testNow, "Mocha"),
	}

	got := RevenueByProduct(orders)
	want := []struct {
		name string
		amt  int64
	}{
		{"Latte", 40}, {"Mocha", 25}, {"Tea", 10}, {"Juice", 10}, {UnknownProduct, 10},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].ProductName != w.name || !got[i].TotalAmount.Equal(dec(w.amt)) {
			t.Errorf("Entry %d: Expected %s %d, got %s %s", i, w.name, w.amt, got[i].ProductName, got[i].TotalAmount)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i-1].TotalAmount.LessThan(got[i].TotalAmount) {
			t.Errorf("Not descending at %d", i)
		}
	}
}

func TestTotalEqualsSumByProduct(t *testing.T) {
	orders := make([]models.OrderRecord, 0, 300)
	for i := 0; i < 300; i++ {
		name := fmt.Sprintf("P%d", i%13)
		if i%17 == 0 {
			name = ""
		}
		orders = append(orders, order(float64(i)*1.25, testNow.AddDate(0, 0, -(i%9)), name))
	}

	sum := decimal.Zero
	for _, e := range RevenueByProduct(orders) {
		sum = sum.Add(e.TotalAmount)
	}
	if total := TotalRevenue(orders); !total.Equal(sum) {
		t.Errorf("Expected by-product sum %s to equal total %s", sum, total)
	}
}

func TestShareOfTotal(t *testing.T) {
	tests := []struct {
		entry, total int64
		want         float64
	}{
		{1, 3, 33.3},
		{2, 3, 66.7},
		{50, 50, 100},
		{0, 0, 0},
		{25, 0, 0},
	}
	for _, tt := range tests {
		if got := ShareOfTotal(dec(tt.entry), dec(tt.total)); got != tt.want {
			t.Errorf("ShareOfTotal(%d, %d): Expected %v, got %v", tt.entry, tt.total, tt.want, got)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	orders := []models.OrderRecord{
		order(100, testNow, "Latte"),
		order(60, testNow.AddDate(0, 0, -3), "Tea"),
		order(40, testNow.AddDate(0, 0, -10), "Latte"),
	}
	store := LoadColumnar(orders, time.UTC)

	a := store.Aggregate(testNow, nil)
	b := store.Aggregate(testNow, nil)

	if !a.Total.Equal(b.Total) || !a.Last7Total.Equal(b.Last7Total) {
		t.Fatalf("Totals differ between runs: %s/%s vs %s/%s", a.Total, a.Last7Total, b.Total, b.Last7Total)
	}
	for i := range a.Last7Days {
		x, y := a.Last7Days[i], b.Last7Days[i]
		if x.Date != y.Date || x.Label != y.Label || !x.Amount.Equal(y.Amount) {
			t.Errorf("Bucket %d differs", i)
		}
	}
	for i := range a.TopProducts {
		if a.TopProducts[i].ProductName != b.TopProducts[i].ProductName || a.TopProducts[i].Share != b.TopProducts[i].Share {
			t.Errorf("Ranking %d differs", i)
		}
	}

	if !a.Total.Equal(dec(200)) {
		t.Errorf("Expected total 200, got %s", a.Total)
	}
	if !a.Last7Total.Equal(dec(160)) {
		t.Errorf("Expected 7-day total 160, got %s", a.Last7Total)
	}
	top := a.TopProducts[0]
	if top.Rank != 1 || top.ProductName != "Latte" || top.Share != 70 {
		t.Errorf("Expected Latte rank 1 share 70, got %+v", top)
	}
}

func TestPaymentCounts(t *testing.T) {
	orders := []models.OrderRecord{
		{PaymentStatus: models.PaymentPaid},
		{PaymentStatus: models.PaymentPaid},
		{PaymentStatus: ""},
		{PaymentStatus: models.PaymentRefunded},
	}
	got := PaymentCounts(orders)
	if got[models.PaymentPaid] != 2 || got[models.PaymentUnpaid] != 1 || got[models.PaymentRefunded] != 1 {
		t.Errorf("Unexpected counts %v", got)
	}

	empty := PaymentCounts(nil)
	if len(empty) != 3 {
		t.Errorf("Expected 3 keys on empty input, got %v", empty)
	}
}

func TestRecentOrders(t *testing.T) {
	orders := []models.OrderRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	if got := RecentOrders(orders, 2); len(got) != 2 || got[1].ID != "b" {
		t.Errorf("Expected first two orders, got %+v", got)
	}
	if got := RecentOrders(orders, 8); len(got) != 3 {
		t.Errorf("Expected all 3 orders, got %d", len(got))
	}
	if got := RecentOrders(nil, 8); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}
