package engine

import (
	"sort"
	"time"

	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

// SeriesDays is the length of the dashboard's daily revenue series.
const SeriesDays = 7

var hundred = decimal.NewFromInt(100)

// WeekdayLabeler names a calendar day for display, e.g. "Mon" or "Dush".
type WeekdayLabeler func(day time.Time) string

func defaultLabel(day time.Time) string {
	return day.Format("Mon")
}

// TotalRevenue sums every order's totalAmount. Malformed amounts were already
// decoded as zero, so nothing is skipped.
func TotalRevenue(orders []models.OrderRecord) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount.Decimal)
	}
	return total
}

// Last7DaysSeries returns exactly seven buckets, oldest first, covering
// now-6d through now by calendar date in now's location.
func Last7DaysSeries(orders []models.OrderRecord, now time.Time) []models.DailyBucket {
	return LoadColumnar(orders, now.Location()).DailySeries(now, SeriesDays, nil)
}

// RevenueByProduct groups revenue by product name, highest first. Ties keep
// the order in which products were first seen. It goes through the store for
// the product dictionary; day keys play no part in the grouping.
func RevenueByProduct(orders []models.OrderRecord) []models.ProductRevenueEntry {
	return LoadColumnar(orders, time.UTC).ByProduct()
}

// ShareOfTotal returns entry/total*100 rounded to one decimal place, or 0
// when total is zero.
func ShareOfTotal(entry, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return entry.Div(total).Mul(hundred).Round(1).InexactFloat64()
}

func (cs *ColumnStore) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, amt := range cs.Amounts {
		total = total.Add(amt)
	}
	return total
}

// DailySeries buckets revenue into the given number of calendar days ending
// on now's day. Orders with an unusable createdAt (Days == 0) fall in no bucket.
func (cs *ColumnStore) DailySeries(now time.Time, days int, label WeekdayLabeler) []models.DailyBucket {
	if days <= 0 {
		return []models.DailyBucket{}
	}
	if label == nil {
		label = defaultLabel
	}

	today := startOfDay(now)
	dates := make([]time.Time, days)
	sums := make([]decimal.Decimal, days)
	index := make(map[int32]int, days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, -(days - 1 - i))
		index[dayKey(dates[i])] = i
	}

	for j, d := range cs.Days {
		if d == 0 {
			continue
		}
		if i, ok := index[d]; ok {
			sums[i] = sums[i].Add(cs.Amounts[j])
		}
	}

	buckets := make([]models.DailyBucket, days)
	for i, day := range dates {
		buckets[i] = models.DailyBucket{
			Date:   day.Format(time.DateOnly),
			Label:  label(day),
			Amount: sums[i],
		}
	}
	return buckets
}

func (cs *ColumnStore) ByProduct() []models.ProductRevenueEntry {
	// Array indexing over the dictionary instead of a map per row
	sums := make([]decimal.Decimal, len(cs.ProductDict))
	for j, pid := range cs.ProductIDs {
		sums[pid] = sums[pid].Add(cs.Amounts[j])
	}

	entries := make([]models.ProductRevenueEntry, len(cs.ProductDict))
	for pid, name := range cs.ProductDict {
		entries[pid] = models.ProductRevenueEntry{ProductName: name, TotalAmount: sums[pid]}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalAmount.GreaterThan(entries[j].TotalAmount)
	})
	return entries
}

// Aggregate runs every revenue view over the store in one call.
func (cs *ColumnStore) Aggregate(now time.Time, label WeekdayLabeler) *models.Revenue {
	total := cs.TotalRevenue()
	series := cs.DailySeries(now, SeriesDays, label)

	last7 := decimal.Zero
	for _, b := range series {
		last7 = last7.Add(b.Amount)
	}

	entries := cs.ByProduct()
	ranked := make([]models.RankedProduct, len(entries))
	for i, e := range entries {
		ranked[i] = models.RankedProduct{
			Rank:        i + 1,
			ProductName: e.ProductName,
			TotalAmount: e.TotalAmount,
			Share:       ShareOfTotal(e.TotalAmount, total),
		}
	}

	return &models.Revenue{
		Total:       total,
		Last7Days:   series,
		Last7Total:  last7,
		TopProducts: ranked,
	}
}

// PaymentCounts counts orders per payment status. A missing status counts as
// unpaid, and paid/unpaid/refunded are always present.
func PaymentCounts(orders []models.OrderRecord) map[models.PaymentStatus]int {
	counts := map[models.PaymentStatus]int{
		models.PaymentPaid:     0,
		models.PaymentUnpaid:   0,
		models.PaymentRefunded: 0,
	}
	for _, o := range orders {
		key := o.PaymentStatus
		if key == "" {
			key = models.PaymentUnpaid
		}
		counts[key]++
	}
	return counts
}

// StatusCounts counts orders per order status.
func StatusCounts(orders []models.OrderRecord) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// RecentOrders returns up to n orders in backend order.
func RecentOrders(orders []models.OrderRecord, n int) []models.OrderRecord {
	if n < 0 {
		n = 0
	}
	if len(orders) < n {
		n = len(orders)
	}
	out := make([]models.OrderRecord, n)
	copy(out, orders[:n])
	return out
}
