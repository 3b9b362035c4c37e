package engine

import (
	"time"

	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

// dayKey packs a calendar date into YYYYMMDD, e.g. 2026-10-17 -> 20261017.
func dayKey(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(y)*10000 + int32(m)*100 + int32(d)
}

// startOfDay returns local midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LoadColumnar encodes orders into a ColumnStore. Calendar days are taken in
// loc, which is the viewer's time zone. The input slice is not modified.
func LoadColumnar(orders []models.OrderRecord, loc *time.Location) *ColumnStore {
	if loc == nil {
		loc = time.Local
	}

	n := len(orders)
	cs := &ColumnStore{
		Amounts:    make([]decimal.Decimal, n),
		Days:       make([]int32, n),
		Statuses:   make([]models.OrderStatus, n),
		Payments:   make([]models.PaymentStatus, n),
		ProductIDs: make([]int32, n),
	}

	pMap := make(map[string]int32)
	for i, o := range orders {
		cs.Amounts[i] = o.TotalAmount.Decimal
		cs.Statuses[i] = o.Status
		cs.Payments[i] = o.PaymentStatus

		if o.CreatedAt.Valid {
			cs.Days[i] = dayKey(o.CreatedAt.In(loc))
		}

		name := o.ProductName()
		if name == "" {
			name = UnknownProduct
		}
		id, ok := pMap[name]
		if !ok {
			id = int32(len(cs.ProductDict))
			cs.ProductDict = append(cs.ProductDict, name)
			pMap[name] = id
		}
		cs.ProductIDs[i] = id
	}

	return cs
}
