package engine

import (
	"blackphoenix/internal/models"

	"github.com/shopspring/decimal"
)

// UnknownProduct is the grouping key for orders without a product name.
const UnknownProduct = "Noma'lum"

// ColumnStore holds one order snapshot in Struct-of-Arrays format.
type ColumnStore struct {
	// Data Columns (Flat Arrays)
	Amounts  []decimal.Decimal
	Days     []int32 // YYYYMMDD in the store's location, 0 when createdAt is unusable
	Statuses []models.OrderStatus
	Payments []models.PaymentStatus

	// Dictionary Encoded IDs (0..N), first-seen order
	ProductIDs  []int32
	ProductDict []string
}

// Len reports the number of orders in the store.
func (cs *ColumnStore) Len() int {
	return len(cs.Amounts)
}
