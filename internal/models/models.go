package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderRecord is one order as returned by the backend. TotalAmount is
// authoritative and is never recomputed from the product price.
type OrderRecord struct {
	ID            ObjectID      `json:"_id"`
	CreatedAt     Timestamp     `json:"createdAt"`
	TotalAmount   Amount        `json:"totalAmount"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Product       *ProductRef   `json:"product"`
}

// ProductName returns the product display name or "" when the reference is
// missing or unpopulated.
func (o OrderRecord) ProductName() string {
	if o.Product == nil {
		return ""
	}
	return o.Product.ProductName
}

type ProductRef struct {
	ID          ObjectID `json:"_id,omitempty"`
	ProductName string   `json:"productName,omitempty"`
	Price       Amount   `json:"price"`
}

// OrderStats mirrors GET /api/orders/stats.
type OrderStats struct {
	TotalOrders     int    `json:"totalOrders"`
	PendingOrders   int    `json:"pendingOrders"`
	CompletedOrders int    `json:"completedOrders"`
	CancelledOrders int    `json:"cancelledOrders"`
	TotalRevenue    Amount `json:"totalRevenue"`
}

// Product is a catalogue entry from GET /api/product.
type Product struct {
	ID          ObjectID `json:"_id"`
	Name        string   `json:"name"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       Amount   `json:"price"`
}

// --- Derived entities ---

// DailyBucket is one calendar day of the 7-day series.
type DailyBucket struct {
	Date   string          `json:"date"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type ProductRevenueEntry struct {
	ProductName string          `json:"product_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// RankedProduct is a ProductRevenueEntry placed in the ranking table.
type RankedProduct struct {
	Rank        int             `json:"rank"`
	ProductName string          `json:"product_name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Share       float64         `json:"share"`
	Display     string          `json:"display,omitempty"`
	ShareLabel  string          `json:"share_label,omitempty"`
}

// Revenue is the output of one aggregation pass.
type Revenue struct {
	Total       decimal.Decimal `json:"total"`
	Last7Days   []DailyBucket   `json:"last_7_days"`
	Last7Total  decimal.Decimal `json:"last_7_total"`
	TopProducts []RankedProduct `json:"top_products"`
}

// --- Response DTOs ---

type KPIs struct {
	Revenue         string `json:"revenue"`
	Last7Days       string `json:"last_7_days"`
	CompletedOrders int    `json:"completed_orders"`
	PendingOrders   *int   `json:"pending_orders"`
	TotalOrders     *int   `json:"total_orders"`
	CancelledOrders *int   `json:"cancelled_orders"`
}

type Wallet struct {
	PaymentCounts map[PaymentStatus]int `json:"payment_counts"`
	StatusCounts  map[OrderStatus]int   `json:"status_counts"`
	Income7Days   []DailyBucket         `json:"income_7_days"`
	IncomeMax     decimal.Decimal       `json:"income_max"`
	RecentOrders  []OrderRecord         `json:"recent_orders"`
}

// DashboardData is the published snapshot served to the UI.
type DashboardData struct {
	Rule      string      `json:"rule"`
	UpdatedAt time.Time   `json:"updated_at"`
	Revenue   *Revenue    `json:"revenue"`
	KPIs      KPIs        `json:"kpis"`
	Stats     *OrderStats `json:"stats"`
	Charts    Charts      `json:"charts"`
	Wallet    Wallet      `json:"wallet"`
}

type Charts struct {
	Line     LineChart     `json:"line"`
	Doughnut DoughnutChart `json:"doughnut"`
	Income   BarChart      `json:"income"`
}

// --- Chart series (chart.js data shape) ---

type LineChart struct {
	Labels   []string      `json:"labels"`
	Datasets []LineDataset `json:"datasets"`
}

type LineDataset struct {
	Label                string    `json:"label"`
	Data                 []float64 `json:"data"`
	Fill                 bool      `json:"fill"`
	Tension              float64   `json:"tension"`
	BackgroundColor      string    `json:"backgroundColor"`
	BorderColor          string    `json:"borderColor"`
	PointBackgroundColor string    `json:"pointBackgroundColor"`
	PointBorderColor     string    `json:"pointBorderColor"`
	PointBorderWidth     int       `json:"pointBorderWidth"`
	PointRadius          int       `json:"pointRadius"`
	PointHoverRadius     int       `json:"pointHoverRadius"`
}

type DoughnutChart struct {
	Labels   []string          `json:"labels"`
	Datasets []DoughnutDataset `json:"datasets"`
}

type DoughnutDataset struct {
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderWidth     int       `json:"borderWidth"`
	BorderColor     string    `json:"borderColor"`
	HoverOffset     int       `json:"hoverOffset"`
}

// BarChart is the wallet's 7-day income strip; Height is a 0..100 percentage
// of the largest bar.
type BarChart struct {
	Bars []Bar `json:"bars"`
}

type Bar struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
	Tick    string  `json:"tick"` // compact axis label, e.g. "1.2M"
	Height  float64 `json:"height"`
}
