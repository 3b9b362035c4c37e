package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"blackphoenix/internal/models"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Provider is the dashboard state behind the handlers; *dashboard.Service
// implements it.
type Provider interface {
	Snapshot() *models.DashboardData
	Refresh(ctx context.Context) error
	Products(ctx context.Context) ([]models.Product, error)
}

type Handler struct {
	svc     Provider
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewHandler allows one manual refresh per minGap; zero disables throttling.
func NewHandler(svc Provider, minGap time.Duration, log *slog.Logger) *Handler {
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	}
	return &Handler{svc: svc, limiter: rate.NewLimiter(limit, 1), log: log}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/revenue", h.GetRevenue)
	api.GET("/revenue/daily", h.GetDailyRevenue)
	api.GET("/revenue/products", h.GetProductRevenue)
	api.GET("/charts/line", h.GetLineChart)
	api.GET("/charts/doughnut", h.GetDoughnutChart)
	api.GET("/wallet", h.GetWallet)
	api.GET("/products", h.GetProducts)
	api.POST("/refresh", h.Refresh)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) snapshot() (*models.DashboardData, error) {
	data := h.svc.Snapshot()
	if data == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dashboard data is loading")
	}
	return data, nil
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ready":  h.svc.Snapshot() != nil,
	})
}

// full snapshot, cacheable by ETag
func (h *Handler) GetDashboard(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return writeWithETag(c, data)
}

func (h *Handler) GetRevenue(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rule":           data.Rule,
		"total":          data.Revenue.Total,
		"display":        data.KPIs.Revenue,
		"last_7_total":   data.Revenue.Last7Total,
		"last_7_display": data.KPIs.Last7Days,
		"updated_at":     data.UpdatedAt,
	})
}

func (h *Handler) GetDailyRevenue(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Revenue.Last7Days)
}

func (h *Handler) GetProductRevenue(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}

	ranked := data.Revenue.TopProducts
	total := len(ranked)
	limit, offset := getPaginationParams(c, total)

	page := []models.RankedProduct{}
	if offset < total {
		// limit may be near MaxInt; clamp before adding
		if limit > total-offset {
			limit = total - offset
		}
		page = ranked[offset : offset+limit]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   page,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetLineChart(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Charts.Line)
}

func (h *Handler) GetDoughnutChart(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Charts.Doughnut)
}

func (h *Handler) GetWallet(c echo.Context) error {
	data, err := h.snapshot()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"payment_counts": data.Wallet.PaymentCounts,
		"status_counts":  data.Wallet.StatusCounts,
		"income_7_days":  data.Charts.Income.Bars,
		"income_max":     data.Wallet.IncomeMax,
		"recent_orders":  data.Wallet.RecentOrders,
		"updated_at":     data.UpdatedAt,
	})
}

func (h *Handler) GetProducts(c echo.Context) error {
	products, err := h.svc.Products(c.Request().Context())
	if err != nil {
		h.log.Error("products fetch failed", "err", err)
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load products").SetInternal(err)
	}
	return c.JSON(http.StatusOK, products)
}

// Refresh re-fetches on demand. Partial failures still answer 200 with the
// error text; 502 only when nothing new could be published.
func (h *Handler) Refresh(c echo.Context) error {
	if !h.limiter.Allow() {
		return echo.NewHTTPError(http.StatusTooManyRequests, "refresh already requested, try again shortly")
	}

	before := h.svc.Snapshot()
	err := h.svc.Refresh(c.Request().Context())
	after := h.svc.Snapshot()

	if err != nil && (after == nil || after == before) {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream unavailable").SetInternal(err)
	}

	resp := map[string]interface{}{
		"refreshed":  true,
		"updated_at": after.UpdatedAt,
	}
	if err != nil {
		resp["warning"] = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}
