// Package dashboard keeps the latest aggregated dashboard snapshot. It fetches
// order data from the backend, runs the revenue engine over it and publishes
// an immutable result for the HTTP layer.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"blackphoenix/internal/charts"
	"blackphoenix/internal/engine"
	"blackphoenix/internal/format"
	"blackphoenix/internal/models"
	"blackphoenix/internal/upstream"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned by Refresh when nothing could be fetched and there is
// no earlier snapshot to keep serving.
var ErrNoData = errors.New("no dashboard data available")

// Source is the backend the service reads from; *upstream.Client implements it.
type Source interface {
	Orders(ctx context.Context, q upstream.OrderQuery) ([]models.OrderRecord, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
	Products(ctx context.Context) ([]models.Product, error)
}

type Options struct {
	Rule        engine.RevenueRule
	OrderLimit  int
	RecentLimit int
	RecentShown int
	Location    *time.Location
	Now         func() time.Time // defaults to time.Now
}

// pieces are the raw inputs of the last successful fetch of each kind.
type pieces struct {
	recognized []models.OrderRecord
	recent     []models.OrderRecord
	stats      *models.OrderStats
}

type Service struct {
	src  Source
	fmt  *format.Formatter
	opts Options
	log  *slog.Logger

	mu     sync.Mutex // serializes Refresh
	inputs pieces
	snap   atomic.Pointer[models.DashboardData]
}

func NewService(src Source, f *format.Formatter, opts Options, log *slog.Logger) *Service {
	if opts.Rule == "" {
		opts.Rule = engine.RuleDeliveredPaid
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{src: src, fmt: f, opts: opts, log: log}
}

// Snapshot returns the latest published data, or nil before the first
// successful refresh. The returned value must not be modified.
func (s *Service) Snapshot() *models.DashboardData {
	return s.snap.Load()
}

// Products passes the catalogue listing through from the backend.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.src.Products(ctx)
}

// Refresh fetches recognized orders, recent orders and stats in parallel.
// Each piece that fails keeps its previous value; the snapshot is rebuilt
// whenever at least one piece arrived. The first fetch error is returned.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, payment := s.opts.Rule.Query()

	var g errgroup.Group
	var recognized, recent []models.OrderRecord
	var stats *models.OrderStats
	var gotRecognized, gotRecent, gotStats bool

	g.Go(func() error {
		orders, err := s.src.Orders(ctx, upstream.OrderQuery{Status: status, PaymentStatus: payment, Limit: s.opts.OrderLimit})
		if err != nil {
			s.log.Error("dashboard fetch failed", "piece", "recognized_orders", "err", err)
			return fmt.Errorf("recognized orders: %w", err)
		}
		recognized, gotRecognized = orders, true
		return nil
	})
	g.Go(func() error {
		orders, err := s.src.Orders(ctx, upstream.OrderQuery{Page: 1, Limit: s.opts.RecentLimit})
		if err != nil {
			s.log.Error("dashboard fetch failed", "piece", "recent_orders", "err", err)
			return fmt.Errorf("recent orders: %w", err)
		}
		recent, gotRecent = orders, true
		return nil
	})
	g.Go(func() error {
		st, err := s.src.Stats(ctx)
		if err != nil {
			s.log.Error("dashboard fetch failed", "piece", "stats", "err", err)
			return fmt.Errorf("stats: %w", err)
		}
		stats, gotStats = st, true
		return nil
	})

	err := g.Wait()

	if !gotRecognized && !gotRecent && !gotStats {
		if s.snap.Load() == nil {
			return errors.Join(ErrNoData, err)
		}
		return err
	}

	next := s.inputs
	if gotRecognized {
		// re-applied locally in case the backend ignores the query
		next.recognized = s.opts.Rule.Filter(recognized)
	}
	if gotRecent {
		next.recent = recent
	}
	if gotStats {
		next.stats = stats
	}
	s.inputs = next

	data := s.build(next, s.opts.Now().In(s.opts.Location))
	s.snap.Store(data)

	s.log.Info("dashboard refreshed",
		"rule", string(s.opts.Rule),
		"recognized_orders", len(next.recognized),
		"recent_orders", len(next.recent),
		"total_revenue", data.Revenue.Total.String(),
	)
	return err
}

func (s *Service) build(in pieces, now time.Time) *models.DashboardData {
	label := engine.WeekdayLabeler(s.fmt.WeekdayLabel)

	rev := engine.LoadColumnar(in.recognized, s.opts.Location).Aggregate(now, label)
	entries := make([]models.ProductRevenueEntry, len(rev.TopProducts))
	for i := range rev.TopProducts {
		rev.TopProducts[i].Display = s.fmt.Currency(rev.TopProducts[i].TotalAmount)
		rev.TopProducts[i].ShareLabel = s.fmt.Percent(rev.TopProducts[i].Share)
		entries[i] = models.ProductRevenueEntry{
			ProductName: rev.TopProducts[i].ProductName,
			TotalAmount: rev.TopProducts[i].TotalAmount,
		}
	}

	paid := engine.RulePaid.Filter(in.recent)
	income := engine.LoadColumnar(paid, s.opts.Location).DailySeries(now, engine.SeriesDays, label)

	kpis := models.KPIs{
		Revenue:         s.fmt.Currency(rev.Total),
		Last7Days:       s.fmt.Currency(rev.Last7Total),
		CompletedOrders: len(in.recognized),
	}
	if in.stats != nil {
		st := *in.stats
		kpis.CompletedOrders = st.CompletedOrders
		kpis.PendingOrders = &st.PendingOrders
		kpis.TotalOrders = &st.TotalOrders
		kpis.CancelledOrders = &st.CancelledOrders
	}

	return &models.DashboardData{
		Rule:      string(s.opts.Rule),
		UpdatedAt: now,
		Revenue:   rev,
		KPIs:      kpis,
		Stats:     in.stats,
		Charts: models.Charts{
			Line:     charts.Line(rev.Last7Days),
			Doughnut: charts.Doughnut(entries),
			Income:   charts.Bars(income, s.fmt),
		},
		Wallet: models.Wallet{
			PaymentCounts: engine.PaymentCounts(in.recent),
			StatusCounts:  engine.StatusCounts(in.recent),
			Income7Days:   income,
			IncomeMax:     charts.Peak(income),
			RecentOrders:  engine.RecentOrders(in.recent, s.opts.RecentShown),
		},
	}
}

// Run refreshes immediately and then every interval until ctx is done.
// Failures are logged and the previous snapshot stays published.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.refreshLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshLogged(ctx)
		}
	}
}

func (s *Service) refreshLogged(ctx context.Context) {
	start := time.Now()
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn("dashboard refresh incomplete", "err", err, "duration", time.Since(start))
		return
	}
	s.log.Debug("dashboard refresh complete", "duration", time.Since(start))
}
