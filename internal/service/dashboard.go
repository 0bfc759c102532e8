package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// recentLimit is how many of the latest transactions and requests the dashboard shows.
const recentLimit = 5

// DashboardAPI is the subset of the backend façade the dashboard reads from.
type DashboardAPI interface {
	GetAllTransactions(ctx context.Context, filter string) (*model.Response, error)
	GetAllRequests(ctx context.Context, filter string) (*model.Response, error)
	GetAllProducts(ctx context.Context) (*model.Response, error)
}

// DashboardStats are the headline counters.
type DashboardStats struct {
	TotalTransactions int
	TotalRevenue      float64
	TotalRequests     int
	TotalProducts     int
}

// Dashboard is the assembled dashboard for one month.
type Dashboard struct {
	Year               int
	Month              time.Month
	Stats              DashboardStats
	RecentTransactions []model.Transaction
	RecentRequests     []model.Request
	Series             []model.DailyPoint
}

// DashboardService assembles the dashboard from three concurrent backend reads.
type DashboardService struct {
	api    DashboardAPI
	logger *slog.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(api DashboardAPI, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{api: api, logger: logger.With("component", "dashboard")}
}

// Build fetches transactions, requests and products concurrently. Each section
// degrades independently: the returned Dashboard is always usable and the
// error joins the transaction and request failures. A product count failure is
// only logged.
func (s *DashboardService) Build(ctx context.Context, year int, month time.Month) (Dashboard, error) {
	d := Dashboard{Year: year, Month: month, Series: model.DailySeries(nil, year, month)}

	var (
		g             errgroup.Group
		txErr, reqErr error
		txs           []model.Transaction
		reqs          []model.Request
		productCount  int
	)

	g.Go(func() error {
		resp, err := s.api.GetAllTransactions(ctx, "")
		if err != nil {
			txErr = fmt.Errorf("transactions: %w", err)
			return nil
		}
		txs = resp.Transactions
		return nil
	})
	g.Go(func() error {
		resp, err := s.api.GetAllRequests(ctx, "")
		if err != nil {
			reqErr = fmt.Errorf("requests: %w", err)
			return nil
		}
		reqs = resp.Requests
		return nil
	})
	g.Go(func() error {
		resp, err := s.api.GetAllProducts(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard product count unavailable", "error", err)
			return nil
		}
		productCount = len(resp.Products)
		return nil
	})
	_ = g.Wait()

	if txErr == nil {
		d.Stats.TotalTransactions = len(txs)
		for _, tx := range txs {
			d.Stats.TotalRevenue += tx.TotalPrice
		}
		d.RecentTransactions = txs[:min(recentLimit, len(txs))]
		d.Series = model.DailySeries(txs, year, month)
	}
	if reqErr == nil {
		d.Stats.TotalRequests = len(reqs)
		d.RecentRequests = reqs[:min(recentLimit, len(reqs))]
	}
	d.Stats.TotalProducts = productCount

	return d, errors.Join(txErr, reqErr)
}
