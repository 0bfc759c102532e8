package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/ims-ui/internal/domain/model"
)

type fakeDashboardAPI struct {
	txs      []model.Transaction
	reqs     []model.Request
	products []model.Product
	txErr    error
	reqErr   error
	prodErr  error
}

func (f *fakeDashboardAPI) GetAllTransactions(context.Context, string) (*model.Response, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	return &model.Response{Status: 200, Transactions: f.txs}, nil
}

func (f *fakeDashboardAPI) GetAllRequests(context.Context, string) (*model.Response, error) {
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return &model.Response{Status: 200, Requests: f.reqs}, nil
}

func (f *fakeDashboardAPI) GetAllProducts(context.Context) (*model.Response, error) {
	if f.prodErr != nil {
		return nil, f.prodErr
	}
	return &model.Response{Status: 200, Products: f.products}, nil
}

func txAt(t *testing.T, id int64, when string, price float64, qty int) model.Transaction {
	t.Helper()
	at, err := model.ParseLocalTime(when)
	require.NoError(t, err)
	return model.Transaction{ID: id, TotalPrice: price, TotalProducts: qty, CreatedAt: at}
}

func TestDashboardService_Build(t *testing.T) {
	api := &fakeDashboardAPI{
		txs: []model.Transaction{
			txAt(t, 1, "2024-04-03T10:00:00", 10, 1),
			txAt(t, 2, "2024-04-03T11:00:00", 20, 2),
			txAt(t, 3, "2024-04-30T11:00:00", 5, 5),
			txAt(t, 4, "2024-05-01T00:00:00", 1, 1),
			txAt(t, 5, "2024-03-01T00:00:00", 1, 1),
			txAt(t, 6, "2024-03-02T00:00:00", 1, 1),
		},
		reqs:     []model.Request{{ID: 1}, {ID: 2}},
		products: []model.Product{{ID: 1}, {ID: 2}, {ID: 3}},
	}

	d, err := NewDashboardService(api, nil).Build(context.Background(), 2024, time.April)
	require.NoError(t, err)

	assert.Equal(t, DashboardStats{TotalTransactions: 6, TotalRevenue: 38, TotalRequests: 2, TotalProducts: 3}, d.Stats)
	require.Len(t, d.RecentTransactions, 5)
	assert.Equal(t, int64(1), d.RecentTransactions[0].ID)
	assert.Len(t, d.RecentRequests, 2)

	require.Len(t, d.Series, 30)
	assert.Equal(t, model.DailyPoint{Day: 3, Count: 2, Amount: 30, Quantity: 3}, d.Series[2])
	assert.Equal(t, model.DailyPoint{Day: 30, Count: 1, Amount: 5, Quantity: 5}, d.Series[29])
}

func TestDashboardService_PartialFailure(t *testing.T) {
	txFail := errors.New("backend down")
	api := &fakeDashboardAPI{
		txErr:   txFail,
		reqs:    []model.Request{{ID: 1}},
		prodErr: errors.New("ignored"),
	}

	d, err := NewDashboardService(api, nil).Build(context.Background(), 2024, time.February)
	require.ErrorIs(t, err, txFail)

	assert.Equal(t, 0, d.Stats.TotalTransactions)
	assert.Equal(t, 1, d.Stats.TotalRequests)
	assert.Equal(t, 0, d.Stats.TotalProducts)
	assert.Len(t, d.Series, 29, "series still covers the month")
}
