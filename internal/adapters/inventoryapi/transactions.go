package inventoryapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
)

func (c *Client) Purchase(ctx context.Context, in model.TransactionRequest) (*model.Response, error) {
	return c.do(ctx, call{op: "purchase", method: http.MethodPost, path: endpoint("transactions/purchase"), body: in})
}

func (c *Client) Sell(ctx context.Context, in model.TransactionRequest) (*model.Response, error) {
	return c.do(ctx, call{op: "sell", method: http.MethodPost, path: endpoint("transactions/sell"), body: in})
}

func (c *Client) ReturnToSupplier(ctx context.Context, in model.TransactionRequest) (*model.Response, error) {
	return c.do(ctx, call{op: "return_to_supplier", method: http.MethodPost, path: endpoint("transactions/return"), body: in})
}

// GetAllTransactions lists transactions, narrowed by the backend's free-text
// filter when filter is non-empty.
func (c *Client) GetAllTransactions(ctx context.Context, filter string) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_transactions", method: http.MethodGet, path: endpoint("transactions/all"), query: filterQuery(filter)})
}

// GetTransactionsBetweenDates lists transactions created within [start, end].
func (c *Client) GetTransactionsBetweenDates(ctx context.Context, start, end time.Time) (*model.Response, error) {
	q := url.Values{}
	q.Set("startDate", start.Format(time.DateOnly))
	q.Set("endDate", end.Format(time.DateOnly))
	return c.do(ctx, call{op: "get_transactions_between", method: http.MethodGet, path: endpoint("transactions/between"), query: q})
}

func (c *Client) GetTransactionByID(ctx context.Context, transactionID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_transaction", method: http.MethodGet, path: endpoint("transactions", id(transactionID))})
}

func (c *Client) GetTransactionsByMonthAndYear(ctx context.Context, month time.Month, year int) (*model.Response, error) {
	return c.do(ctx, call{
		op:     "get_transactions_by_month",
		method: http.MethodGet,
		path:   endpoint("transactions/month/by-month-and-year"),
		query:  monthQuery(month, year),
	})
}

// UpdateTransactionStatus sends the new status as a bare JSON string body.
func (c *Client) UpdateTransactionStatus(ctx context.Context, transactionID int64, status model.TransactionStatus) (*model.Response, error) {
	return c.do(ctx, call{op: "update_transaction_status", method: http.MethodPut, path: endpoint("transactions/update", id(transactionID)), body: string(status)})
}

func filterQuery(filter string) url.Values {
	if filter == "" {
		return nil
	}
	return url.Values{"filter": []string{filter}}
}

func monthQuery(month time.Month, year int) url.Values {
	return url.Values{
		"month": []string{strconv.Itoa(int(month))},
		"year":  []string{strconv.Itoa(year)},
	}
}
