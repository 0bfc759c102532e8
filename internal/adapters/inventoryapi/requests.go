package inventoryapi

import (
	"context"
	"net/http"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
)

func (c *Client) AddRequest(ctx context.Context, in model.StockRequest) (*model.Response, error) {
	return c.do(ctx, call{op: "add_request", method: http.MethodPost, path: endpoint("requests/add"), body: in})
}

// GetAllRequests lists every request, narrowed by filter when non-empty.
func (c *Client) GetAllRequests(ctx context.Context, filter string) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_requests", method: http.MethodGet, path: endpoint("requests/all"), query: filterQuery(filter)})
}

func (c *Client) GetRequestByID(ctx context.Context, requestID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_request", method: http.MethodGet, path: endpoint("requests", id(requestID))})
}

func (c *Client) GetRequestsByMonthAndYear(ctx context.Context, month time.Month, year int) (*model.Response, error) {
	return c.do(ctx, call{
		op:     "get_requests_by_month",
		method: http.MethodGet,
		path:   endpoint("requests/by-month-and-year"),
		query:  monthQuery(month, year),
	})
}

// UpdateRequestStatus sends the new status as a bare JSON string body.
func (c *Client) UpdateRequestStatus(ctx context.Context, requestID int64, status model.RequestStatus) (*model.Response, error) {
	return c.do(ctx, call{op: "update_request_status", method: http.MethodPut, path: endpoint("requests/update", id(requestID)), body: string(status)})
}
