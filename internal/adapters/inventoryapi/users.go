package inventoryapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/target/ims-ui/internal/domain/model"
)

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (c *Client) GetAllUsers(ctx context.Context) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_users", method: http.MethodGet, path: endpoint("users/all")})
}

func (c *Client) GetUserByID(ctx context.Context, userID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_user", method: http.MethodGet, path: endpoint("users", id(userID))})
}

// GetCurrentUser returns the account behind the session's token. Unlike the
// other endpoints, /users/current answers with the bare user object.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.doInto(ctx, call{op: "get_current_user", method: http.MethodGet, path: endpoint("users/current")}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, in model.UserUpdate) (*model.Response, error) {
	return c.do(ctx, call{op: "update_user", method: http.MethodPut, path: endpoint("users/update", id(userID)), body: in})
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "delete_user", method: http.MethodDelete, path: endpoint("users/delete", id(userID))})
}

// GetUserRequests lists the requests raised by a user under Response.User.Requests.
func (c *Client) GetUserRequests(ctx context.Context, userID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_user_requests", method: http.MethodGet, path: endpoint("users/userRequests", id(userID))})
}

// GetUserTransactions lists a user's transactions under Response.User.Transactions.
func (c *Client) GetUserTransactions(ctx context.Context, userID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_user_transactions", method: http.MethodGet, path: endpoint("users/userTransactions", id(userID))})
}
