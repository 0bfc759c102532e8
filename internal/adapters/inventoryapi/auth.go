package inventoryapi

import (
	"context"
	"net/http"

	"github.com/target/ims-ui/internal/domain/model"
)

// Login authenticates against the backend. When the response carries a token,
// the token and role are saved to the session store before Login returns.
func (c *Client) Login(ctx context.Context, in model.LoginRequest) (*model.Response, error) {
	resp, err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: in, public: true})
	if err != nil {
		return nil, err
	}
	if err := c.persistSession(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Register creates an account. A token in the response is persisted like Login.
func (c *Client) Register(ctx context.Context, in model.RegisterRequest) (*model.Response, error) {
	resp, err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", body: in, public: true})
	if err != nil {
		return nil, err
	}
	if err := c.persistSession(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}
