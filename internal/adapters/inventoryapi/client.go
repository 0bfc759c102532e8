// Package inventoryapi is the façade over the inventory backend REST API: one
// method per backend operation, uniform headers, and a uniform error shape.
package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/observability/metrics"
	"github.com/target/ims-ui/internal/ports"
	"golang.org/x/oauth2"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 16 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Sessions   ports.SessionManager
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the inventory backend on behalf of the profile carried in ctx.
// It is safe for concurrent use and is constructed once per process.
type Client struct {
	baseURL  string
	sessions ports.SessionManager
	http     *http.Client
	logger   *slog.Logger
}

// New builds a Client. BaseURL and Sessions are required.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("inventory api base url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid inventory api base url %q", opts.BaseURL)
	}
	if opts.Sessions == nil {
		return nil, errors.New("inventory api session manager is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:  base,
		sessions: opts.Sessions,
		http:     hc,
		logger:   logger.With("component", "inventoryapi"),
	}, nil
}

// call describes one backend request.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	form   *multipartBody
	public bool // login and register go out without a bearer token
}

// endpoint joins fixed path parts with escaped dynamic segments.
func endpoint(parts ...string) string {
	var b strings.Builder
	for i, p := range parts {
		b.WriteByte('/')
		if i == 0 {
			b.WriteString(strings.Trim(p, "/"))
			continue
		}
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// do sends the call and decodes the standard response envelope.
func (c *Client) do(ctx context.Context, in call) (*model.Response, error) {
	var resp model.Response
	if err := c.doInto(ctx, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doInto(ctx context.Context, in call, dst any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		d := time.Since(start)
		metrics.ObserveBackendCall(in.op, d, err)
		attrs := []any{"op", in.op, "method", in.method, "path", in.path, "status", status, "duration", d}
		if err != nil {
			c.logger.WarnContext(ctx, "backend call failed", append(attrs, "error", err)...)
			return
		}
		c.logger.DebugContext(ctx, "backend call", attrs...)
	}()

	req, err := c.newRequest(ctx, in)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", in.op, err)
	}
	defer res.Body.Close()
	status = res.StatusCode

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", in.op, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return newAPIError(in.op, res.StatusCode, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", in.op, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, in call) (*http.Request, error) {
	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch {
	case in.form != nil:
		buf, ct, err := in.form.encode()
		if err != nil {
			return nil, fmt.Errorf("%s: encode form: %w", in.op, err)
		}
		body, contentType = buf, ct
	case in.body != nil:
		raw, err := json.Marshal(in.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", in.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", in.op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if !in.public {
		c.authorize(ctx, req)
	}
	return req, nil
}

// authorize attaches the bearer token when the session holds one. An absent or
// unreadable session sends the request without Authorization so the backend
// answers 401 instead of receiving a bogus credential.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	token, err := c.sessions.Token(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "session unreadable, calling backend unauthenticated", "error", err)
		return
	}
	if token == "" {
		return
	}
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
}

// persistSession stores the credentials carried by a login or register
// response. When the save fails the previous session is cleared so it cannot
// stay active under the new login.
func (c *Client) persistSession(ctx context.Context, resp *model.Response) error {
	if resp == nil || resp.Token == "" {
		return nil
	}
	sess := domainauth.Session{Token: resp.Token, Role: domainauth.Role(resp.Role)}
	if err := c.sessions.Save(ctx, sess); err != nil {
		if clearErr := c.sessions.ClearAuth(ctx); clearErr != nil {
			c.logger.ErrorContext(ctx, "clear previous session failed", "error", clearErr)
		}
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
