package inventoryapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/ims-ui/internal/adapters/memory"
	"github.com/target/ims-ui/internal/data/cryptoutil"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/mocks"
	"github.com/target/ims-ui/internal/ports"
	"github.com/target/ims-ui/internal/service"
	"go.uber.org/mock/gomock"
)

// recorded is what the fake backend saw for one request.
type recorded struct {
	method      string
	path        string
	rawPath     string
	query       string
	auth        string
	hasAuth     bool
	contentType string
	body        []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	response string
}

func newFakeBackend(t *testing.T, status int, response string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{status: status, response: response}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, hasAuth := r.Header["Authorization"]
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			rawPath:     r.URL.EscapedPath(),
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			hasAuth:     hasAuth,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		fb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fb.status)
		_, _ = io.WriteString(w, fb.response)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests)
	return fb.requests[len(fb.requests)-1]
}

func newTestClient(t *testing.T, baseURL string, sessions *mocks.MockSessionManager) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: baseURL + "/api/", Sessions: sessions})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)

	_, err := New(Options{Sessions: sessions})
	require.Error(t, err)
	_, err = New(Options{BaseURL: "not a url", Sessions: sessions})
	require.Error(t, err)
	_, err = New(Options{BaseURL: "http://backend:5050/api"})
	require.Error(t, err)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"products":[{"id":1,"name":"Widget","sku":"W","price":2.5,"stockQuantity":4}]}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("abc", nil)

	resp, err := newTestClient(t, srv.URL, sessions).GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Widget", resp.Products[0].Name)

	got := fb.last(t)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/products/all", got.path)
	assert.Equal(t, "Bearer abc", got.auth)
	assert.Equal(t, "application/json", got.contentType)
}

func TestClient_OmitsAuthorizationWithoutToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "absent", token: ""},
		{name: "corrupted", err: service.ErrCorruptSession},
		{name: "storage down", err: errors.New("redis: connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200}`)
			ctrl := gomock.NewController(t)
			sessions := mocks.NewMockSessionManager(ctrl)
			sessions.EXPECT().Token(gomock.Any()).Return(tt.token, tt.err)

			_, err := newTestClient(t, srv.URL, sessions).GetAllCategories(context.Background())
			require.NoError(t, err)

			got := fb.last(t)
			assert.False(t, got.hasAuth, "Authorization must be omitted, got %q", got.auth)
		})
	}
}

func TestClient_LoginPersistsSession(t *testing.T) {
	fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"message":"ok","token":"abc","role":"ADMIN","expirationTime":"6 months"}`)

	enc, err := cryptoutil.NewFromSecret("test-secret")
	require.NoError(t, err)
	store := service.NewSessionStore(service.SessionStoreOptions{Storage: memory.NewStorage(), Encryptor: enc})
	client, err := New(Options{BaseURL: srv.URL, Sessions: store})
	require.NoError(t, err)

	ctx := domainauth.WithProfile(context.Background(), "browser-1")
	require.False(t, store.IsAuthenticated(ctx))

	resp, err := client.Login(ctx, model.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)

	assert.True(t, store.IsAuthenticated(ctx))
	assert.True(t, store.IsAdmin(ctx))

	got := fb.last(t)
	assert.Equal(t, "/auth/login", got.path)
	assert.False(t, got.hasAuth, "login goes out without a bearer token")
	var body map[string]string
	require.NoError(t, json.Unmarshal(got.body, &body))
	assert.Equal(t, map[string]string{"email": "a@b.c", "password": "pw"}, body)

	// Subsequent calls carry the persisted token.
	_, err = client.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", fb.last(t).auth)
}

func TestClient_RegisterWithoutTokenDoesNotTouchSession(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"message":"user created"}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	// No Save and no Token expected.

	resp, err := newTestClient(t, srv.URL, sessions).Register(context.Background(), model.RegisterRequest{
		Name: "N", Email: "n@x.io", PhoneNumber: "1", Password: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "user created", resp.Message)
}

func TestClient_LoginFailureLeavesSessionAlone(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusBadRequest, `{"status":400,"message":"Password does not match"}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)

	_, err := newTestClient(t, srv.URL, sessions).Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Password does not match", MessageFromError(err, "Login failed"))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("abc", nil)

	_, err := newTestClient(t, srv.URL, sessions).GetAllSuppliers(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, "Failed to fetch suppliers", MessageFromError(err, "Failed to fetch suppliers"))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_NetworkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("abc", nil)

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := newTestClient(t, base, sessions).GetAllProducts(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "fallback", MessageFromError(err, "fallback"))
}

func TestClient_ProductMultipart(t *testing.T) {
	fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"message":"Product updated"}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("abc", nil)

	_, err := newTestClient(t, srv.URL, sessions).UpdateProduct(context.Background(), model.ProductForm{
		ProductID:     9,
		Name:          "Widget",
		SKU:           "W-1",
		Price:         "9.99",
		StockQuantity: "12",
		CategoryID:    "3",
		Description:   "A widget",
		Image:         &model.Upload{Filename: "w.png", ContentType: "image/png", Data: []byte("\x89PNG")},
	})
	require.NoError(t, err)

	got := fb.last(t)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/products/update", got.path)
	assert.Equal(t, "Bearer abc", got.auth)

	mediaType, params, err := mime.ParseMediaType(got.contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	form, err := multipart.NewReader(strings.NewReader(string(got.body)), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widget"}, form.Value["name"])
	assert.Equal(t, []string{"W-1"}, form.Value["sku"])
	assert.Equal(t, []string{"9.99"}, form.Value["price"])
	assert.Equal(t, []string{"12"}, form.Value["stockQuantity"])
	assert.Equal(t, []string{"3"}, form.Value["categoryId"])
	assert.Equal(t, []string{"A widget"}, form.Value["description"])
	assert.Equal(t, []string{"9"}, form.Value["productId"])
	require.Len(t, form.File["imageFile"], 1)
	assert.Equal(t, "w.png", form.File["imageFile"][0].Filename)
}

func TestClient_AddProductWithoutImage(t *testing.T) {
	fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("abc", nil)

	_, err := newTestClient(t, srv.URL, sessions).AddProduct(context.Background(), model.ProductForm{
		Name: "Widget", SKU: "W-1", Price: "1", StockQuantity: "1", CategoryID: "1",
	})
	require.NoError(t, err)

	got := fb.last(t)
	_, params, err := mime.ParseMediaType(got.contentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(strings.NewReader(string(got.body)), params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	assert.Empty(t, form.File)
	assert.NotContains(t, form.Value, "productId")
}

func TestClient_Endpoints(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		invoke  func(context.Context, *Client) error
		method  string
		rawPath string
		query   string
		body    string
	}{
		{"users all", func(ctx context.Context, c *Client) error { _, err := c.GetAllUsers(ctx); return err }, http.MethodGet, "/users/all", "", ""},
		{"user by id", func(ctx context.Context, c *Client) error { _, err := c.GetUserByID(ctx, 4); return err }, http.MethodGet, "/users/4", "", ""},
		{"update user", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateUser(ctx, 4, model.UserUpdate{Name: "N"})
			return err
		}, http.MethodPut, "/users/update/4", "", `{"name":"N"}`},
		{"delete user", func(ctx context.Context, c *Client) error { _, err := c.DeleteUser(ctx, 4); return err }, http.MethodDelete, "/users/delete/4", "", ""},
		{"user requests", func(ctx context.Context, c *Client) error { _, err := c.GetUserRequests(ctx, 4); return err }, http.MethodGet, "/users/userRequests/4", "", ""},
		{"user transactions", func(ctx context.Context, c *Client) error { _, err := c.GetUserTransactions(ctx, 4); return err }, http.MethodGet, "/users/userTransactions/4", "", ""},
		{"product by id", func(ctx context.Context, c *Client) error { _, err := c.GetProductByID(ctx, 5); return err }, http.MethodGet, "/products/5", "", ""},
		{"delete product", func(ctx context.Context, c *Client) error { _, err := c.DeleteProduct(ctx, 5); return err }, http.MethodDelete, "/products/delete/5", "", ""},
		{"search products", func(ctx context.Context, c *Client) error { _, err := c.SearchProducts(ctx, "red box/2"); return err }, http.MethodGet, "/products/search/red%20box%2F2", "", ""},
		{"products by category", func(ctx context.Context, c *Client) error { _, err := c.GetProductsByCategory(ctx, 3); return err }, http.MethodGet, "/products/category/3", "", ""},
		{"create category", func(ctx context.Context, c *Client) error {
			_, err := c.CreateCategory(ctx, model.Category{Name: "Tools"})
			return err
		}, http.MethodPost, "/categories/add", "", `{"name":"Tools"}`},
		{"category by id", func(ctx context.Context, c *Client) error { _, err := c.GetCategoryByID(ctx, 3); return err }, http.MethodGet, "/categories/3", "", ""},
		{"update category", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateCategory(ctx, 3, model.Category{Name: "T"})
			return err
		}, http.MethodPut, "/categories/update/3", "", `{"name":"T"}`},
		{"delete category", func(ctx context.Context, c *Client) error { _, err := c.DeleteCategory(ctx, 3); return err }, http.MethodDelete, "/categories/delete/3", "", ""},
		{"create supplier", func(ctx context.Context, c *Client) error {
			_, err := c.CreateSupplier(ctx, model.Supplier{Name: "Acme", ContactInfo: "x", Address: "y"})
			return err
		}, http.MethodPost, "/suppliers/add", "", `{"name":"Acme","contactInfo":"x","address":"y"}`},
		{"supplier by id", func(ctx context.Context, c *Client) error { _, err := c.GetSupplierByID(ctx, 8); return err }, http.MethodGet, "/suppliers/8", "", ""},
		{"update supplier", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateSupplier(ctx, 8, model.Supplier{Name: "A"})
			return err
		}, http.MethodPut, "/suppliers/update/8", "", `{"name":"A"}`},
		{"delete supplier", func(ctx context.Context, c *Client) error { _, err := c.DeleteSupplier(ctx, 8); return err }, http.MethodDelete, "/suppliers/delete/8", "", ""},
		{"purchase", func(ctx context.Context, c *Client) error {
			_, err := c.Purchase(ctx, model.TransactionRequest{ProductID: 1, Quantity: 2, SupplierID: 3})
			return err
		}, http.MethodPost, "/transactions/purchase", "", `{"productId":1,"quantity":2,"supplierId":3}`},
		{"sell", func(ctx context.Context, c *Client) error {
			_, err := c.Sell(ctx, model.TransactionRequest{ProductID: 1, Quantity: 2, Description: "d"})
			return err
		}, http.MethodPost, "/transactions/sell", "", `{"productId":1,"quantity":2,"description":"d"}`},
		{"return", func(ctx context.Context, c *Client) error {
			_, err := c.ReturnToSupplier(ctx, model.TransactionRequest{ProductID: 1, Quantity: 1, SupplierID: 3})
			return err
		}, http.MethodPost, "/transactions/return", "", `{"productId":1,"quantity":1,"supplierId":3}`},
		{"all transactions", func(ctx context.Context, c *Client) error { _, err := c.GetAllTransactions(ctx, ""); return err }, http.MethodGet, "/transactions/all", "", ""},
		{"filtered transactions", func(ctx context.Context, c *Client) error { _, err := c.GetAllTransactions(ctx, "sale x"); return err }, http.MethodGet, "/transactions/all", "filter=sale+x", ""},
		{"transactions between", func(ctx context.Context, c *Client) error {
			_, err := c.GetTransactionsBetweenDates(ctx, start, end)
			return err
		}, http.MethodGet, "/transactions/between", "endDate=2024-01-31&startDate=2024-01-02", ""},
		{"transaction by id", func(ctx context.Context, c *Client) error { _, err := c.GetTransactionByID(ctx, 7); return err }, http.MethodGet, "/transactions/7", "", ""},
		{"transactions by month", func(ctx context.Context, c *Client) error {
			_, err := c.GetTransactionsByMonthAndYear(ctx, time.March, 2024)
			return err
		}, http.MethodGet, "/transactions/month/by-month-and-year", "month=3&year=2024", ""},
		{"transaction status", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateTransactionStatus(ctx, 7, model.TransactionCompleted)
			return err
		}, http.MethodPut, "/transactions/update/7", "", `"COMPLETED"`},
		{"add request", func(ctx context.Context, c *Client) error {
			_, err := c.AddRequest(ctx, model.StockRequest{ProductID: 1, Quantity: 5})
			return err
		}, http.MethodPost, "/requests/add", "", `{"productId":1,"quantity":5}`},
		{"all requests", func(ctx context.Context, c *Client) error { _, err := c.GetAllRequests(ctx, "pending"); return err }, http.MethodGet, "/requests/all", "filter=pending", ""},
		{"request by id", func(ctx context.Context, c *Client) error { _, err := c.GetRequestByID(ctx, 2); return err }, http.MethodGet, "/requests/2", "", ""},
		{"requests by month", func(ctx context.Context, c *Client) error {
			_, err := c.GetRequestsByMonthAndYear(ctx, time.December, 2023)
			return err
		}, http.MethodGet, "/requests/by-month-and-year", "month=12&year=2023", ""},
		{"request status", func(ctx context.Context, c *Client) error {
			_, err := c.UpdateRequestStatus(ctx, 2, model.RequestApproved)
			return err
		}, http.MethodPut, "/requests/update/2", "", `"APPROVED"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t, http.StatusOK, `{"status":200}`)
			ctrl := gomock.NewController(t)
			sessions := mocks.NewMockSessionManager(ctrl)
			sessions.EXPECT().Token(gomock.Any()).Return("tok", nil)

			require.NoError(t, tt.invoke(context.Background(), newTestClient(t, srv.URL, sessions)))

			got := fb.last(t)
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, "/api"+tt.rawPath, got.rawPath)
			assert.Equal(t, tt.query, got.query)
			assert.Equal(t, "Bearer tok", got.auth)
			if tt.body == "" {
				assert.Empty(t, got.body)
			} else {
				assert.JSONEq(t, tt.body, string(got.body))
			}
		})
	}
}

func TestClient_GetCurrentUser(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusOK, `{"id":12,"name":"Ana","email":"ana@x.io","role":"MANAGER"}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	sessions.EXPECT().Token(gomock.Any()).Return("tok", nil)

	u, err := newTestClient(t, srv.URL, sessions).GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), u.ID)
	assert.Equal(t, "MANAGER", u.Role)
}

func TestClient_PersistFailureIsReported(t *testing.T) {
	_, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"token":"abc","role":"ADMIN"}`)
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionManager(ctrl)
	gomock.InOrder(
		sessions.EXPECT().Save(gomock.Any(), domainauth.Session{Token: "abc", Role: domainauth.RoleAdmin}).Return(errors.New("disk full")),
		sessions.EXPECT().ClearAuth(gomock.Any()).Return(nil),
	)

	resp, err := newTestClient(t, srv.URL, sessions).Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "p"})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Contains(t, err.Error(), "persist session")
}

func TestClient_LoginWithPastExpReplacesSession(t *testing.T) {
	enc, err := cryptoutil.NewFromSecret("test-secret")
	require.NoError(t, err)
	store := service.NewSessionStore(service.SessionStoreOptions{Storage: memory.NewStorage(), Encryptor: enc})
	ctx := domainauth.WithProfile(context.Background(), "browser-1")
	require.NoError(t, store.Save(ctx, domainauth.Session{Token: "old-admin", Role: domainauth.RoleAdmin}))
	require.True(t, store.IsAdmin(ctx))

	// Backend clock runs a few seconds behind ours.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "m@x.io",
		"exp": time.Now().Add(-3 * time.Second).Unix(),
	}).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	_, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"token":"`+tok+`","role":"MANAGER"}`)
	client, err := New(Options{BaseURL: srv.URL, Sessions: store})
	require.NoError(t, err)

	_, err = client.Login(ctx, model.LoginRequest{Email: "m@x.io", Password: "pw"})
	require.NoError(t, err)

	assert.True(t, store.IsAuthenticated(ctx))
	assert.False(t, store.IsAdmin(ctx))
	got, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestClient_PersistFailureDropsPreviousSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockStorage(ctrl)
	enc, err := cryptoutil.NewFromSecret("test-secret")
	require.NoError(t, err)
	store := service.NewSessionStore(service.SessionStoreOptions{Storage: storage, Encryptor: enc})

	storage.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", ports.ErrNotFound).AnyTimes()
	gomock.InOrder(
		storage.EXPECT().Set(gomock.Any(), service.SessionKey, gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
		storage.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, srv := newFakeBackend(t, http.StatusOK, `{"status":200,"token":"abc","role":"MANAGER"}`)
	client, err := New(Options{BaseURL: srv.URL, Sessions: store})
	require.NoError(t, err)

	_, err = client.Login(domainauth.WithProfile(context.Background(), "browser-1"), model.LoginRequest{Email: "a@b.c", Password: "p"})
	require.Error(t, err)
}
