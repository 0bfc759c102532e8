package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// fakeSessions answers the guard from a fixed access level.
type fakeSessions struct {
	mu        sync.Mutex
	access    domainauth.Access
	calls     int
	loggedOut bool
}

func (f *fakeSessions) Access(context.Context) domainauth.Access {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.access
}

func (f *fakeSessions) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = true
	f.access = domainauth.AccessUnauthenticated
	return nil
}

// fakeAPI implements the calls the handler tests exercise. Anything else
// panics through the nil embedded interface.
type fakeAPI struct {
	InventoryAPI

	mu    sync.Mutex
	calls []string

	err          error // returned by every call when set
	loginResp    *model.Response
	user         *model.User
	requests     []model.Request
	userRequests []model.Request
	userTxs      []model.Transaction
	transactions []model.Transaction
	products     []model.Product
	suppliers    []model.Supplier
	categories   []model.Category

	lastStockRequest model.StockRequest
	lastMovement     model.TransactionRequest
	lastCategory     model.Category
	lastFilter       string
	lastRange        [2]time.Time
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, _ model.LoginRequest) (*model.Response, error) {
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	return f.loginResp, nil
}

func (f *fakeAPI) GetCurrentUser(context.Context) (*model.User, error) {
	if err := f.record("GetCurrentUser"); err != nil {
		return nil, err
	}
	return f.user, nil
}

func (f *fakeAPI) GetUserRequests(context.Context, int64) (*model.Response, error) {
	if err := f.record("GetUserRequests"); err != nil {
		return nil, err
	}
	return &model.Response{User: &model.User{Requests: f.userRequests}}, nil
}

func (f *fakeAPI) GetUserTransactions(context.Context, int64) (*model.Response, error) {
	if err := f.record("GetUserTransactions"); err != nil {
		return nil, err
	}
	return &model.Response{User: &model.User{Transactions: f.userTxs}}, nil
}

func (f *fakeAPI) GetAllRequests(_ context.Context, filter string) (*model.Response, error) {
	if err := f.record("GetAllRequests"); err != nil {
		return nil, err
	}
	f.lastFilter = filter
	return &model.Response{Requests: f.requests}, nil
}

func (f *fakeAPI) AddRequest(_ context.Context, in model.StockRequest) (*model.Response, error) {
	if err := f.record("AddRequest"); err != nil {
		return nil, err
	}
	f.lastStockRequest = in
	return &model.Response{Status: http.StatusOK}, nil
}

func (f *fakeAPI) GetAllProducts(context.Context) (*model.Response, error) {
	if err := f.record("GetAllProducts"); err != nil {
		return nil, err
	}
	return &model.Response{Products: f.products}, nil
}

func (f *fakeAPI) GetAllSuppliers(context.Context) (*model.Response, error) {
	if err := f.record("GetAllSuppliers"); err != nil {
		return nil, err
	}
	return &model.Response{Suppliers: f.suppliers}, nil
}

func (f *fakeAPI) GetAllCategories(context.Context) (*model.Response, error) {
	if err := f.record("GetAllCategories"); err != nil {
		return nil, err
	}
	return &model.Response{Categories: f.categories}, nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, in model.Category) (*model.Response, error) {
	if err := f.record("CreateCategory"); err != nil {
		return nil, err
	}
	f.lastCategory = in
	return &model.Response{Status: http.StatusOK}, nil
}

func (f *fakeAPI) Purchase(_ context.Context, in model.TransactionRequest) (*model.Response, error) {
	if err := f.record("Purchase"); err != nil {
		return nil, err
	}
	f.lastMovement = in
	return &model.Response{Status: http.StatusOK}, nil
}

func (f *fakeAPI) Sell(_ context.Context, in model.TransactionRequest) (*model.Response, error) {
	if err := f.record("Sell"); err != nil {
		return nil, err
	}
	f.lastMovement = in
	return &model.Response{Status: http.StatusOK}, nil
}

func (f *fakeAPI) ReturnToSupplier(_ context.Context, in model.TransactionRequest) (*model.Response, error) {
	if err := f.record("ReturnToSupplier"); err != nil {
		return nil, err
	}
	f.lastMovement = in
	return &model.Response{Status: http.StatusOK}, nil
}

func (f *fakeAPI) GetAllTransactions(_ context.Context, filter string) (*model.Response, error) {
	if err := f.record("GetAllTransactions"); err != nil {
		return nil, err
	}
	f.lastFilter = filter
	return &model.Response{Transactions: f.transactions}, nil
}

func (f *fakeAPI) GetTransactionsBetweenDates(_ context.Context, start, end time.Time) (*model.Response, error) {
	if err := f.record("GetTransactionsBetweenDates"); err != nil {
		return nil, err
	}
	f.lastRange = [2]time.Time{start, end}
	return &model.Response{Transactions: f.transactions}, nil
}

// newTestUI builds handlers over the on-disk templates.
func newTestUI(t *testing.T, api InventoryAPI, sessions SessionService) *UIHandlers {
	t.Helper()
	return &UIHandlers{T: RequireTemplateRenderer(t), API: api, Sessions: sessions}
}

// asAccess returns r as the guard would pass it on for the given access level.
func asAccess(r *http.Request, access domainauth.Access) *http.Request {
	return r.WithContext(SetAccessInContext(r.Context(), access))
}

// postForm builds a urlencoded POST request.
func postForm(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
