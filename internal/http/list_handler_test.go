package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/ims-ui/internal/adapters/inventoryapi"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
)

func numberedSuppliers(n int) []model.Supplier {
	out := make([]model.Supplier, n)
	for i := range out {
		out[i] = model.Supplier{ID: int64(i + 1), Name: fmt.Sprintf("Supplier %02d", i+1)}
	}
	return out
}

func TestHandleList(t *testing.T) {
	h := newTestUI(t, &fakeAPI{}, &fakeSessions{})
	r := asAccess(httptest.NewRequest(http.MethodGet, "/supplier?q=odd&page=2&page_size=5", nil), domainauth.AccessAdmin)
	w := httptest.NewRecorder()

	var fetchedWith string
	var enrichedCount int
	HandleList(ListHandlerOpts[model.Supplier, string]{
		Handler: h, W: w, R: r,
		FilterParser: func(r *http.Request) (string, map[string]string) {
			return r.URL.Query().Get("q"), nil
		},
		Fetcher: func(_ context.Context, q string) ([]model.Supplier, error) {
			fetchedWith = q
			return numberedSuppliers(30), nil
		},
		Filter: func(items []model.Supplier, _ string) []model.Supplier {
			var odd []model.Supplier
			for _, s := range items {
				if s.ID%2 == 1 {
					odd = append(odd, s)
				}
			}
			return odd
		},
		EnrichData: func(_ *TemplateDataBuilder, items []model.Supplier, _ string) {
			enrichedCount = len(items)
		},
		PageMeta: PageMeta{Title: "Suppliers", PageTitle: "Suppliers", CurrentPage: PageSuppliers},
		ItemsKey: "Suppliers",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "odd", fetchedWith)
	assert.Equal(t, 15, enrichedCount, "enricher sees the whole filtered result")
	body := w.Body.String()
	// Page 2 of the odd suppliers at 5 per page: 11, 13, 15, 17, 19.
	assert.True(t, ContainsAll(body, []string{"Supplier 11", "Supplier 19"}), body)
	assert.NotContains(t, body, "Supplier 09")
	assert.NotContains(t, body, "Supplier 21")
	assert.NotContains(t, body, "Supplier 12")
}

func TestHandleList_FilterErrors(t *testing.T) {
	h := newTestUI(t, &fakeAPI{}, &fakeSessions{})
	w := httptest.NewRecorder()

	HandleList(ListHandlerOpts[model.Supplier, struct{}]{
		Handler: h, W: w, R: asAccess(httptest.NewRequest(http.MethodGet, "/supplier", nil), domainauth.AccessAdmin),
		FilterParser: func(*http.Request) (struct{}, map[string]string) {
			return struct{}{}, map[string]string{"start": "Start date must be a date (YYYY-MM-DD)."}
		},
		Fetcher: func(context.Context, struct{}) ([]model.Supplier, error) {
			return numberedSuppliers(1), nil
		},
		PageMeta:           PageMeta{Title: "Suppliers", PageTitle: "Suppliers", CurrentPage: PageSuppliers},
		ItemsKey:           "Suppliers",
		FilterErrorMessage: "Filter ignored.",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Filter ignored.")
	assert.Contains(t, w.Body.String(), "Supplier 01")
}

func TestHandleList_BackendUnauthorizedEndsSession(t *testing.T) {
	sessions := &fakeSessions{access: domainauth.AccessAdmin}
	h := newTestUI(t, &fakeAPI{}, sessions)
	w := httptest.NewRecorder()

	HandleList(ListHandlerOpts[model.Supplier, struct{}]{
		Handler: h, W: w, R: asAccess(httptest.NewRequest(http.MethodGet, "/supplier", nil), domainauth.AccessAdmin),
		Fetcher: func(context.Context, struct{}) ([]model.Supplier, error) {
			return nil, &inventoryapi.APIError{StatusCode: http.StatusUnauthorized}
		},
		PageMeta: PageMeta{Title: "Suppliers", CurrentPage: PageSuppliers},
		ItemsKey: "Suppliers",
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.True(t, sessions.loggedOut)
}

func TestHandleList_MissingFetcher(t *testing.T) {
	w := httptest.NewRecorder()
	HandleList(ListHandlerOpts[model.Supplier, struct{}]{
		Handler: &UIHandlers{}, W: w, R: httptest.NewRequest(http.MethodGet, "/supplier", nil),
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "configuration"))
}
