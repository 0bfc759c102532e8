package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/ims-ui/internal/adapters/memory"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/service"
)

// recordingHandler records whether it ran and which access level it saw.
type recordingHandler struct {
	served bool
	access domainauth.Access
}

func (p *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.served = true
	p.access, _ = AccessFromContext(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func TestProtectedRoute(t *testing.T) {
	tests := []struct {
		name         string
		access       domainauth.Access
		target       string
		wantServed   bool
		wantLocation string
	}{
		{
			name:         "unauthenticated keeps the attempted location",
			access:       domainauth.AccessUnauthenticated,
			target:       "/transactions?q=bolt&page=2",
			wantLocation: "/login?redirect_uri=%2Ftransactions%3Fq%3Dbolt%26page%3D2",
		},
		{name: "authenticated passes", access: domainauth.AccessAuthenticated, target: "/requests", wantServed: true},
		{name: "admin passes", access: domainauth.AccessAdmin, target: "/dashboard", wantServed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &recordingHandler{}
			w := httptest.NewRecorder()
			ProtectedRoute(&fakeSessions{access: tt.access})(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantServed, next.served)
			if !tt.wantServed {
				assert.Equal(t, http.StatusSeeOther, w.Code)
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
				return
			}
			assert.Equal(t, tt.access, next.access)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestAdminRoute(t *testing.T) {
	tests := []struct {
		name       string
		access     domainauth.Access
		wantServed bool
	}{
		{name: "unauthenticated", access: domainauth.AccessUnauthenticated},
		{name: "staff", access: domainauth.AccessAuthenticated},
		{name: "admin", access: domainauth.AccessAdmin, wantServed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &recordingHandler{}
			w := httptest.NewRecorder()
			AdminRoute(&fakeSessions{access: tt.access})(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product?page=3", nil))

			assert.Equal(t, tt.wantServed, next.served)
			if !tt.wantServed {
				assert.Equal(t, http.StatusSeeOther, w.Code)
				assert.Equal(t, "/login", w.Header().Get("Location"), "admin guard drops the return location")
			}
		})
	}
}

func TestAdminRoute_StaffNeverReachesBackend(t *testing.T) {
	api := &fakeAPI{}
	h := &UIHandlers{API: api, Sessions: &fakeSessions{}}
	mux := http.NewServeMux()
	registerUIRoutes(mux, h, &fakeSessions{access: domainauth.AccessAuthenticated})

	for _, target := range []string{"/product", "/category", "/supplier", "/purchase", "/return", "/p-by-category/3"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login", w.Header().Get("Location"), target)
	}
	assert.Empty(t, api.called())
}

func TestGuard_CorruptedSessionIsUnauthenticated(t *testing.T) {
	storage := memory.NewStorage()
	sessions := service.NewSessionStore(service.SessionStoreOptions{Storage: storage})
	ctx := domainauth.WithProfile(context.Background(), "profile-1")
	require.NoError(t, storage.Set(ctx, service.SessionKey, "not-a-ciphertext", 0))

	next := &recordingHandler{}
	r := httptest.NewRequest(http.MethodGet, "/requests", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	ProtectedRoute(sessions)(next).ServeHTTP(w, r)

	assert.False(t, next.served)
	assert.Equal(t, "/login?redirect_uri=%2Frequests", w.Header().Get("Location"))
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/requests", "/requests"},
		{"/transactions?q=a&page=2", "/transactions?q=a&page=2"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"https://evil.example/requests", "/"},
		{"requests", "/"},
		{"javascript:alert(1)", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}
