package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/observability/metrics"
)

// SessionAccess reports the access level of the profile carried in ctx. The
// answer must come from local session storage only and never fail.
type SessionAccess interface {
	Access(ctx context.Context) domainauth.Access
}

const (
	guardProtected = "protected"
	guardAdmin     = "admin"
)

// ProtectedRoute admits any authenticated profile. Anyone else is sent to the
// login page with the attempted location preserved in redirect_uri so login
// can return there.
func ProtectedRoute(sessions SessionAccess) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := sessions.Access(r.Context())
			allowed := access != domainauth.AccessUnauthenticated
			metrics.ObserveGuardDecision(guardProtected, allowed)
			if !allowed {
				redirectToLogin(w, r)
				return
			}
			serveGuarded(w, r, next, access)
		})
	}
}

// AdminRoute admits only the admin role. Everyone else, signed in or not, is
// sent to the plain login page without a return location.
func AdminRoute(sessions SessionAccess) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := sessions.Access(r.Context())
			allowed := access == domainauth.AccessAdmin
			metrics.ObserveGuardDecision(guardAdmin, allowed)
			if !allowed {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			serveGuarded(w, r, next, access)
		})
	}
}

func serveGuarded(w http.ResponseWriter, r *http.Request, next http.Handler, access domainauth.Access) {
	// Guarded pages depend on who is signed in; never let a shared cache keep them.
	w.Header().Set("Cache-Control", "no-store")
	next.ServeHTTP(w, r.WithContext(SetAccessInContext(r.Context(), access)))
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	http.Redirect(w, r, "/login?redirect_uri="+url.QueryEscape(redirectPath), http.StatusSeeOther)
}

// safeRedirectPath keeps redirects inside the application. Absolute URLs,
// scheme-relative references and anything not rooted at "/" collapse to "/".
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
