package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/observability/metrics"
)

// Logging returns a middleware that logs HTTP requests and responses and
// records their latency.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, strconv.Itoa(ww.status)).Observe(elapsed.Seconds())
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", elapsed),
			}
			if profile, ok := domainauth.ProfileFromContext(r.Context()); ok {
				attrs = append(attrs, slog.String("profile", profile))
			}
			logger.Info("http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultProfileCookieName is the cookie carrying the browser profile ID.
const DefaultProfileCookieName = "ims_profile"

// ProfileConfig configures the Profile middleware.
type ProfileConfig struct {
	CookieName string
	Domain     string
	Secure     bool
	MaxAge     time.Duration
}

// Profile returns a middleware that binds every request to a browser profile.
// The profile ID is a random UUID kept in an HttpOnly cookie; it scopes the
// session storage of that browser and is the only thing the cookie carries.
// A missing or malformed cookie starts a fresh, empty profile.
func Profile(cfg ProfileConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultProfileCookieName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 365 * 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := profileFromCookie(r, cfg.CookieName)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					Domain:   cfg.Domain,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(cfg.MaxAge.Seconds()),
				})
			}
			next.ServeHTTP(w, r.WithContext(domainauth.WithProfile(r.Context(), id)))
		})
	}
}

func profileFromCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// LimitBody caps request bodies at n bytes. Zero or less leaves bodies unbounded.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
