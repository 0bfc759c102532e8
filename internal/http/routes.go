package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	imsui "github.com/target/ims-ui"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	API       InventoryAPI
	Sessions  SessionService
	Dashboard DashboardBuilder

	// TemplateFS and StaticFS override where templates and static assets come
	// from. When nil they are read from disk in dev mode and from the
	// embedded filesystem otherwise.
	TemplateFS fs.FS
	StaticFS   fs.FS

	CookieDomain   string
	CookieSecure   bool
	ProfileCookie  string
	ProfileMaxAge  time.Duration
	MaxUploadBytes int64
	// MetricsPath exposes Prometheus metrics when non-empty.
	MetricsPath string

	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
	Now    func() time.Time
}

// NewRouter creates and configures the HTTP router with its middleware chain:
// Profile -> Logging -> body limit -> CSRF -> routes.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.API == nil || services.Sessions == nil {
		return nil, errors.New("router requires an inventory API and a session service")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, err := templateFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}
	staticFS, err := staticFS(services)
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:              tr,
		API:            services.API,
		Sessions:       services.Sessions,
		Dashboard:      services.Dashboard,
		CookieDomain:   services.CookieDomain,
		CookieSecure:   services.CookieSecure,
		MaxUploadBytes: services.MaxUploadBytes,
		IsDev:          services.IsDev,
		Logger:         logger,
		Now:            services.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.MetricsPath != "" {
		mux.Handle("GET "+services.MetricsPath, promhttp.Handler())
	}
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))), services.IsDev))
	registerUIRoutes(mux, ui, services.Sessions)

	var h http.Handler = mux
	h = CSRFProtection(CSRFConfig{
		CookieDomain:       services.CookieDomain,
		Secure:             services.CookieSecure,
		MaxMultipartMemory: services.MaxUploadBytes,
	})(h)
	h = LimitBody(services.MaxUploadBytes)(h)
	h = Logging(logger)(h)
	h = Profile(ProfileConfig{
		CookieName: services.ProfileCookie,
		Domain:     services.CookieDomain,
		Secure:     services.CookieSecure,
		MaxAge:     services.ProfileMaxAge,
	})(h)
	return h, nil
}

// registerUIRoutes wires every page behind the guard its audience needs.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, sessions SessionAccess) {
	protected := ProtectedRoute(sessions)
	admin := AdminRoute(sessions)
	guard := func(mw func(http.Handler) http.Handler, fn http.HandlerFunc) http.Handler { return mw(fn) }

	// Public.
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterPage)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /logout", h.Logout)

	// Admin only.
	mux.Handle("GET /p-by-category/{categoryId}", guard(admin, h.ProductsByCategoryPage))
	mux.Handle("GET /category", guard(admin, h.CategoriesPage))
	mux.Handle("POST /category", guard(admin, h.CreateCategory))
	mux.Handle("POST /category/{categoryId}", guard(admin, h.UpdateCategory))
	mux.Handle("POST /category/{categoryId}/delete", guard(admin, h.DeleteCategory))
	mux.Handle("GET /supplier", guard(admin, h.SuppliersPage))
	mux.Handle("POST /supplier/{supplierId}/delete", guard(admin, h.DeleteSupplier))
	mux.Handle("GET /add-supplier", guard(admin, h.AddSupplierPage))
	mux.Handle("POST /add-supplier", guard(admin, h.AddSupplier))
	mux.Handle("GET /edit-supplier/{supplierId}", guard(admin, h.EditSupplierPage))
	mux.Handle("POST /edit-supplier/{supplierId}", guard(admin, h.UpdateSupplier))
	mux.Handle("GET /product", guard(admin, h.ProductsPage))
	mux.Handle("POST /product/{productId}/delete", guard(admin, h.DeleteProduct))
	mux.Handle("GET /add-product", guard(admin, h.AddProductPage))
	mux.Handle("POST /add-product", guard(admin, h.AddProduct))
	mux.Handle("GET /edit-product/{productId}", guard(admin, h.EditProductPage))
	mux.Handle("POST /edit-product/{productId}", guard(admin, h.UpdateProduct))
	mux.Handle("GET /purchase", guard(admin, h.movementPage(h.purchase())))
	mux.Handle("POST /purchase", guard(admin, h.submitMovement(h.purchase())))
	mux.Handle("GET /return", guard(admin, h.movementPage(h.returnToSupplier())))
	mux.Handle("POST /return", guard(admin, h.submitMovement(h.returnToSupplier())))
	mux.Handle("POST /request/{requestId}/status", guard(admin, h.UpdateRequestStatus))

	// Any signed-in user.
	mux.Handle("GET /{$}", guard(protected, h.Home))
	mux.Handle("GET /sale", guard(protected, h.movementPage(h.sale())))
	mux.Handle("POST /sale", guard(protected, h.submitMovement(h.sale())))
	mux.Handle("GET /transactions", guard(protected, h.TransactionsPage))
	mux.Handle("GET /transactions/export.pdf", guard(protected, h.ExportTransactionsPDF))
	mux.Handle("GET /transaction/{transactionId}", guard(protected, h.TransactionPage))
	mux.Handle("POST /transaction/{transactionId}/status", guard(protected, h.UpdateTransactionStatus))
	mux.Handle("GET /user/profile", guard(protected, h.ProfilePage))
	mux.Handle("GET /dashboard", guard(protected, h.DashboardPage))
	mux.Handle("GET /requests", guard(protected, h.RequestsPage))
	mux.Handle("GET /add-request", guard(protected, h.AddRequestPage))
	mux.Handle("POST /add-request", guard(protected, h.AddRequest))
	mux.Handle("GET /request/{requestId}", guard(protected, h.RequestPage))

	// Everything else shows the login view.
	mux.HandleFunc("/", h.unknownRoute)
}

// Home sends a signed-in user to their landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	role := domainauth.Role("")
	if isAdmin(r) {
		role = domainauth.RoleAdmin
	}
	http.Redirect(w, r, landingPath(role), http.StatusSeeOther)
}

func templateFS(services RouterServices) (fs.FS, error) {
	switch {
	case services.TemplateFS != nil:
		return services.TemplateFS, nil
	case services.IsDev:
		// Dev mode: read from disk so template edits show up on restart without a rebuild.
		return os.DirFS(TemplatePathFromRoot), nil
	default:
		return fs.Sub(imsui.TemplateFS, TemplatePathFromRoot)
	}
}

func staticFS(services RouterServices) (fs.FS, error) {
	switch {
	case services.StaticFS != nil:
		return services.StaticFS, nil
	case services.IsDev:
		return os.DirFS("frontend/static"), nil
	default:
		return fs.Sub(imsui.StaticFS, "frontend/static")
	}
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			// Dev assets change under the server; never cache them.
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		} else {
			// Embedded assets only change with a deploy.
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}

		handler.ServeHTTP(w, r)
	})
}
