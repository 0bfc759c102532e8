package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/target/ims-ui/internal/adapters/inventoryapi"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
	apperrors "github.com/target/ims-ui/internal/errors"
	"github.com/target/ims-ui/internal/http/ui/viewmodel"
	"github.com/target/ims-ui/internal/service"
)

const (
	errMsgFixBelow     = "Please fix the errors below."
	msgSessionExpired  = "Your session has expired. Please sign in again."
	defaultUploadBytes = 10 << 20
)

// InventoryAPI is the part of the backend façade the views call.
type InventoryAPI interface {
	Login(ctx context.Context, in model.LoginRequest) (*model.Response, error)
	Register(ctx context.Context, in model.RegisterRequest) (*model.Response, error)
	GetCurrentUser(ctx context.Context) (*model.User, error)
	GetUserTransactions(ctx context.Context, userID int64) (*model.Response, error)
	GetUserRequests(ctx context.Context, userID int64) (*model.Response, error)

	AddProduct(ctx context.Context, form model.ProductForm) (*model.Response, error)
	UpdateProduct(ctx context.Context, form model.ProductForm) (*model.Response, error)
	GetAllProducts(ctx context.Context) (*model.Response, error)
	GetProductByID(ctx context.Context, productID int64) (*model.Response, error)
	DeleteProduct(ctx context.Context, productID int64) (*model.Response, error)
	SearchProducts(ctx context.Context, q string) (*model.Response, error)
	GetProductsByCategory(ctx context.Context, categoryID int64) (*model.Response, error)

	CreateCategory(ctx context.Context, in model.Category) (*model.Response, error)
	GetAllCategories(ctx context.Context) (*model.Response, error)
	GetCategoryByID(ctx context.Context, categoryID int64) (*model.Response, error)
	UpdateCategory(ctx context.Context, categoryID int64, in model.Category) (*model.Response, error)
	DeleteCategory(ctx context.Context, categoryID int64) (*model.Response, error)

	CreateSupplier(ctx context.Context, in model.Supplier) (*model.Response, error)
	GetAllSuppliers(ctx context.Context) (*model.Response, error)
	GetSupplierByID(ctx context.Context, supplierID int64) (*model.Response, error)
	UpdateSupplier(ctx context.Context, supplierID int64, in model.Supplier) (*model.Response, error)
	DeleteSupplier(ctx context.Context, supplierID int64) (*model.Response, error)

	Purchase(ctx context.Context, in model.TransactionRequest) (*model.Response, error)
	Sell(ctx context.Context, in model.TransactionRequest) (*model.Response, error)
	ReturnToSupplier(ctx context.Context, in model.TransactionRequest) (*model.Response, error)
	GetAllTransactions(ctx context.Context, filter string) (*model.Response, error)
	GetTransactionsBetweenDates(ctx context.Context, start, end time.Time) (*model.Response, error)
	GetTransactionByID(ctx context.Context, transactionID int64) (*model.Response, error)
	UpdateTransactionStatus(ctx context.Context, transactionID int64, status model.TransactionStatus) (*model.Response, error)

	AddRequest(ctx context.Context, in model.StockRequest) (*model.Response, error)
	GetAllRequests(ctx context.Context, filter string) (*model.Response, error)
	GetRequestByID(ctx context.Context, requestID int64) (*model.Response, error)
	UpdateRequestStatus(ctx context.Context, requestID int64, status model.RequestStatus) (*model.Response, error)
}

// SessionService is what the views need from the session store.
type SessionService interface {
	SessionAccess
	Logout(ctx context.Context) error
}

// DashboardBuilder assembles the dashboard for a month.
type DashboardBuilder interface {
	Build(ctx context.Context, year int, month time.Month) (service.Dashboard, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ InventoryAPI     = (*inventoryapi.Client)(nil)
	_ SessionService   = (*service.SessionStore)(nil)
	_ DashboardBuilder = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	API       InventoryAPI
	Sessions  SessionService
	Dashboard DashboardBuilder

	CookieDomain   string
	CookieSecure   bool
	MaxUploadBytes int64
	IsDev          bool // Development mode flag for enhanced error reporting
	Logger         *slog.Logger
	Now            func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *UIHandlers) uploadLimit() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultUploadBytes
}

// render writes a full page. A pending flash is attached unless the handler set one.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if _, ok := data["Flash"]; !ok {
		if f := consumeFlash(w, r, h.CookieDomain); f != nil {
			data["Flash"] = f
		}
	}
	if err := h.T.Render(w, status, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

// flashRedirect stores a one-shot message and sends the browser to path.
func (h *UIHandlers) flashRedirect(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	setFlash(w, viewmodel.Flash{Kind: kind, Message: message}, h.CookieDomain, h.CookieSecure)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// expireSession handles a backend 401: the stored token is no longer accepted,
// so the local session is cleared and the user signs in again.
func (h *UIHandlers) expireSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context()); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to clear rejected session", "error", err)
	}
	h.flashRedirect(w, r, "/login", flashError, msgSessionExpired)
}

// mutationFailed reports a failed write back to the page it came from. The
// backend's own message is preferred over the fallback.
func (h *UIHandlers) mutationFailed(w http.ResponseWriter, r *http.Request, err error, back, fallback string) {
	if inventoryapi.IsStatus(err, http.StatusUnauthorized) {
		h.expireSession(w, r)
		return
	}
	h.logger().WarnContext(r.Context(), "backend mutation failed", "path", r.URL.Path, "error", err)
	h.flashRedirect(w, r, back, flashError, inventoryapi.MessageFromError(err, fallback))
}

// renderError renders the error page for a failed backend read.
func (h *UIHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Classify(err)
	if appErr.Code == apperrors.ErrCodeUnauthorized {
		h.expireSession(w, r)
		return
	}
	if appErr.Code != apperrors.ErrCodeNotFound {
		h.logger().ErrorContext(r.Context(), "backend read failed", "path", r.URL.Path, "code", appErr.Code, "error", err)
	}
	data := NewTemplateData(r, PageMeta{Title: "Error", PageTitle: "Something went wrong", CurrentPage: PageError}).
		WithError(appErr.Message).
		With("Code", string(appErr.Code)).
		Build()
	h.render(w, r, apperrors.HTTPStatus(appErr.Code), data)
}

// NotFound renders a missing item.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, apperrors.NotFound("The requested item was not found."))
}

// pathID parses a positive numeric path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formID parses a positive numeric form value.
func formID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// queryID parses a positive numeric query value.
func queryID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// isAdmin reports the access level the guard established for this request.
func isAdmin(r *http.Request) bool {
	access, ok := AccessFromContext(r.Context())
	return ok && access == domainauth.AccessAdmin
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show detailed error in the response
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div style="padding: 20px; background: #fee; border: 2px solid #c33; border-radius: 4px; margin: 20px; font-family: monospace;">
				<h2 style="color: #c33; margin-top: 0;">Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<p><strong>Error:</strong></p>
				<pre style="background: #fff; padding: 10px; border: 1px solid #ccc; overflow-x: auto;">` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	// In production, show generic error
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
