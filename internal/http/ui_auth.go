package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/domain/model"
	apperrors "github.com/target/ims-ui/internal/errors"
	"github.com/target/ims-ui/internal/http/validation"
)

// landingPath is where a fresh login goes when no return location was preserved.
func landingPath(role domainauth.Role) string {
	if role.IsAdmin() {
		return "/dashboard"
	}
	return "/requests"
}

// loginTarget picks the post-login destination. A preserved location wins
// unless it points back at the auth pages.
func loginTarget(redirectURI string, role domainauth.Role) string {
	if strings.TrimSpace(redirectURI) == "" {
		return landingPath(role)
	}
	target := safeRedirectPath(redirectURI)
	if target == "/" || strings.HasPrefix(target, "/login") || strings.HasPrefix(target, "/register") {
		return landingPath(role)
	}
	return target
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Login", PageTitle: "Login", CurrentPage: PageLogin}
}

// LoginPage renders the login form, keeping any preserved return location.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, loginView{RedirectURI: r.URL.Query().Get("redirect_uri")})
}

// unknownRoute renders the login view for paths no route claims.
func (h *UIHandlers) unknownRoute(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusNotFound, loginView{})
}

type loginView struct {
	Email       string
	RedirectURI string
	Errors      map[string]string
	Message     string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, v loginView) {
	b := NewTemplateData(r, loginMeta()).
		With("Email", v.Email).
		With("RedirectURI", v.RedirectURI).
		WithFieldErrors(v.Errors)
	if v.Message != "" {
		b.WithError(v.Message)
	}
	h.render(w, r, status, b.Build())
}

// Login authenticates against the backend. The façade persists the session;
// on failure the form is shown again with the backend's message.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginView{Message: "Invalid form submission."})
		return
	}
	req := model.LoginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	view := loginView{Email: req.Email, RedirectURI: r.PostFormValue("redirect_uri")}

	v := validation.New().Struct(req)
	if !v.Valid() {
		view.Errors = v.Errors()
		view.Message = errMsgFixBelow
		h.renderLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	resp, err := h.API.Login(r.Context(), req)
	if err != nil {
		appErr := apperrors.Classify(err)
		h.logger().InfoContext(r.Context(), "login failed", "code", appErr.Code, "error", err)
		view.Message = appErr.Message
		if view.Message == "" || appErr.Code == apperrors.ErrCodeUnavailable {
			view.Message = "Login failed. Please try again."
		}
		h.renderLogin(w, r, apperrors.HTTPStatus(appErr.Code), view)
		return
	}
	if resp == nil || resp.Token == "" {
		view.Message = "Login failed. Please try again."
		h.renderLogin(w, r, http.StatusBadGateway, view)
		return
	}

	message := resp.Message
	if message == "" || strings.EqualFold(message, "success") {
		message = "Login successful."
	}
	h.flashRedirect(w, r, loginTarget(view.RedirectURI, domainauth.Role(resp.Role)), flashSuccess, message)
}

type registerView struct {
	Name        string
	Email       string
	PhoneNumber string
	Errors      map[string]string
	Message     string
}

func (h *UIHandlers) renderRegister(w http.ResponseWriter, r *http.Request, status int, v registerView) {
	b := NewTemplateData(r, PageMeta{Title: "Register", PageTitle: "Register", CurrentPage: PageRegister}).
		With("Form", v).
		WithFieldErrors(v.Errors)
	if v.Message != "" {
		b.WithError(v.Message)
	}
	h.render(w, r, status, b.Build())
}

// RegisterPage renders the registration form.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, registerView{})
}

// Register creates an account and sends the user to the login page.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, http.StatusBadRequest, registerView{Message: "Invalid form submission."})
		return
	}
	req := model.RegisterRequest{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Password:    r.PostFormValue("password"),
	}
	view := registerView{Name: req.Name, Email: req.Email, PhoneNumber: req.PhoneNumber}

	v := validation.New().Struct(req)
	if !v.Valid() {
		view.Errors = v.Errors()
		view.Message = errMsgFixBelow
		h.renderRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	if _, err := h.API.Register(r.Context(), req); err != nil {
		appErr := apperrors.Classify(err)
		h.logger().InfoContext(r.Context(), "registration failed", "code", appErr.Code, "error", err)
		view.Message = appErr.Message
		if appErr.Code == apperrors.ErrCodeUnavailable {
			view.Message = "Registration failed. Please try again."
		}
		h.renderRegister(w, r, apperrors.HTTPStatus(appErr.Code), view)
		return
	}

	h.flashRedirect(w, r, "/login", flashSuccess, "Registration successful. Please sign in.")
}

// Logout clears the local session. The backend keeps no session to end.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context()); err != nil {
		h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		h.flashRedirect(w, r, "/login", flashError, "Logout failed. Please try again.")
		return
	}
	h.flashRedirect(w, r, "/login", flashSuccess, "You have been signed out.")
}
