package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/validation"
)

// listRequests returns every request for admins and the caller's own
// requests for everyone else.
func (h *UIHandlers) listRequests(r *http.Request, filter string) ([]model.Request, error) {
	if isAdmin(r) {
		resp, err := h.API.GetAllRequests(r.Context(), filter)
		if err != nil {
			return nil, err
		}
		return resp.Requests, nil
	}

	user, err := h.API.GetCurrentUser(r.Context())
	if err != nil {
		return nil, err
	}
	resp, err := h.API.GetUserRequests(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return resp.Requests, nil
	}
	return resp.User.Requests, nil
}

// matchRequest applies the free-text and status filters to one request. The
// per-user listing has no server-side filter, so the text match runs here.
func matchRequest(req model.Request, q string, status string) bool {
	if status != "" && string(req.RequestStatus) != status {
		return false
	}
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	fields := []string{req.Description, req.RequestType, string(req.RequestStatus), strconv.FormatInt(req.ID, 10)}
	if req.Product != nil {
		fields = append(fields, req.Product.Name, req.Product.SKU)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type requestFilter struct {
	Query  string
	Status string
}

func parseRequestFilter(r *http.Request) (requestFilter, map[string]string) {
	q := r.URL.Query()
	return requestFilter{
		Query:  strings.TrimSpace(q.Get("q")),
		Status: strings.ToUpper(strings.TrimSpace(q.Get("status"))),
	}, nil
}

// RequestsPage lists stock requests.
func (h *UIHandlers) RequestsPage(w http.ResponseWriter, r *http.Request) {
	admin := isAdmin(r)
	HandleList(ListHandlerOpts[model.Request, requestFilter]{
		Handler: h, W: w, R: r,
		FilterParser: parseRequestFilter,
		Fetcher: func(_ context.Context, f requestFilter) ([]model.Request, error) {
			return h.listRequests(r, f.Query)
		},
		Filter: func(all []model.Request, f requestFilter) []model.Request {
			// The admin listing was already searched by the backend.
			text := f.Query
			if admin {
				text = ""
			}
			filtered := make([]model.Request, 0, len(all))
			for _, req := range all {
				if matchRequest(req, text, f.Status) {
					filtered = append(filtered, req)
				}
			}
			return filtered
		},
		EnrichData: func(b *TemplateDataBuilder, _ []model.Request, f requestFilter) {
			b.With("Query", f.Query).
				With("Status", f.Status).
				With("Statuses", model.RequestStatuses())
		},
		PageMeta: PageMeta{Title: "Requests", PageTitle: "Requests", CurrentPage: PageRequests},
		ItemsKey: "Requests",
	})
}

type requestForm struct {
	ProductID   string
	Quantity    string
	Description string
}

func (h *UIHandlers) renderRequestForm(w http.ResponseWriter, r *http.Request, status int, form requestForm, errs map[string]string) {
	products, err := h.API.GetAllProducts(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	b := NewTemplateData(r, PageMeta{Title: "Add Request", PageTitle: "Add Request", CurrentPage: PageRequestForm}).
		With("Form", form).
		With("Products", products.Products).
		WithFieldErrors(errs)
	if len(errs) > 0 {
		b.WithError(errMsgFixBelow)
	}
	h.render(w, r, status, b.Build())
}

// AddRequestPage renders the stock request form.
func (h *UIHandlers) AddRequestPage(w http.ResponseWriter, r *http.Request) {
	h.renderRequestForm(w, r, http.StatusOK, requestForm{}, nil)
}

// AddRequest raises a stock request.
func (h *UIHandlers) AddRequest(w http.ResponseWriter, r *http.Request) {
	form := requestForm{
		ProductID:   strings.TrimSpace(r.PostFormValue("productId")),
		Quantity:    strings.TrimSpace(r.PostFormValue("quantity")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
	fv := validation.New().
		Validate("productId", form.ProductID, validation.PositiveInt("Product")).
		Validate("quantity", form.Quantity, validation.PositiveInt("Quantity")).
		Validate("description", form.Description, validation.Optional("Description", 1000))
	if !fv.Valid() {
		h.renderRequestForm(w, r, http.StatusUnprocessableEntity, form, fv.Errors())
		return
	}

	in := model.StockRequest{ProductID: formID(r, "productId"), Description: form.Description}
	in.Quantity, _ = strconv.Atoi(form.Quantity)
	if _, err := h.API.AddRequest(r.Context(), in); err != nil {
		h.mutationFailed(w, r, err, "/add-request", "Error adding request.")
		return
	}
	h.flashRedirect(w, r, "/requests", flashSuccess, "Request submitted.")
}

// RequestPage shows one request. Admins also get the status form.
func (h *UIHandlers) RequestPage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "requestId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	resp, err := h.API.GetRequestByID(r.Context(), requestID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if resp.Request == nil {
		h.NotFound(w, r)
		return
	}
	data := NewTemplateData(r, PageMeta{
		Title:       fmt.Sprintf("Request #%d", requestID),
		PageTitle:   "Request Details",
		CurrentPage: PageRequest,
	}).
		With("Request", resp.Request).
		With("Statuses", model.RequestStatuses()).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// UpdateRequestStatus approves or rejects a request.
func (h *UIHandlers) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "requestId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	back := fmt.Sprintf("/request/%d", requestID)

	status := strings.ToUpper(strings.TrimSpace(r.PostFormValue("status")))
	options := make([]string, 0, len(model.RequestStatuses()))
	for _, s := range model.RequestStatuses() {
		options = append(options, string(s))
	}
	if msg := validation.OneOf("Status", options)(status); msg != "" {
		h.flashRedirect(w, r, back, flashError, msg)
		return
	}

	if _, err := h.API.UpdateRequestStatus(r.Context(), requestID, model.RequestStatus(status)); err != nil {
		h.mutationFailed(w, r, err, back, "Error updating request status.")
		return
	}
	h.flashRedirect(w, r, back, flashSuccess, "Request status updated.")
}
