package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/validation"
)

// SuppliersPage lists suppliers.
func (h *UIHandlers) SuppliersPage(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Supplier, struct{}]{
		Handler: h, W: w, R: r,
		Fetcher: func(ctx context.Context, _ struct{}) ([]model.Supplier, error) {
			resp, err := h.API.GetAllSuppliers(ctx)
			if err != nil {
				return nil, err
			}
			return resp.Suppliers, nil
		},
		PageMeta: PageMeta{Title: "Suppliers", PageTitle: "Suppliers", CurrentPage: PageSuppliers},
		ItemsKey: "Suppliers",
	})
}

type supplierFormView struct {
	Mode     FormMode
	Action   string
	Supplier model.Supplier
}

func (h *UIHandlers) renderSupplierForm(w http.ResponseWriter, r *http.Request, status int, v supplierFormView, errs map[string]string) {
	title := "Add Supplier"
	if v.Mode == FormModeEdit {
		title = "Edit Supplier"
	}
	b := NewTemplateData(r, PageMeta{Title: title, PageTitle: title, CurrentPage: PageSupplierForm}).
		With("View", v).
		WithFieldErrors(errs)
	if len(errs) > 0 {
		b.WithError(errMsgFixBelow)
	}
	h.render(w, r, status, b.Build())
}

// AddSupplierPage renders an empty supplier form.
func (h *UIHandlers) AddSupplierPage(w http.ResponseWriter, r *http.Request) {
	h.renderSupplierForm(w, r, http.StatusOK, supplierFormView{Mode: FormModeCreate, Action: "/add-supplier"}, nil)
}

// EditSupplierPage renders the supplier form filled from the backend.
func (h *UIHandlers) EditSupplierPage(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(r, "supplierId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	resp, err := h.API.GetSupplierByID(r.Context(), supplierID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if resp.Supplier == nil {
		h.NotFound(w, r)
		return
	}
	h.renderSupplierForm(w, r, http.StatusOK, supplierFormView{
		Mode:     FormModeEdit,
		Action:   fmt.Sprintf("/edit-supplier/%d", supplierID),
		Supplier: *resp.Supplier,
	}, nil)
}

// AddSupplier creates a supplier.
func (h *UIHandlers) AddSupplier(w http.ResponseWriter, r *http.Request) {
	h.saveSupplier(w, r, supplierFormView{Mode: FormModeCreate, Action: "/add-supplier"})
}

// UpdateSupplier updates a supplier.
func (h *UIHandlers) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(r, "supplierId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.saveSupplier(w, r, supplierFormView{
		Mode:     FormModeEdit,
		Action:   fmt.Sprintf("/edit-supplier/%d", supplierID),
		Supplier: model.Supplier{ID: supplierID},
	})
}

func (h *UIHandlers) saveSupplier(w http.ResponseWriter, r *http.Request, v supplierFormView) {
	v.Supplier.Name = strings.TrimSpace(r.PostFormValue("name"))
	v.Supplier.ContactInfo = strings.TrimSpace(r.PostFormValue("contactInfo"))
	v.Supplier.Address = strings.TrimSpace(r.PostFormValue("address"))

	fv := validation.New().
		Validate("name", v.Supplier.Name, validation.Required("Supplier name", 255)).
		Validate("contactInfo", v.Supplier.ContactInfo, validation.Required("Contact info", 255)).
		Validate("address", v.Supplier.Address, validation.Required("Address", 500))
	if !fv.Valid() {
		h.renderSupplierForm(w, r, http.StatusUnprocessableEntity, v, fv.Errors())
		return
	}

	var err error
	success := "Supplier added."
	if v.Mode == FormModeEdit {
		_, err = h.API.UpdateSupplier(r.Context(), v.Supplier.ID, v.Supplier)
		success = "Supplier updated."
	} else {
		_, err = h.API.CreateSupplier(r.Context(), v.Supplier)
	}
	if err != nil {
		h.mutationFailed(w, r, err, v.Action, "Error saving supplier.")
		return
	}
	h.flashRedirect(w, r, "/supplier", flashSuccess, success)
}

// DeleteSupplier removes a supplier.
func (h *UIHandlers) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(r, "supplierId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	if _, err := h.API.DeleteSupplier(r.Context(), supplierID); err != nil {
		h.mutationFailed(w, r, err, "/supplier", "Error deleting supplier.")
		return
	}
	h.flashRedirect(w, r, "/supplier", flashSuccess, "Supplier deleted.")
}
