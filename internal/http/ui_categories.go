package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/validation"
)

const categoryNameMax = 255

// CategoriesPage lists categories with inline create, rename and delete.
func (h *UIHandlers) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	editing, _ := queryID(r, "edit")
	HandleList(ListHandlerOpts[model.Category, struct{}]{
		Handler: h, W: w, R: r,
		Fetcher: func(ctx context.Context, _ struct{}) ([]model.Category, error) {
			resp, err := h.API.GetAllCategories(ctx)
			if err != nil {
				return nil, err
			}
			return resp.Categories, nil
		},
		EnrichData: func(b *TemplateDataBuilder, _ []model.Category, _ struct{}) {
			b.With("EditingID", editing)
		},
		PageMeta: PageMeta{Title: "Categories", PageTitle: "Categories", CurrentPage: PageCategories},
		ItemsKey: "Categories",
	})
}

func categoryFromForm(r *http.Request) (model.Category, map[string]string) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	v := validation.New().Validate("name", name, validation.Required("Category name", categoryNameMax))
	return model.Category{Name: name}, v.Errors()
}

// CreateCategory adds a category.
func (h *UIHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	cat, errs := categoryFromForm(r)
	if len(errs) > 0 {
		h.flashRedirect(w, r, "/category", flashError, errs["name"])
		return
	}
	if _, err := h.API.CreateCategory(r.Context(), cat); err != nil {
		h.mutationFailed(w, r, err, "/category", "Error saving category.")
		return
	}
	h.flashRedirect(w, r, "/category", flashSuccess, "Category added.")
}

// UpdateCategory renames a category.
func (h *UIHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	cat, errs := categoryFromForm(r)
	if len(errs) > 0 {
		h.flashRedirect(w, r, "/category", flashError, errs["name"])
		return
	}
	cat.ID = categoryID
	if _, err := h.API.UpdateCategory(r.Context(), categoryID, cat); err != nil {
		h.mutationFailed(w, r, err, "/category", "Error updating category.")
		return
	}
	h.flashRedirect(w, r, "/category", flashSuccess, "Category updated.")
}

// DeleteCategory removes a category.
func (h *UIHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	if _, err := h.API.DeleteCategory(r.Context(), categoryID); err != nil {
		h.mutationFailed(w, r, err, "/category", "Error deleting category.")
		return
	}
	h.flashRedirect(w, r, "/category", flashSuccess, "Category deleted.")
}
