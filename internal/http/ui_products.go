package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/ims-ui/internal/domain/model"
	"github.com/target/ims-ui/internal/http/validation"
)

// ProductsPage lists products, optionally narrowed by ?q=.
func (h *UIHandlers) ProductsPage(w http.ResponseWriter, r *http.Request) {
	HandleList(ListHandlerOpts[model.Product, string]{
		Handler: h, W: w, R: r,
		FilterParser: func(r *http.Request) (string, map[string]string) {
			return strings.TrimSpace(r.URL.Query().Get("q")), nil
		},
		Fetcher: func(ctx context.Context, q string) ([]model.Product, error) {
			var (
				resp *model.Response
				err  error
			)
			if q != "" {
				resp, err = h.API.SearchProducts(ctx, q)
			} else {
				resp, err = h.API.GetAllProducts(ctx)
			}
			if err != nil {
				return nil, err
			}
			return resp.Products, nil
		},
		EnrichData: func(b *TemplateDataBuilder, _ []model.Product, q string) {
			b.With("Query", q)
		},
		PageMeta: PageMeta{Title: "Products", PageTitle: "Products", CurrentPage: PageProducts},
		ItemsKey: "Products",
	})
}

// ProductsByCategoryPage lists the products of one category.
func (h *UIHandlers) ProductsByCategoryPage(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	resp, err := h.API.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	title := "Products"
	if cat, catErr := h.API.GetCategoryByID(r.Context(), categoryID); catErr == nil && cat.Category != nil {
		title = "Products in " + cat.Category.Name
	}

	items, page := paginateSlice(r, resp.Products)
	data := NewTemplateData(r, PageMeta{Title: title, PageTitle: title, CurrentPage: PageProductsByCategory}).
		With("Products", items).
		WithPagination(page).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// DeleteProduct removes a product and returns to the list.
func (h *UIHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	if _, err := h.API.DeleteProduct(r.Context(), productID); err != nil {
		h.mutationFailed(w, r, err, "/product", "Error deleting product.")
		return
	}
	h.flashRedirect(w, r, "/product", flashSuccess, "Product deleted.")
}

type productFormView struct {
	Mode     FormMode
	Action   string
	Form     model.ProductForm
	ImageURL string
}

func (h *UIHandlers) renderProductForm(w http.ResponseWriter, r *http.Request, status int, v productFormView, errs map[string]string) {
	title := "Add Product"
	if v.Mode == FormModeEdit {
		title = "Edit Product"
	}
	b := NewTemplateData(r, PageMeta{Title: title, PageTitle: title, CurrentPage: PageProductForm}).
		With("View", v).
		WithFieldErrors(errs)

	cats, err := h.API.GetAllCategories(r.Context())
	if err != nil {
		h.logger().WarnContext(r.Context(), "categories unavailable for product form", "error", err)
		b.WithError("Categories could not be loaded.")
	} else {
		b.With("Categories", cats.Categories)
	}
	if len(errs) > 0 {
		b.WithError(errMsgFixBelow)
	}
	h.render(w, r, status, b.Build())
}

// AddProductPage renders an empty product form.
func (h *UIHandlers) AddProductPage(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, http.StatusOK, productFormView{Mode: FormModeCreate, Action: "/add-product"}, nil)
}

// EditProductPage renders the product form filled from the backend.
func (h *UIHandlers) EditProductPage(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	resp, err := h.API.GetProductByID(r.Context(), productID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if resp.Product == nil {
		h.NotFound(w, r)
		return
	}
	p := resp.Product
	v := productFormView{
		Mode:     FormModeEdit,
		Action:   fmt.Sprintf("/edit-product/%d", productID),
		ImageURL: p.ImageURL,
		Form: model.ProductForm{
			ProductID:     productID,
			Name:          p.Name,
			SKU:           p.SKU,
			Price:         strconv.FormatFloat(p.Price, 'f', -1, 64),
			StockQuantity: strconv.Itoa(p.StockQuantity),
			CategoryID:    strconv.FormatInt(p.CategoryID, 10),
			Description:   p.Description,
		},
	}
	h.renderProductForm(w, r, http.StatusOK, v, nil)
}

// AddProduct creates a product from the multipart form.
func (h *UIHandlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, productFormView{Mode: FormModeCreate, Action: "/add-product"})
}

// UpdateProduct updates a product from the multipart form.
func (h *UIHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.saveProduct(w, r, productFormView{
		Mode:   FormModeEdit,
		Action: fmt.Sprintf("/edit-product/%d", productID),
		Form:   model.ProductForm{ProductID: productID},
	})
}

func (h *UIHandlers) saveProduct(w http.ResponseWriter, r *http.Request, v productFormView) {
	if err := h.parseMultipart(r); err != nil {
		h.renderProductForm(w, r, http.StatusBadRequest, v, map[string]string{"imageFile": uploadErrorMessage(err)})
		return
	}
	v.Form.Name = strings.TrimSpace(r.PostFormValue("name"))
	v.Form.SKU = strings.TrimSpace(r.PostFormValue("sku"))
	v.Form.Price = strings.TrimSpace(r.PostFormValue("price"))
	v.Form.StockQuantity = strings.TrimSpace(r.PostFormValue("stockQuantity"))
	v.Form.CategoryID = strings.TrimSpace(r.PostFormValue("categoryId"))
	v.Form.Description = strings.TrimSpace(r.PostFormValue("description"))
	v.ImageURL = r.PostFormValue("imageUrl")

	fv := validation.New().Struct(v.Form)
	image, err := h.readUpload(r, "imageFile")
	if err != nil {
		fv.Validate("imageFile", "", func(string) string { return uploadErrorMessage(err) })
	}
	if !fv.Valid() {
		h.renderProductForm(w, r, http.StatusUnprocessableEntity, v, fv.Errors())
		return
	}
	v.Form.Image = image

	var (
		call    = h.API.AddProduct
		success = "Product added."
		back    = "/add-product"
	)
	if v.Mode == FormModeEdit {
		call = h.API.UpdateProduct
		success = "Product updated."
		back = v.Action
	}
	if _, err := call(r.Context(), v.Form); err != nil {
		h.mutationFailed(w, r, err, back, "Error saving product.")
		return
	}
	h.flashRedirect(w, r, "/product", flashSuccess, success)
}

var errNotImage = errors.New("upload is not an image")

// parseMultipart parses a form that may or may not carry files.
func (h *UIHandlers) parseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(h.uploadLimit())
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readUpload returns the optional image in field. A missing file is not an error.
func (h *UIHandlers) readUpload(r *http.Request, field string) (*model.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readImage(file, header, h.uploadLimit())
}

func readImage(file multipart.File, header *multipart.FileHeader, limit int64) (*model.Upload, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotImage
	}
	return &model.Upload{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

func uploadErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "The image is too large."
	case errors.Is(err, errNotImage):
		return "The file must be an image."
	default:
		return "The upload could not be read."
	}
}
