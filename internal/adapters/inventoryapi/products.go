package inventoryapi

import (
	"context"
	"net/http"

	"github.com/target/ims-ui/internal/domain/model"
)

// AddProduct creates a product from a multipart form (image optional).
func (c *Client) AddProduct(ctx context.Context, form model.ProductForm) (*model.Response, error) {
	return c.do(ctx, call{op: "add_product", method: http.MethodPost, path: endpoint("products/add"), form: productMultipart(form)})
}

// UpdateProduct updates the product identified by form.ProductID.
func (c *Client) UpdateProduct(ctx context.Context, form model.ProductForm) (*model.Response, error) {
	return c.do(ctx, call{op: "update_product", method: http.MethodPut, path: endpoint("products/update"), form: productMultipart(form)})
}

func (c *Client) GetAllProducts(ctx context.Context) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_products", method: http.MethodGet, path: endpoint("products/all")})
}

func (c *Client) GetProductByID(ctx context.Context, productID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_product", method: http.MethodGet, path: endpoint("products", id(productID))})
}

func (c *Client) DeleteProduct(ctx context.Context, productID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "delete_product", method: http.MethodDelete, path: endpoint("products/delete", id(productID))})
}

// SearchProducts performs the backend's free-text product search.
func (c *Client) SearchProducts(ctx context.Context, q string) (*model.Response, error) {
	return c.do(ctx, call{op: "search_products", method: http.MethodGet, path: endpoint("products/search", q)})
}

func (c *Client) GetProductsByCategory(ctx context.Context, categoryID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_products_by_category", method: http.MethodGet, path: endpoint("products/category", id(categoryID))})
}
