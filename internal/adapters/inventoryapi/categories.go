package inventoryapi

import (
	"context"
	"net/http"

	"github.com/target/ims-ui/internal/domain/model"
)

func (c *Client) CreateCategory(ctx context.Context, in model.Category) (*model.Response, error) {
	return c.do(ctx, call{op: "create_category", method: http.MethodPost, path: endpoint("categories/add"), body: in})
}

func (c *Client) GetAllCategories(ctx context.Context) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_categories", method: http.MethodGet, path: endpoint("categories/all")})
}

func (c *Client) GetCategoryByID(ctx context.Context, categoryID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_category", method: http.MethodGet, path: endpoint("categories", id(categoryID))})
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID int64, in model.Category) (*model.Response, error) {
	return c.do(ctx, call{op: "update_category", method: http.MethodPut, path: endpoint("categories/update", id(categoryID)), body: in})
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "delete_category", method: http.MethodDelete, path: endpoint("categories/delete", id(categoryID))})
}
