package inventoryapi

import (
	"context"
	"net/http"

	"github.com/target/ims-ui/internal/domain/model"
)

func (c *Client) CreateSupplier(ctx context.Context, in model.Supplier) (*model.Response, error) {
	return c.do(ctx, call{op: "create_supplier", method: http.MethodPost, path: endpoint("suppliers/add"), body: in})
}

func (c *Client) GetAllSuppliers(ctx context.Context) (*model.Response, error) {
	return c.do(ctx, call{op: "get_all_suppliers", method: http.MethodGet, path: endpoint("suppliers/all")})
}

func (c *Client) GetSupplierByID(ctx context.Context, supplierID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "get_supplier", method: http.MethodGet, path: endpoint("suppliers", id(supplierID))})
}

func (c *Client) UpdateSupplier(ctx context.Context, supplierID int64, in model.Supplier) (*model.Response, error) {
	return c.do(ctx, call{op: "update_supplier", method: http.MethodPut, path: endpoint("suppliers/update", id(supplierID)), body: in})
}

func (c *Client) DeleteSupplier(ctx context.Context, supplierID int64) (*model.Response, error) {
	return c.do(ctx, call{op: "delete_supplier", method: http.MethodDelete, path: endpoint("suppliers/delete", id(supplierID))})
}
