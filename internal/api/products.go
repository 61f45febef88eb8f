package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/projectbar/barweb/internal/models"
)

// CreateProductRequest is the staff product-creation payload.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Code        string          `json:"code" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       float64         `json:"price" validate:"required,gt=0"`
	IsPrepared  bool            `json:"isPrepared"`
	Category    models.Category `json:"category" validate:"required"`
}

// AllProducts fetches the full menu.
func (c *Client) AllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/api/product/all", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductByID(ctx context.Context, id int) (models.ProductDetail, error) {
	var p models.ProductDetail
	if err := c.get(ctx, fmt.Sprintf("/api/product/%d", id), &p); err != nil {
		return models.ProductDetail{}, err
	}
	return p, nil
}

func (c *Client) ProductByCode(ctx context.Context, code string) (models.ProductDetail, error) {
	var p models.ProductDetail
	if err := c.get(ctx, "/api/product/find-by-code/"+url.PathEscape(code), &p); err != nil {
		return models.ProductDetail{}, err
	}
	return p, nil
}

func (c *Client) ProductsByName(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/api/product/find-by-name/"+url.PathEscape(name), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategory fetches one category of the menu. The backend matches
// categories in upper case only.
func (c *Client) ProductsByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	upper := strings.ToUpper(string(category))
	var products []models.Product
	if err := c.get(ctx, "/api/product/find-by-category/"+url.PathEscape(upper), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SaveProduct(ctx context.Context, req CreateProductRequest) (models.ProductDetail, error) {
	if err := validate.Struct(req); err != nil {
		return models.ProductDetail{}, fmt.Errorf("invalid product: %w", err)
	}
	var p models.ProductDetail
	if err := c.post(ctx, "/api/product/save", req, &p); err != nil {
		return models.ProductDetail{}, err
	}
	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, product models.ProductDetail) (models.ProductDetail, error) {
	var p models.ProductDetail
	if err := c.put(ctx, "/api/product/update", product, &p); err != nil {
		return models.ProductDetail{}, err
	}
	return p, nil
}

// DeleteProduct removes a product by its code, not its numeric id.
func (c *Client) DeleteProduct(ctx context.Context, code string) error {
	return c.del(ctx, "/api/product/delete/"+url.PathEscape(code))
}

// Inventory fetches current stock levels.
func (c *Client) Inventory(ctx context.Context) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	if err := c.get(ctx, "/api/inventory/all", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ingredients fetches the ingredient catalog.
func (c *Client) Ingredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := c.get(ctx, "/api/ingredient/all", &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}
