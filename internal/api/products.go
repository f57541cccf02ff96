package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/farmhub/client-go/internal/models"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct validates client-side before submitting. The server
// re-validates and stays authoritative.
func (c *Client) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, product models.Product) (*models.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+id, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// SavedProducts resolves a saved-id list by fetching each product. Ids
// that no longer resolve are skipped, a saved product may have been
// deleted by its farmer since it was saved. Order of ids is preserved.
func (c *Client) SavedProducts(ctx context.Context, ids []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := c.Product(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}
