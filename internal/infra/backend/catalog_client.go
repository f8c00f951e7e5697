package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"tmgear/internal/domain/model"
	repo "tmgear/internal/repository"

	"github.com/sony/gobreaker/v2"
)

type CatalogClient struct {
	*Client
	cb *gobreaker.CircuitBreaker[[]byte]
}

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{
		Client: c,
		cb:     newBreaker[[]byte]("catalog", c.log),
	}
}

func (c *CatalogClient) ListAll(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.getJSON(ctx, "/products/all", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), &out); err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (c *CatalogClient) ListByShop(ctx context.Context, shopID int64) ([]model.Product, error) {
	var out []model.Product
	if err := c.getJSON(ctx, "/products/shop/"+strconv.FormatInt(shopID, 10), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, out interface{}) error {
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		code, body, err := c.do(req)
		if err != nil {
			return nil, err
		}

		switch {
		case code == http.StatusNotFound:
			return nil, repo.ErrNotFound
		case code >= 200 && code < 300:
			return body, nil
		default:
			return nil, newStatusError(code, body)
		}
	})
	if err != nil {
		if IsUnavailable(err) {
			return fmt.Errorf("catalog unavailable: %w", err)
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}
