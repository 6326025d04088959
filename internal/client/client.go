package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/iyhunko/product-catalog/internal/model"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
}

// Client talks JSON to the products resource of the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the products resource at baseURL,
// e.g. http://localhost:8080/api/products. A nil httpClient means
// http.DefaultClient, so requests are bounded only by ctx.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListProducts returns every product, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products := []*model.Product{}
	if err := c.do(ctx, http.MethodGet, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct stores a new product.
func (c *Client) CreateProduct(ctx context.Context, fields model.ProductFields) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "", fields, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces the product with the given id.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields model.ProductFields) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, itemPath(id), fields, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product and returns it.
func (c *Client) DeleteProduct(ctx context.Context, id string) (*model.Product, error) {
	var resp struct {
		Message string         `json:"message"`
		Product *model.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

func itemPath(id string) string {
	return "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call catalog API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		// a body that is not JSON leaves the generic message in place
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Message
			apiErr.Detail = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
