package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

// HTTPClient ходит в REST API каталога
type HTTPClient struct {
	BaseURL *url.URL
	Client  *http.Client
	Logger  *zap.SugaredLogger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) (*HTTPClient, error) {
	// без завершающего слэша относительные пути "products/1" отрежут последний сегмент
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("bad catalog url %q: %w", baseURL, err)
	}

	return &HTTPClient{
		BaseURL: u,
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
	}, nil
}

// GetProduct - GET products/{id}
func (c *HTTPClient) GetProduct(ctx context.Context, id int) (*product.Product, error) {
	var p product.Product
	if err := c.get(ctx, "products/"+strconv.Itoa(id), &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetStock - GET stock/{id}
func (c *HTTPClient) GetStock(ctx context.Context, id int) (*product.Stock, error) {
	var s product.Stock
	if err := c.get(ctx, "stock/"+strconv.Itoa(id), &s); err != nil {
		return nil, err
	}

	return &s, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, dst interface{}) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("%w: bad path %q", myErr.ErrCatalog, path)
	}
	endpoint := c.BaseURL.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", myErr.ErrCatalog, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Logger.Errorw("catalog request failed", "url", endpoint, "err", err)
		return fmt.Errorf("%w: %v", myErr.ErrCatalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, myErr.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Warnw("unexpected catalog status", "url", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s returned %d", myErr.ErrCatalog, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.Logger.Errorw("failed to decode catalog response", "url", endpoint, "err", err)
		return fmt.Errorf("%w: decode %s: %v", myErr.ErrCatalog, path, err)
	}

	return nil
}
