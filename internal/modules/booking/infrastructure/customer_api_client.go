package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/domain"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// ShopifyBaseURL builds the versioned Admin REST base URL for a store domain.
func ShopifyBaseURL(storeDomain, apiVersion string) string {
	domainPart := strings.TrimRight(strings.TrimSpace(storeDomain), "/")
	version := strings.Trim(strings.TrimSpace(apiVersion), "/")
	if version == "" {
		version = "2024-01"
	}
	if !strings.Contains(domainPart, "://") {
		domainPart = "https://" + domainPart
	}
	return domainPart + "/admin/api/" + version
}

// CustomerAPIClient implements CustomerStore against the store's Admin REST
// customer endpoints.
type CustomerAPIClient struct {
	baseURL string
	token   string
	client  *http.Client
	timeout time.Duration
}

func NewCustomerAPIClient(baseURL, accessToken string, timeout time.Duration, client *http.Client) *CustomerAPIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &CustomerAPIClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(accessToken),
		client:  client,
		timeout: timeout,
	}
}

func (c *CustomerAPIClient) FetchCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.customerPath(id), nil)
	if err != nil {
		return nil, err
	}

	slog.Debug("customer fetch request", slog.String("url", req.URL.String()))
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch customer: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		slog.Error("customer fetch unexpected status",
			slog.Int("status", res.StatusCode),
			slog.String("customerId", id),
		)
		return nil, &port.StatusError{
			Op:         "fetch customer",
			StatusCode: res.StatusCode,
			Status:     http.StatusText(res.StatusCode),
		}
	}

	return decodeCustomer(res.Body)
}

func (c *CustomerAPIClient) UpdateCustomerTags(ctx context.Context, id, tags string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := map[string]any{
		"customer": map[string]any{
			"id":   id,
			"tags": tags,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode customer update: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, c.customerPath(id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("customer update request", slog.String("url", req.URL.String()), slog.String("tags", tags))
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update customer tags: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		slog.Error("customer update unexpected status",
			slog.Int("status", res.StatusCode),
			slog.String("customerId", id),
			slog.String("body", strings.TrimSpace(string(raw))),
		)
		return nil, &port.StatusError{
			Op:         "update customer tags",
			StatusCode: res.StatusCode,
			Status:     http.StatusText(res.StatusCode),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return decodeCustomer(res.Body)
}

func (c *CustomerAPIClient) customerPath(id string) string {
	return "/customers/" + url.PathEscape(strings.TrimSpace(id)) + ".json"
}

func (c *CustomerAPIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(accessTokenHeader, c.token)
	}
	return req, nil
}

func decodeCustomer(body io.Reader) (*domain.Customer, error) {
	var envelope struct {
		Customer map[string]any `json:"customer"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}

	customer := &domain.Customer{Record: envelope.Customer}
	if envelope.Customer == nil {
		customer.Record = map[string]any{}
		return customer, nil
	}
	if tags, ok := envelope.Customer["tags"].(string); ok {
		customer.Tags = tags
	}
	switch id := envelope.Customer["id"].(type) {
	case string:
		customer.ID = id
	case float64:
		customer.ID = fmt.Sprintf("%.0f", id)
	case json.Number:
		customer.ID = id.String()
	}
	return customer, nil
}

var _ port.CustomerStore = (*CustomerAPIClient)(nil)
