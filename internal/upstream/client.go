package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"blackphoenix/internal/models"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 16 << 20

var (
	// ErrUnsuccessful is returned when the backend answers with success=false.
	ErrUnsuccessful = errors.New("upstream reported success=false")
	// ErrMalformed is returned when a response cannot be read at all.
	ErrMalformed = errors.New("malformed upstream response")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// OrderQuery filters GET /api/orders. Zero values are omitted.
type OrderQuery struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	Page          int
	Limit         int
}

func (q OrderQuery) Values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.PaymentStatus != "" {
		v.Set("paymentStatus", string(q.PaymentStatus))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// Client talks to the existing REST backend. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Orders fetches one page of orders. A missing or non-list data field yields
// an empty slice; list elements that are not objects are dropped.
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]models.OrderRecord, error) {
	env, err := c.getEnvelope(ctx, "/api/orders", q.Values())
	if err != nil {
		return nil, err
	}

	orders, dropped := decodeList[models.OrderRecord](env.Data)
	if dropped > 0 {
		c.log.Warn("dropped malformed orders", "count", dropped)
	}
	return orders, nil
}

func (c *Client) Stats(ctx context.Context) (*models.OrderStats, error) {
	env, err := c.getEnvelope(ctx, "/api/orders/stats", nil)
	if err != nil {
		return nil, err
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("stats: %w", ErrMalformed)
	}
	var stats models.OrderStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("stats: %w: %v", ErrMalformed, err)
	}
	return &stats, nil
}

// Products lists the catalogue. The endpoint answers with a bare array,
// {"products": [...]} or {"data": [...]}; anything else is an empty list.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	body, err := c.get(ctx, "/api/product", nil)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var wrapped struct {
			Products json.RawMessage `json:"products"`
			Data     json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("products: %w: %v", ErrMalformed, err)
		}
		body = wrapped.Products
		if !isList(body) {
			body = wrapped.Data
		}
	}

	products, dropped := decodeList[models.Product](body)
	if dropped > 0 {
		c.log.Warn("dropped malformed products", "count", dropped)
	}
	return products, nil
}

func (c *Client) getEnvelope(ctx context.Context, path string, query url.Values) (*envelope, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	if !env.Success {
		if env.Message != "" {
			return nil, fmt.Errorf("%s: %w: %s", path, ErrUnsuccessful, env.Message)
		}
		return nil, fmt.Errorf("%s: %w", path, ErrUnsuccessful)
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	c.log.Debug("upstream request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"latency", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func isList(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// decodeList decodes a JSON array element by element so one bad element does
// not discard the rest. Non-list input decodes to an empty slice.
func decodeList[T any](raw []byte) ([]T, int) {
	out := []T{}
	if !isList(raw) {
		return out, 0
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out, 0
	}

	dropped := 0
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}
