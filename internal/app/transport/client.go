/*
Package transport is the console's adapter to the backend API.

Every endpoint goes through Client.Call, which encodes the request, decodes the
response and checks its shape. Failures come back as *RequestError; no call is ever
retried.
*/
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"shopreco/internal/app/shop"
	"shopreco/internal/pkg/logx"
	"shopreco/internal/pkg/metrics"
	"shopreco/internal/pkg/randx"
)

const maxResponseBytes = 4 << 20

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New returns a Client for baseURL (e.g. "http://localhost:8080"). timeout bounds
// each whole request; zero means no limit.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logx.For("transport"),
	}
}

// Call performs one request. body, when non-nil, is sent as JSON. out receives the
// decoded response and is validated against its struct tags.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any) error {
	start := time.Now()
	err := c.call(ctx, method, endpoint, body, out)

	outcome := "ok"
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		outcome = string(reqErr.Kind)
	}
	label := metricLabel(endpoint)
	metrics.BackendCallsTotal.WithLabelValues(label, outcome).Inc()
	metrics.BackendCallDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	return err
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	fail := func(kind Kind, status int, msg string, cause error) error {
		return &RequestError{Kind: kind, Method: method, Endpoint: endpoint, StatusCode: status, Message: msg, Err: cause}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(KindDecode, 0, "", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fail(KindNetwork, 0, "", err)
	}

	requestID := randx.RequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("endpoint", endpoint).
		Msg("Backend call")

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(KindNetwork, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(KindNetwork, resp.StatusCode, "", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env envelope
	envErr := json.Unmarshal(data, &env)
	if envErr == nil && env.Status == shop.StatusError {
		return fail(KindReported, resp.StatusCode, env.Message, nil)
	}
	if !ok {
		return fail(KindStatus, resp.StatusCode, env.Message, nil)
	}
	if envErr != nil {
		return fail(KindDecode, resp.StatusCode, "", envErr)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail(KindDecode, resp.StatusCode, "", err)
	}
	if err := validate.Struct(out); err != nil {
		return fail(KindDecode, resp.StatusCode, "", err)
	}
	if rb, ok := out.(reportingBody); ok {
		if msg, failed := rb.failure(); failed {
			return fail(KindReported, resp.StatusCode, msg, nil)
		}
	}

	return nil
}

// metricLabel strips the per-user path segment and the query so the label set
// stays bounded.
func metricLabel(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	for _, prefix := range []string{"/api/user-history/", "/api/recommendations/"} {
		if strings.HasPrefix(endpoint, prefix) {
			return prefix + "{userId}"
		}
	}
	return endpoint
}

// ListUsers calls GET /api/users.
func (c *Client) ListUsers(ctx context.Context) ([]shop.UserID, error) {
	var body usersBody
	if err := c.Call(ctx, http.MethodGet, "/api/users", nil, &body); err != nil {
		return nil, err
	}
	return body.Users, nil
}

// CreateUser calls POST /api/add-user.
func (c *Client) CreateUser(ctx context.Context, id shop.UserID) error {
	var body statusBody
	return c.Call(ctx, http.MethodPost, "/api/add-user", shop.CreateUserRequest{UserID: id}, &body)
}

// UserHistory calls GET /api/user-history/{userId}.
func (c *Client) UserHistory(ctx context.Context, id shop.UserID) ([]shop.PurchaseItem, error) {
	var body historyBody
	if err := c.Call(ctx, http.MethodGet, "/api/user-history/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, err
	}
	return items(body.History), nil
}

// Recommendations calls GET /api/recommendations/{userId}?n={count}.
func (c *Client) Recommendations(ctx context.Context, id shop.UserID, count int) ([]shop.RecommendationItem, error) {
	endpoint := "/api/recommendations/" + url.PathEscape(id) + "?n=" + strconv.Itoa(count)

	var body recommendationsBody
	if err := c.Call(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, err
	}

	out := make([]shop.RecommendationItem, len(body.Recommendations))
	for i, w := range body.Recommendations {
		out[i] = w.recommendation()
	}
	return out, nil
}

// AddPurchase calls POST /api/add-purchase.
func (c *Client) AddPurchase(ctx context.Context, id shop.UserID, sku string) error {
	var body statusBody
	return c.Call(ctx, http.MethodPost, "/api/add-purchase", shop.AddPurchaseRequest{UserID: id, SKU: sku}, &body)
}

// Products calls GET /api/products.
func (c *Client) Products(ctx context.Context) ([]shop.CatalogItem, error) {
	var body productsBody
	if err := c.Call(ctx, http.MethodGet, "/api/products", nil, &body); err != nil {
		return nil, err
	}
	return items(body.Products), nil
}
