// Package addressclient calls the address service on behalf of the blog API.
package addressclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogmesh/internal/dto"
	"blogmesh/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

var (
	// ErrNotFound means the user has no address.
	ErrNotFound = errors.New("address not found")
	// ErrUnavailable means the address service could not answer.
	ErrUnavailable = errors.New("address service unavailable")
)

// DefaultTimeout bounds every call when no timeout is configured.
const DefaultTimeout = 3 * time.Second

// Client is what the blog API needs from the address service.
type Client interface {
	GetByUserID(ctx context.Context, userID uint) (*dto.Address, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// HTTPClient talks to the address service over HTTP.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient returns a client for the address service rooted at baseURL,
// e.g. http://address:8081/address/api.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) userURL(userID uint) string {
	return fmt.Sprintf("%s/userId/%d", c.baseURL, userID)
}

// GetByUserID fetches the address owned by userID.
func (c *HTTPClient) GetByUserID(ctx context.Context, userID uint) (addr *dto.Address, err error) {
	done := observability.TrackAddressCall("get_by_user_id")
	ctx, span := observability.StartClientSpan(ctx, "addressclient", "GetByUserID", attribute.Int64("user.id", int64(userID)))
	defer func() {
		done(outcome(err))
		observability.EndSpan(span, ignoreNotFound(err))
	}()

	body, err := c.do(ctx, http.MethodGet, c.userURL(userID))
	if err != nil {
		return nil, err
	}

	var out dto.Address
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode address: %v", ErrUnavailable, err)
	}
	return &out, nil
}

// DeleteByUserID removes the address owned by userID.
func (c *HTTPClient) DeleteByUserID(ctx context.Context, userID uint) (err error) {
	done := observability.TrackAddressCall("delete_by_user_id")
	ctx, span := observability.StartClientSpan(ctx, "addressclient", "DeleteByUserID", attribute.Int64("user.id", int64(userID)))
	defer func() {
		done(outcome(err))
		observability.EndSpan(span, ignoreNotFound(err))
	}()

	_, err = c.do(ctx, http.MethodDelete, c.userURL(userID))
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	observability.InjectHeaders(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	default:
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, url, resp.StatusCode)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
