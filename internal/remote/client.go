package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/arkiva/doc-registry/pkg/errors"
)

// RequestObserver receives timing for every remote call.
type RequestObserver interface {
	ObserveRemoteRequest(method, path string, status int, duration time.Duration)
}

// Options tunes a Client. Identity supplies the X-User-Name header value for
// each request; an empty result omits the header.
type Options struct {
	Timeout  time.Duration
	Identity func() string
	Logger   *zap.Logger
	Metrics  RequestObserver
}

// Client talks to the remote Document Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New constructs a Client with the identity/request-id/metrics transport
// chain installed.
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &transport{
				base:     http.DefaultTransport,
				identity: opts.Identity,
				logger:   logger,
				metrics:  opts.Metrics,
			},
		},
		logger: logger,
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getJSON issues a GET and decodes a 200 response body into dest.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	return c.doJSON(req, http.StatusOK, dest)
}

// postJSON issues a POST with a JSON body and decodes the response when dest
// is non-nil. Any status other than want is an error.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, want int, dest interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), bytes.NewReader(raw))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, want, dest)
}

// doJSON runs the request, enforces the expected status and decodes JSON.
func (c *Client) doJSON(req *http.Request, want int, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "remote service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMalformed.Code, appErrors.ErrMalformed.Status, "decode response")
	}
	return nil
}

// statusError carries the remote status text back to the caller.
func statusError(resp *http.Response) *appErrors.Error {
	msg := fmt.Sprintf("remote returned %s", resp.Status)
	if resp.StatusCode == http.StatusNotFound {
		return appErrors.Wrap(nil, appErrors.ErrNotFound.Code, resp.StatusCode, msg)
	}
	return appErrors.Wrap(nil, appErrors.ErrRemote.Code, resp.StatusCode, msg)
}
