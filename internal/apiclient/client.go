// Package apiclient is the single way the gateway talks to the storefront
// REST API. Every call goes through Retry, carries the caller's bearer token
// and comes back as a normalised domain.APIResult.
package apiclient

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

	"github.com/sovannvath/storefront-gateway/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseBytes = 8 << 20

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retry     RetryPolicy
	Transport http.RoundTripper
}

// Client implements domain.StorefrontAPI over HTTP
type Client struct {
	baseURL *url.URL
	http    *http.Client
	retry   RetryPolicy
	logger  *zap.Logger
}

var _ domain.StorefrontAPI = (*Client)(nil)

// New creates a client for the API rooted at opts.BaseURL
func New(opts Options, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", opts.BaseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		retry:  retry,
		logger: logger.Named("apiclient"),
	}, nil
}

// request describes one logical upstream call
type request struct {
	op     string
	method string
	path   string
	token  string
	query  url.Values
	body   any
}

// do runs req through the retry loop and decodes a 2xx body with decode
func do[T any](ctx context.Context, c *Client, req request, decode func(json.RawMessage) (T, error)) (domain.APIResult[T], error) {
	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return domain.APIResult[T]{}, fmt.Errorf("%s: encode body: %w", req.op, err)
		}
		payload = b
	}

	policy := c.retry
	if req.method == http.MethodPost {
		policy.RetryServerErrors = false
	}

	return Retry(ctx, policy, c.logger, req.op, func(ctx context.Context) (domain.APIResult[T], error) {
		raw, err := c.send(ctx, req, payload)
		if err != nil {
			return domain.APIResult[T]{}, err
		}
		res := domain.Convert[json.RawMessage, T](raw)
		if !raw.OK() {
			return res, nil
		}
		data, err := decode(raw.Data)
		if err != nil {
			res.Status = http.StatusBadGateway
			res.Message = domain.ErrMalformedResponse.Error()
			return res, err
		}
		res.Data = data
		return res, nil
	})
}

// send performs a single HTTP exchange
func (c *Client) send(ctx context.Context, req request, payload []byte) (domain.APIResult[json.RawMessage], error) {
	u := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return domain.APIResult[json.RawMessage]{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.APIResult[json.RawMessage]{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.APIResult[json.RawMessage]{}, fmt.Errorf("%w: read body: %w", domain.ErrUpstreamUnreachable, err)
	}

	res := domain.APIResult[json.RawMessage]{Status: resp.StatusCode, Data: data}
	liftEnvelope(&res)
	return res, nil
}

// liftEnvelope copies message and Laravel-style validation errors out of
// the body
func liftEnvelope(res *domain.APIResult[json.RawMessage]) {
	var env struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if !isObject(res.Data) || json.Unmarshal(res.Data, &env) != nil {
		return
	}
	res.Message = env.Message
	if res.Message == "" {
		res.Message = env.Error
	}
	if len(env.Errors) == 0 {
		return
	}
	var fields map[string][]string
	if err := json.Unmarshal(env.Errors, &fields); err == nil {
		res.Errors = fields
		return
	}
	var single map[string]string
	if err := json.Unmarshal(env.Errors, &single); err == nil {
		res.Errors = make(map[string][]string, len(single))
		for k, v := range single {
			res.Errors[k] = []string{v}
		}
	}
}
