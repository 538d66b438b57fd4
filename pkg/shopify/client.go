package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/merchkit/bxgy-backend/pkg/config"
	pkgerrors "github.com/merchkit/bxgy-backend/pkg/errors"
	"github.com/merchkit/bxgy-backend/pkg/logger"
)

const (
	defaultHTTPTimeout       = 15 * time.Second
	accessTokenHeader        = "X-Shopify-Access-Token"
	errorBodyReadLimit int64 = 2048
)

var (
	errStoreDomainRequired = errors.New("shopify store domain is required")
	errAccessTokenRequired = errors.New("shopify access token is required")
)

// Client wraps the Shopify Admin REST and GraphQL APIs with centralized auth,
// logging, and error mapping. Every call is a single attempt; no retry or
// backoff is applied.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Admin API base URL (tests point this at a fake).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Shopify wrapper from the injected configuration.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errStoreDomainRequired
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.AdminBaseURL(),
		accessToken: token,
		logger:      logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// UserError is an application-level rejection embedded in a 200-status
// response body (GraphQL userErrors). These are user-correctable and map to
// a 400-class failure, distinct from transport errors.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// GraphQLError is a top-level error entry in a GraphQL response. Per the
// workflow contract these are treated like transport failures.
type GraphQLError struct {
	Message string `json:"message"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQL posts a query document plus variables to /graphql.json and decodes
// the data payload into out. Top-level errors come back as DEPENDENCY errors
// carrying the error list in details.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify client not configured")
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/graphql.json"), bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build graphql request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute graphql request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp, "graphql request failed")
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify graphql returned errors").
			WithDetails(envelope.Errors)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode graphql data")
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doREST(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.doREST(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doREST(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doREST(ctx context.Context, method, path string, payload, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "shopify client not configured")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal shopify request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build shopify request")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute shopify request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp, fmt.Sprintf("%s %s failed", method, path))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode shopify response")
		}
	}
	return nil
}

func (c *Client) statusError(resp *http.Response, op string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	return pkgerrors.Wrap(codeForStatus(resp.StatusCode), cause, op)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.accessToken)
}

func (c *Client) url(path string) string {
	base := strings.TrimRight(c.baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (c *Client) log(ctx context.Context, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{"operation": op}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	c.logger.Info(ctx, "shopify "+op)
}
