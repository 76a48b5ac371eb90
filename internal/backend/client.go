package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Envelope is the body shape of every backend answer.
type Envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Client talks to the persistence backend on behalf of one browser session
// at a time: every call carries that session's token as a cookie.
type Client struct {
	base      string
	client    HTTPClient
	cookie    string
	retries   int
	baseDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithRetries bounds the attempts made for reads. Writes are sent once.
func WithRetries(attempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.retries = attempts
		c.baseDelay = baseDelay
	}
}

func WithTokenCookie(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.cookie = name
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:      strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
		cookie:    "refreshToken",
		retries:   3,
		baseDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) TokenCookie() string { return c.cookie }

type call struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

func (c *Client) do(ctx context.Context, cl call, out any) (http.Header, error) {
	u := c.base + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", cl.path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookie, Value: cl.token})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, transportError(err)
	}
	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return resp.Header, &Error{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return resp.Header, &Error{Status: http.StatusBadGateway, Message: "malformed backend response", err: decodeErr}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not accepted"
		}
		return resp.Header, &Error{Status: http.StatusBadRequest, Message: msg}
	}
	if out != nil && len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return resp.Header, &Error{Status: http.StatusBadGateway, Message: "unexpected backend result", err: err}
		}
	}
	return resp.Header, nil
}

// get retries transport failures and 5xx answers with backoff.
func (c *Client) get(ctx context.Context, path string, query url.Values, token string, out any) error {
	_, err := RetryWithBackoff(ctx, c.retries, c.baseDelay, func() (http.Header, error) {
		return c.do(ctx, call{method: http.MethodGet, path: path, query: query, token: token}, out)
	})
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, token string, body, out any) (http.Header, error) {
	return c.do(ctx, call{method: method, path: path, query: query, token: token, body: body}, out)
}

// cookiesFrom extracts the Set-Cookie headers of a backend answer.
func cookiesFrom(h http.Header) []*http.Cookie {
	if h == nil {
		return nil
	}
	return (&http.Response{Header: h}).Cookies()
}

var ErrUnsupportedArea = errors.New("backend: area has no such route")
