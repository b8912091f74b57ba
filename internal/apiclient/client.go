// Package apiclient is the typed HTTP SDK for the marketd API. It wraps
// every call in a uniform Error taxonomy so callers can pick a
// notification variant without inspecting HTTP details.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorKind classifies a failed call for presentation purposes.
type ErrorKind int

const (
	// KindNetwork is a transport failure; no response arrived.
	KindNetwork ErrorKind = iota
	// KindAuth is 401/403; the session is missing, expired or forbidden.
	KindAuth
	// KindValidation is a 400 the caller can fix by changing input.
	KindValidation
	// KindBusiness is any other rejected operation; Message is server text.
	KindBusiness
	// KindDecode is a response body that did not match the envelope.
	KindDecode
)

// Error is the single error type returned by every client call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
	}
	return "api: " + e.Message
}

// NotifyKind names the error kind for notification routing. Consumers
// detect it through an interface instead of importing this package.
func (e *Error) NotifyKind() string {
	switch e.Kind {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	default:
		return "business"
	}
}

// IsAuth reports whether err is an authentication/authorization failure.
func IsAuth(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Kind == KindAuth
}

// Client talks to one marketd deployment. Token is set by Login and sent
// as a bearer header on every subsequent call. Calls are never retried.
type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// New returns a client for the given base URL, e.g. "http://127.0.0.1:1816".
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, Timeout: 15 * time.Second}
}

func (c *Client) headers() gout.H {
	h := gout.H{"Accept": "application/json"}
	if c.Token != "" {
		h["Authorization"] = "Bearer " + c.Token
	}
	return h
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type dataEnvelope struct {
	Data jsoniter.RawMessage `json:"data"`
}

// Page is one window of a paged collection.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// classify maps a non-2xx response to an Error. The server's message is
// surfaced verbatim so toasts read the same everywhere.
func classify(status int, body []byte) *Error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		return &Error{Kind: KindDecode, Status: status,
			Message: fmt.Sprintf("unexpected response (HTTP %d)", status)}
	}

	kind := KindBusiness
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusBadRequest:
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: status, Code: env.Error.Code, Message: env.Error.Message}
}

// do runs one request and decodes the body into out (which may be nil).
// paged selects the list envelope instead of the data envelope.
func (c *Client) do(ctx context.Context, method, path string, query gout.H, payload interface{}, out interface{}, paged bool) error {
	var (
		status int
		body   []byte
	)

	var df *dataflow.DataFlow
	switch method {
	case http.MethodPost:
		df = gout.POST(c.BaseURL + path)
	case http.MethodPut:
		df = gout.PUT(c.BaseURL + path)
	case http.MethodDelete:
		df = gout.DELETE(c.BaseURL + path)
	default:
		df = gout.GET(c.BaseURL + path)
	}
	df = df.SetHeader(c.headers()).
		SetTimeout(c.Timeout).
		WithContext(ctx)
	if query != nil {
		df = df.SetQuery(query)
	}
	if payload != nil {
		df = df.SetJSON(payload)
	}
	if err := df.BindBody(&body).Code(&status).Do(); err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}

	return c.decode(status, body, out, paged)
}

func (c *Client) decode(status int, body []byte, out interface{}, paged bool) error {
	if status < 200 || status > 299 {
		return classify(status, body)
	}
	if out == nil {
		return nil
	}
	if paged {
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindDecode, Status: status, Message: err.Error()}
		}
		return nil
	}
	var env dataEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &Error{Kind: KindDecode, Status: status, Message: err.Error()}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindDecode, Status: status, Message: err.Error()}
	}
	return nil
}

// get fetches a single resource out of the data envelope.
func get[T any](ctx context.Context, c *Client, path string, query gout.H) (*T, error) {
	var out T
	if err := c.do(ctx, "GET", path, query, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// getPage fetches one window of a paged collection.
func getPage[T any](ctx context.Context, c *Client, path string, query gout.H) (*Page[T], error) {
	var out Page[T]
	if err := c.do(ctx, "GET", path, query, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
