package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const maxMemory = 1 << 20 // 1 MB; forms carry no uploads

// ErrEmptyBody is returned by Bind for a JSON request without a body.
var ErrEmptyBody = errors.New("empty request body")

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Binding ──────────────────────────────────────────────────────────────────

// Bind decodes a JSON body into v.
func (req *Request) Bind(v any) error {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxMemory))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}

// Fields returns the submitted fields as a flat map, whatever the encoding:
// a JSON object of strings, or a url-encoded / multipart form.
func (req *Request) Fields() (map[string]string, error) {
	if strings.Contains(req.ContentType(), "application/json") {
		out := make(map[string]string)
		if err := req.Bind(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if strings.Contains(req.ContentType(), "multipart/form-data") {
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return nil, err
		}
	} else if err := req.raw.ParseForm(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(req.raw.PostForm))
	for k, v := range req.raw.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string or post body).
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	v := req.raw.FormValue(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryIndexed collects query parameters named prefix<N> into N → value,
// skipping empty values and non-numeric suffixes.
//
//	?f2=CADRE&f3=Finance  →  {2: "CADRE", 3: "Finance"}
func (req *Request) QueryIndexed(prefix string) map[int]string {
	out := make(map[int]string)
	for k, v := range req.raw.URL.Query() {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || len(v) == 0 || v[0] == "" {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			out[n] = v[0]
		}
	}
	return out
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request expects a JSON response.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}
