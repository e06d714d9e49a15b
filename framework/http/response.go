package http

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/logging"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Response wraps http.ResponseWriter with JSON, HTML and redirect helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	if err := json.NewEncoder(res.w).Encode(data); err != nil {
		log := logging.Component("http")
		log.Error().Err(err).Msg("encode response")
	}
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends a JSON error response: {"message": message}
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Ressource introuvable."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Erreur serveur."))
}

// ValidationError sends 422 with the error bag: {"errors": {"field": "msg"}}
func (res *Response) ValidationError(m *validation.Messages) {
	if m.Bag == nil {
		m.Bag = map[string]string{}
	}
	res.JSON(http.StatusUnprocessableEntity, m)
}

// ── HTML responses ───────────────────────────────────────────────────────────

// HTML sends a rendered page.
func (res *Response) HTML(status int, body []byte) {
	res.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.w.WriteHeader(status)
	_, _ = res.w.Write(body)
}

// Document renders a (possibly annotated) document.
func (res *Response) Document(status int, doc *dom.Document) {
	res.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.w.WriteHeader(status)
	if err := doc.Render(res.w); err != nil {
		log := logging.Component("http")
		log.Error().Err(err).Msg("render document")
	}
}

// ── Redirects ────────────────────────────────────────────────────────────────

// SeeOther redirects with 303, the answer to a successful form POST.
func (res *Response) SeeOther(url string) {
	res.w.Header().Set("Location", url)
	res.w.WriteHeader(http.StatusSeeOther)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
