package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/km-arc/go-rh-forms/framework/dom"
	gohttp "github.com/km-arc/go-rh-forms/framework/http"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	return m
}

// ── JSON ──────────────────────────────────────────────────────────────────────

func TestResponse_JSON(t *testing.T) {
	res, rr := newResponse(t)
	res.JSON(http.StatusOK, map[string]any{"key": "val"})

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q want application/json", ct)
	}
	if m := decodeJSON(t, rr); m["key"] != "val" {
		t.Errorf("body key: got %v want val", m["key"])
	}
}

func TestResponse_Success(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"id": float64(1)})

	data, ok := decodeJSON(t, rr)["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data envelope")
	}
	if data["id"] != float64(1) {
		t.Errorf("data.id: got %v want 1", data["id"])
	}
}

func TestResponse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*gohttp.Response)
		status int
		msg    string
	}{
		{"error", func(r *gohttp.Response) { r.Error(http.StatusBadRequest, "mauvaise requête") }, 400, "mauvaise requête"},
		{"not found default", func(r *gohttp.Response) { r.NotFound() }, 404, "Ressource introuvable."},
		{"not found custom", func(r *gohttp.Response) { r.NotFound("Formulaire inconnu") }, 404, "Formulaire inconnu"},
		{"server error", func(r *gohttp.Response) { r.ServerError() }, 500, "Erreur serveur."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rr := newResponse(t)
			tt.call(res)
			if rr.Code != tt.status {
				t.Errorf("status: got %d want %d", rr.Code, tt.status)
			}
			if m := decodeJSON(t, rr); m["message"] != tt.msg {
				t.Errorf("message: got %v want %q", m["message"], tt.msg)
			}
		})
	}
}

func TestResponse_ValidationError(t *testing.T) {
	res, rr := newResponse(t)
	var m validation.Messages
	m.Set("salaireBase", "Le salaire de base doit être d'au moins 1000€")
	res.ValidationError(&m)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d want 422", rr.Code)
	}
	errs, ok := decodeJSON(t, rr)["errors"].(map[string]any)
	if !ok {
		t.Fatal("expected errors bag")
	}
	if errs["salaireBase"] != "Le salaire de base doit être d'au moins 1000€" {
		t.Errorf("salaireBase: got %v", errs["salaireBase"])
	}
}

func TestResponse_ValidationError_EmptyBag(t *testing.T) {
	res, rr := newResponse(t)
	res.ValidationError(&validation.Messages{})
	if !strings.Contains(rr.Body.String(), `"errors":{}`) {
		t.Errorf("empty bag should encode as an object, got %s", rr.Body.String())
	}
}

// ── HTML & redirects ─────────────────────────────────────────────────────────

func TestResponse_Document(t *testing.T) {
	doc, err := dom.ParseString(`<p id="x">Bonjour</p>`)
	if err != nil {
		t.Fatal(err)
	}
	doc.ByID("x").AddClass("error")

	res, rr := newResponse(t)
	res.Document(http.StatusUnprocessableEntity, doc)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `<p id="x" class="error">Bonjour</p>`) {
		t.Errorf("body: %s", rr.Body.String())
	}
}

func TestResponse_SeeOther(t *testing.T) {
	res, rr := newResponse(t)
	res.SeeOther("/employees")
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/employees" {
		t.Errorf("got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}
