package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/km-arc/go-rh-forms/framework/dom"
)

// ViewEngine renders html/template views from a filesystem. Every view is
// parsed together with the layout, which executes the view through
// {{template "content" .}}.
type ViewEngine struct {
	fsys   fs.FS
	layout string
	ext    string
	funcs  template.FuncMap

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewViewEngine creates a ViewEngine. layout may be "" for views that are
// complete pages on their own.
//
//	views := gohttp.NewViewEngine(viewsFS, "layout", ".html")
func NewViewEngine(fsys fs.FS, layout, ext string) *ViewEngine {
	return &ViewEngine{
		fsys:   fsys,
		layout: layout,
		ext:    ext,
		funcs:  template.FuncMap{},
		cache:  make(map[string]*template.Template),
	}
}

// Funcs adds template functions. It must be called before the first render.
func (ve *ViewEngine) Funcs(funcs template.FuncMap) *ViewEngine {
	for k, f := range funcs {
		ve.funcs[k] = f
	}
	return ve
}

// lookup parses and caches a view. Views run with missingkey=error, so a
// map key the data lacks fails the render instead of printing "<no value>".
func (ve *ViewEngine) lookup(name string) (*template.Template, error) {
	ve.mu.Lock()
	defer ve.mu.Unlock()
	if t, ok := ve.cache[name]; ok {
		return t, nil
	}

	files := []string{name + ve.ext}
	if ve.layout != "" {
		files = append([]string{ve.layout + ve.ext}, files...)
	}
	t, err := template.New(path.Base(files[0])).Option("missingkey=error").Funcs(ve.funcs).ParseFS(ve.fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", name, err)
	}
	ve.cache[name] = t
	return t, nil
}

// Execute renders a view into memory.
func (ve *ViewEngine) Execute(name string, data any) ([]byte, error) {
	t, err := ve.lookup(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("view %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Document renders a view and parses the result, so form engines and table
// filters can work on it before it is sent.
func (ve *ViewEngine) Document(name string, data any) (*dom.Document, error) {
	body, err := ve.Execute(name, data)
	if err != nil {
		return nil, err
	}
	return dom.Parse(bytes.NewReader(body))
}

// View renders a view straight to w.
//
//	views.View(w, http.StatusOK, "login", nil)
func (ve *ViewEngine) View(w http.ResponseWriter, status int, name string, data any) {
	body, err := ve.Execute(name, data)
	if err != nil {
		http.Error(w, "Template error: "+strings.TrimPrefix(err.Error(), "view "), http.StatusInternalServerError)
		return
	}
	NewResponse(w).HTML(status, body)
}
