// Package controllers serves the HR pages: filterable lists, creation forms
// validated by the form engine and the models, and a JSON validation API.
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/app/models"
	"github.com/km-arc/go-rh-forms/app/store"
	"github.com/km-arc/go-rh-forms/framework/app"
	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/feedback"
	"github.com/km-arc/go-rh-forms/framework/forms"
	gohttp "github.com/km-arc/go-rh-forms/framework/http"
	"github.com/km-arc/go-rh-forms/framework/metrics"
	"github.com/km-arc/go-rh-forms/framework/tables"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Submission stages reported to metrics.
const (
	stageClient = "client"
	stageServer = "server"
)

// FlashCreated is shown on a list page after a successful submission.
const FlashCreated = "Enregistrement effectué avec succès"

// Deps are the services shared by the controllers.
type Deps struct {
	Store     *store.Store
	Views     *gohttp.ViewEngine
	Kinds     *forms.Kinds
	Metrics   *metrics.Metrics
	Validator *models.Validator
	Now       func() time.Time
	Log       zerolog.Logger
}

// Page is the data every view receives.
type Page struct {
	Title string
	Flash string

	TableID string
	NewURL  string
	Headers []string
	Rows    [][]string

	Grades      []string
	Roles       []string
	States      []string
	Employees   []models.Employee
	Projects    []models.Project
	Departments []models.Department
}

func (d *Deps) page(title string) Page {
	return Page{
		Title:       title,
		Grades:      models.Grades,
		Roles:       models.Roles,
		States:      models.ProjectStates,
		Employees:   d.Store.Employees.All(),
		Projects:    d.Store.Projects.All(),
		Departments: d.Store.Departments.All(),
	}
}

// ResourceController serves one Resource.
type ResourceController struct {
	app.Controller
	res  *Resource
	deps *Deps
}

// NewResourceController binds a resource to the shared services.
func NewResourceController(res *Resource, deps *Deps) *ResourceController {
	return &ResourceController{res: res, deps: deps}
}

// Index lists the records, applying ?q= and ?f<column>= server-side.
func (c *ResourceController) Index(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	page := c.deps.page(c.res.Title)
	page.TableID = c.res.TableID
	page.NewURL = c.res.Path + "/new"
	page.Headers = c.res.Headers
	page.Rows = c.res.Rows(c.deps.Store)
	if req.Query("ok") != "" {
		page.Flash = FlashCreated
	}

	doc, err := c.deps.Views.Document("list", page)
	if err != nil {
		c.deps.Log.Error().Err(err).Str("resource", c.res.Path).Msg("render list")
		res.ServerError()
		return
	}

	filter := tables.New(doc, c.res.TableID, "searchInput", "filterContainer",
		tables.WithLogger(c.deps.Log.With().Str("component", "tables").Logger()))
	if q := req.Query("q"); q != "" {
		filter.Search(q)
	}
	for column, value := range req.QueryIndexed("f") {
		filter.Select(column, value)
	}
	visible := filter.Apply()
	c.deps.Metrics.TableRows.WithLabelValues(c.res.TableID).Observe(float64(visible))

	res.Document(http.StatusOK, doc)
}

// Create renders the empty form.
func (c *ResourceController) Create(w http.ResponseWriter, _ *http.Request) {
	c.deps.Views.View(w, http.StatusOK, c.res.FormView, c.deps.page(c.res.FormTitle))
}

// Store validates a submission. An invalid one is answered with the form,
// annotated with every message, and 422; a valid one is stored and
// redirected to the list.
func (c *ResourceController) Store(w http.ResponseWriter, r *http.Request) {
	req, res := c.Request(r), c.Response(w)

	fields, err := req.Fields()
	if err != nil {
		res.Error(http.StatusBadRequest, "Requête invalide.")
		return
	}
	sub, err := c.deps.submit(c.res, fields)
	if err != nil {
		c.deps.Log.Error().Err(err).Str("resource", c.res.Path).Msg("render form")
		res.ServerError()
		return
	}
	if !sub.Valid() {
		sub.annotate()
		res.Document(http.StatusUnprocessableEntity, sub.Doc)
		return
	}
	if late := sub.Commit(c.deps.Store); late.Has() {
		sub.Server = late
		sub.annotate()
		res.Document(http.StatusUnprocessableEntity, sub.Doc)
		return
	}
	c.deps.Log.Info().Str("resource", c.res.Path).Msg("record created")
	res.SeeOther(c.res.Path + "?ok=1")
}

// ── submission ───────────────────────────────────────────────────────────────

// submission is the outcome of running both validation stages on a form.
type submission struct {
	Doc    *dom.Document
	Engine *forms.Engine
	Client forms.SubmitResult
	Server validation.Messages
	Commit Commit
}

func (s *submission) Valid() bool { return s.Client.Proceed && !s.Server.Has() }

// annotate projects the model errors onto fields the engine accepted and
// makes sure the banner is shown.
func (s *submission) annotate() {
	form := s.Doc.ByID(s.Engine.FormID())
	for _, key := range s.Server.Keys() {
		el := s.Doc.ByID(key)
		if el == nil || feedback.FieldError(el) != "" {
			continue
		}
		feedback.ShowFieldError(el, s.Server.Get(key))
	}
	if form != nil {
		feedback.ShowGlobalError(s.Doc, form, validation.MsgFormInvalid)
	}
}

// submit renders the resource's form, replays fields into it through the
// engine, then binds and validates the model.
func (d *Deps) submit(res *Resource, fields map[string]string) (*submission, error) {
	doc, err := d.Views.Document(res.FormView, d.page(res.FormTitle))
	if err != nil {
		return nil, err
	}
	eng := forms.New(doc, res.FormID,
		forms.WithClock(d.Now),
		forms.WithKinds(d.Kinds),
		forms.WithLogger(d.Log.With().Str("component", "forms").Logger()))

	for key, value := range fields {
		if err := eng.Input(key, value); err != nil {
			if !errors.Is(err, dom.ErrNotFound) {
				return nil, err
			}
			d.Log.Debug().Str("field", key).Str("form", res.FormID).Msg("ignoring unknown field")
		}
	}

	sub := &submission{Doc: doc, Engine: eng, Client: eng.Submit()}
	sub.Commit, sub.Server = res.Bind(d.Store, d.Validator, fields)

	kind := eng.Kind().String()
	d.Metrics.Submission(kind, stageClient, sub.Client.Messages.Keys())
	d.Metrics.Submission(kind, stageServer, sub.Server.Keys())
	return sub, nil
}
