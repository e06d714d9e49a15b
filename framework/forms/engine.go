// Package forms binds a validation engine to a form of a parsed document.
//
// An Engine owns the per-field validation state of one form. Interaction
// events (Blur, Input, Submit) update that state through the generic field
// rules of package validation plus the rule set selected by the form's Kind,
// and every change is projected onto the document by package feedback.
//
//	doc, _ := dom.Parse(r)
//	eng := forms.New(doc, "employeeForm")
//	eng.Input("salaireBase", "500")
//	if res := eng.Submit(); !res.Proceed {
//	    // doc now carries the inline errors and the banner
//	}
package forms

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/feedback"
	"github.com/km-arc/go-rh-forms/framework/logging"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger overrides the component logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithKinds replaces the embedded kind configuration.
func WithKinds(k *Kinds) Option {
	return func(e *Engine) {
		if k != nil {
			e.kinds = k
		}
	}
}

// SubmitResult is the outcome of a submission attempt.
type SubmitResult struct {
	Proceed  bool
	Kind     Kind
	Messages validation.Messages
}

// Engine validates one bound form.
type Engine struct {
	doc   *dom.Document
	form  *dom.Element
	id    string
	kinds *Kinds
	now   func() time.Time
	log   zerolog.Logger
	state map[string]validation.Verdict
}

// New binds an engine to the form with the given id. A missing form is
// logged and yields an inert engine whose events do nothing.
func New(doc *dom.Document, formID string, opts ...Option) *Engine {
	e := &Engine{
		doc:   doc,
		id:    formID,
		kinds: DefaultKinds(),
		now:   time.Now,
		log:   logging.Component("forms"),
		state: make(map[string]validation.Verdict),
	}
	for _, opt := range opts {
		opt(e)
	}

	form, err := doc.Lookup(formID)
	if err != nil || form.Tag() != "form" {
		e.log.Error().Str("form", formID).Msg("form not found, validation disabled")
		return e
	}
	e.form = form
	e.log.Debug().Str("form", formID).Stringer("kind", e.Kind()).Msg("form validation bound")
	return e
}

// BindAll binds an engine to every form that has an id and an action.
func BindAll(doc *dom.Document, opts ...Option) []*Engine {
	var engines []*Engine
	for _, form := range doc.ByTag("form") {
		if form.ID() == "" || !(form.HasAttr("action") || form.HasAttr("th:action")) {
			continue
		}
		engines = append(engines, New(doc, form.ID(), opts...))
	}
	return engines
}

// Active reports whether the engine is bound to a form.
func (e *Engine) Active() bool { return e.form != nil }

// FormID returns the id the engine was constructed with.
func (e *Engine) FormID() string { return e.id }

// Document returns the document the engine renders into.
func (e *Engine) Document() *dom.Document { return e.doc }

// Kind classifies the form by its action URL.
func (e *Engine) Kind() Kind {
	if e.form == nil {
		return KindUnclassified
	}
	action, ok := e.form.Attr("action")
	if !ok {
		action, _ = e.form.Attr("th:action")
	}
	return e.kinds.Classify(action)
}

// ── events ───────────────────────────────────────────────────────────────────

// Blur validates a single field after it loses focus.
func (e *Engine) Blur(key string) (validation.Verdict, error) {
	if !e.Active() {
		return validation.Pass, nil
	}
	el, err := e.control(key)
	if err != nil {
		return validation.Verdict{}, err
	}
	return e.validateField(el), nil
}

// Input records an edit: the new value is written into the document and any
// error on the field is cleared without re-validating.
func (e *Engine) Input(key, value string) error {
	if !e.Active() {
		return nil
	}
	el, err := e.control(key)
	if err != nil {
		return err
	}
	el.SetValue(value)
	e.annotate(el, validation.Pass)
	return nil
}

// Submit validates the whole form. An invalid form is cancelled and the
// banner is shown; a valid one proceeds untouched.
func (e *Engine) Submit() SubmitResult {
	if !e.Active() {
		return SubmitResult{Proceed: true}
	}
	res := SubmitResult{Kind: e.Kind()}
	res.Proceed = e.ValidateForm()
	res.Messages = e.Messages()
	if !res.Proceed {
		feedback.ShowGlobalError(e.doc, e.form, validation.MsgFormInvalid)
	}
	e.log.Debug().Str("form", e.id).Stringer("kind", res.Kind).Bool("proceed", res.Proceed).
		Int("errors", len(res.Messages.Bag)).Msg("submit")
	return res
}

// ValidateForm evaluates every field, then the kind's rule set. State is
// rebuilt from the controls present now; verdicts of removed fields are
// dropped.
func (e *Engine) ValidateForm() bool {
	if !e.Active() {
		return true
	}
	clear(e.state)
	valid := true
	for _, el := range e.Fields() {
		switch el.InputType() {
		case "hidden", "submit", "button":
			continue
		}
		if !e.validateField(el).Valid {
			valid = false
		}
	}

	kind := e.Kind()
	if kind == KindUnclassified {
		return valid
	}
	c := &ruleContext{engine: e, kind: kind, now: e.now()}
	c.today = validation.Today(c.now)
	for _, rule := range ruleSets[kind] {
		if !rule(c) {
			valid = false
		}
	}
	return valid
}

// ── state ────────────────────────────────────────────────────────────────────

// State returns the last verdict recorded for a field.
func (e *Engine) State(key string) (validation.Verdict, bool) {
	v, ok := e.state[key]
	return v, ok
}

// Messages returns the current error message of every invalid field.
func (e *Engine) Messages() validation.Messages {
	var m validation.Messages
	for key, v := range e.state {
		if !v.Valid {
			m.Set(key, v.Message)
		}
	}
	return m
}

// Fields enumerates the form's controls afresh.
func (e *Engine) Fields() []*dom.Element {
	if e.form == nil {
		return nil
	}
	return e.form.FindAll(dom.TagIs("input", "select", "textarea"))
}

// Snapshot builds the rule input for a control.
func (e *Engine) Snapshot(el *dom.Element) validation.Field {
	name, _ := el.Attr("name")
	f := validation.Field{
		Key:      fieldKey(el),
		Name:     name,
		ID:       el.ID(),
		Tag:      el.Tag(),
		Type:     el.InputType(),
		Required: el.HasAttr("required"),
		Value:    el.Value(),
	}
	f.Min, _ = el.Attr("min")
	f.Max, _ = el.Attr("max")
	if roles, ok := e.kinds.RolesFor(e.Kind(), f.Key); ok {
		f.Roles = roles
	}
	return f
}

func (e *Engine) validateField(el *dom.Element) validation.Verdict {
	v := validation.Evaluate(e.Snapshot(el), e.now())
	e.annotate(el, v)
	return v
}

// annotate records v for el and projects it onto the document.
func (e *Engine) annotate(el *dom.Element, v validation.Verdict) {
	if key := fieldKey(el); key != "" {
		e.state[key] = v
	}
	if v.Valid {
		feedback.ClearFieldError(el)
		return
	}
	feedback.ShowFieldError(el, v.Message)
}

func (e *Engine) control(key string) (*dom.Element, error) {
	for _, el := range e.Fields() {
		if fieldKey(el) == key {
			return el, nil
		}
	}
	for _, el := range e.Fields() {
		if name, _ := el.Attr("name"); name == key {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: field %q in form #%s", dom.ErrNotFound, key, e.id)
}

// fieldKey is the id of a control, else its name.
func fieldKey(el *dom.Element) string {
	if id := el.ID(); id != "" {
		return id
	}
	name, _ := el.Attr("name")
	return name
}
