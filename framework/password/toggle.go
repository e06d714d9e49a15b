// Package password flips a password field between masked and plain text.
package password

import (
	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/logging"
)

// Trigger glyphs for each state.
const (
	GlyphMasked = "👁️"
	GlyphPlain  = "🙈"
)

// Toggle binds a trigger element to a password field.
type Toggle struct {
	trigger *dom.Element
	field   *dom.Element
}

// Bind looks both elements up by id. If either is missing the toggle does
// nothing.
func Bind(doc *dom.Document, triggerID, fieldID string) *Toggle {
	t := &Toggle{trigger: doc.ByID(triggerID), field: doc.ByID(fieldID)}
	if t.trigger == nil || t.field == nil {
		log := logging.Component("password")
		log.Debug().
			Str("trigger", triggerID).Str("field", fieldID).
			Msg("password toggle not bound")
		return &Toggle{}
	}
	return t
}

// Active reports whether both elements were found.
func (t *Toggle) Active() bool { return t.trigger != nil }

// Masked reports whether the field currently hides its value.
func (t *Toggle) Masked() bool {
	return t.field == nil || t.field.InputType() == "password"
}

// Click switches the field type and updates the trigger glyph.
func (t *Toggle) Click() {
	if !t.Active() {
		return
	}
	next := "password"
	if t.Masked() {
		next = "text"
	}
	t.field.SetAttr("type", next)
	if next == "password" {
		t.trigger.SetText(GlyphMasked)
	} else {
		t.trigger.SetText(GlyphPlain)
	}
}
