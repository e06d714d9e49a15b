package dom

import "strings"

// Value returns the current value of a form control the way a browser
// reports it: the value attribute for inputs, the text for textareas, and
// the selected (or first) option for selects.
func (e *Element) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.Text()
	case "select":
		opt := e.selectedOption()
		if opt == nil {
			return ""
		}
		return optionValue(opt)
	default:
		v, _ := e.Attr("value")
		return v
	}
}

// SetValue updates the control's value. For selects the matching option
// becomes the only selected one. An unknown value clears every selected
// attribute, so Value falls back to the first option as it does on a freshly
// parsed select; only a select with a value="" placeholder first reads back
// as empty.
func (e *Element) SetValue(v string) {
	switch e.Tag() {
	case "textarea":
		e.SetText(v)
	case "select":
		for _, opt := range e.options() {
			if optionValue(opt) == v {
				opt.SetAttr("selected", "")
			} else {
				opt.RemoveAttr("selected")
			}
		}
	default:
		e.SetAttr("value", v)
	}
}

// InputType returns the lower-cased control type: the input type attribute
// (default "text"), "select-one" for selects, "textarea" for text areas.
func (e *Element) InputType() string {
	switch e.Tag() {
	case "select":
		if e.HasAttr("multiple") {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	}
	t, ok := e.Attr("type")
	if !ok || strings.TrimSpace(t) == "" {
		return "text"
	}
	return strings.ToLower(strings.TrimSpace(t))
}

func (e *Element) options() []*Element {
	return e.FindAll(TagIs("option"))
}

func (e *Element) selectedOption() *Element {
	opts := e.options()
	if len(opts) == 0 {
		return nil
	}
	for _, opt := range opts {
		if opt.HasAttr("selected") {
			return opt
		}
	}
	return opts[0]
}

func optionValue(opt *Element) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}
