// Package feedback renders validation state onto a document: the inline
// error annotation next to a field and the banner at the top of a form.
package feedback

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/km-arc/go-rh-forms/framework/dom"
)

// CSS contract with the rendered templates.
const (
	ClassFieldError   = "error"
	ClassErrorMessage = "error-message"
	ClassAlert        = "alert"
	ClassAlertError   = "alert-error"
)

var bannerPolicy = bluemonday.UGCPolicy()

// ShowFieldError marks field as invalid and shows message in the sibling
// message element, creating it right after the field on first use.
func ShowFieldError(field *dom.Element, message string) {
	field.AddClass(ClassFieldError)

	span := messageElement(field)
	if span == nil {
		span = dom.NewElement("span")
		span.AddClass(ClassErrorMessage)
		field.InsertAfter(span)
	}
	span.SetText(message)
	span.SetDisplay("block")
}

// ClearFieldError removes the invalid marker and hides the message element.
func ClearFieldError(field *dom.Element) {
	field.RemoveClass(ClassFieldError)
	if span := messageElement(field); span != nil {
		span.SetText("")
		span.SetDisplay("none")
	}
}

// FieldError reports the visible message for field, "" when clean.
func FieldError(field *dom.Element) string {
	if !field.HasClass(ClassFieldError) {
		return ""
	}
	span := messageElement(field)
	if span == nil || span.Hidden() {
		return ""
	}
	return span.Text()
}

// ShowGlobalError writes message into the form's banner, creating the banner
// as the form's first child when missing, and asks for it to be scrolled
// into view. message is markup: inline formatting is kept, scripts and event
// handlers are stripped.
func ShowGlobalError(doc *dom.Document, form *dom.Element, message string) *dom.Element {
	banner := form.Find(dom.ClassIs(ClassAlert, ClassAlertError))
	if banner == nil {
		banner = dom.NewElement("div")
		banner.SetAttr("class", ClassAlert+" "+ClassAlertError)
		form.Prepend(banner)
	}

	markup := bannerPolicy.Sanitize("<p>" + message + "</p>")
	if err := banner.SetInnerHTML(markup); err != nil {
		banner.SetText(message)
	}
	doc.ScrollIntoView(banner, "smooth", "center")
	return banner
}

// messageElement finds the message element among the field's siblings.
func messageElement(field *dom.Element) *dom.Element {
	parent := field.Parent()
	if parent == nil {
		return nil
	}
	for _, child := range parent.Children() {
		if child.Tag() == "span" && child.HasClass(ClassErrorMessage) {
			return child
		}
	}
	return nil
}
