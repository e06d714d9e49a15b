// Package dom is a small mutable view over a parsed HTML document.
//
// It carries just enough of the browser DOM for the form, table and password
// helpers: lookup by id, class and inline-style toggling, text content, and
// sibling insertion. Documents render back to HTML after mutation.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNotFound is returned when an element lookup by id fails.
var ErrNotFound = errors.New("dom: element not found")

// ScrollRequest records the last scrollIntoView call made on a document.
type ScrollRequest struct {
	Target   *Element
	Behavior string
	Block    string
}

// Document owns a parsed HTML tree.
type Document struct {
	root   *html.Node
	scroll *ScrollRequest
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// ByID returns the first element whose id attribute equals id, or nil.
func (d *Document) ByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Find(func(e *Element) bool { return e.ID() == id })
}

// Lookup is ByID with an error for missing elements.
func (d *Document) Lookup(id string) (*Element, error) {
	if el := d.ByID(id); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("%w: #%s", ErrNotFound, id)
}

// Find returns the first element in document order that satisfies match.
func (d *Document) Find(match func(*Element) bool) *Element {
	return find(d.root, match)
}

// FindAll returns every element in document order that satisfies match.
func (d *Document) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if el := wrap(n); el != nil && match(el) {
			out = append(out, el)
		}
	})
	return out
}

// ByTag returns every element with the given tag name.
func (d *Document) ByTag(tag string) []*Element {
	return d.FindAll(func(e *Element) bool { return e.Tag() == tag })
}

// ScrollIntoView records a scroll request for el. There is no viewport on the
// server side; callers that drive a real browser read it via LastScroll.
func (d *Document) ScrollIntoView(el *Element, behavior, block string) {
	d.scroll = &ScrollRequest{Target: el, Behavior: behavior, Block: block}
}

// LastScroll returns the most recent scroll request.
func (d *Document) LastScroll() (ScrollRequest, bool) {
	if d.scroll == nil {
		return ScrollRequest{}, false
	}
	return *d.scroll, true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on error.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walk(c, fn)
	}
}

func find(n *html.Node, match func(*Element) bool) *Element {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := wrap(c); el != nil && match(el) {
			return el
		}
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}
