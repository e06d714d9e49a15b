package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element wraps an element node. Two wrappers of the same node are Equal.
type Element struct {
	n *html.Node
}

func wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &Element{n: n}
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

// Node exposes the underlying node.
func (e *Element) Node() *html.Node { return e.n }

// Equal reports whether both wrappers point at the same node.
func (e *Element) Equal(o *Element) bool {
	return e != nil && o != nil && e.n == o.n
}

// Tag returns the lower-cased tag name.
func (e *Element) Tag() string { return strings.ToLower(e.n.Data) }

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// ── attributes ───────────────────────────────────────────────────────────────

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports presence of a (possibly boolean) attribute.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.Attr(key)
	return ok
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			e.n.Attr[i].Val = val
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops an attribute if present.
func (e *Element) RemoveAttr(key string) {
	out := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		out = append(out, a)
	}
	e.n.Attr = out
}

// ── classes ──────────────────────────────────────────────────────────────────

// Classes returns the class list.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether name is in the class list.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list once.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.Classes(), name), " "))
}

// RemoveClass drops name from the class list. An emptied list removes the
// attribute so the element renders as if it had never been touched.
func (e *Element) RemoveClass(name string) {
	if !e.HasAttr("class") {
		return
	}
	var kept []string
	for _, c := range e.Classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// ── inline style ─────────────────────────────────────────────────────────────

// Display returns the inline display declaration, "" when unset.
func (e *Element) Display() string {
	v, _ := e.Attr("style")
	for _, decl := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), "display") {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// SetDisplay writes the inline display declaration, keeping other
// declarations. An empty value removes it, like style.display = ''.
func (e *Element) SetDisplay(val string) {
	style, _ := e.Attr("style")
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "display") {
			continue
		}
		decls = append(decls, decl)
	}
	if val != "" {
		decls = append(decls, "display: "+val)
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", strings.Join(decls, "; "))
}

// Hidden reports an inline display of none.
func (e *Element) Hidden() bool { return e.Display() == "none" }

// ── text ─────────────────────────────────────────────────────────────────────

// Text returns the concatenated text of all descendants (textContent).
func (e *Element) Text() string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
			collect(c)
		}
	}
	collect(e.n)
	return b.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(s string) {
	e.clear()
	if s != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// SetInnerHTML replaces all children with the parsed fragment.
func (e *Element) SetInnerHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.n)
	if err != nil {
		return err
	}
	e.clear()
	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	return nil
}

func (e *Element) clear() {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
}

// ── tree ─────────────────────────────────────────────────────────────────────

// Parent returns the parent element, nil at the top.
func (e *Element) Parent() *Element { return wrap(e.n.Parent) }

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if el := wrap(c); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// NextElement returns the next element sibling, skipping text nodes.
func (e *Element) NextElement() *Element {
	for c := e.n.NextSibling; c != nil; c = c.NextSibling {
		if el := wrap(c); el != nil {
			return el
		}
	}
	return nil
}

// Find returns the first descendant that satisfies match.
func (e *Element) Find(match func(*Element) bool) *Element {
	return find(e.n, match)
}

// FindAll returns every descendant that satisfies match.
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	walk(e.n, func(n *html.Node) {
		if el := wrap(n); el != nil && match(el) {
			out = append(out, el)
		}
	})
	return out
}

// Append adds child as the last child.
func (e *Element) Append(child *Element) { e.n.AppendChild(child.n) }

// Prepend adds child as the first child.
func (e *Element) Prepend(child *Element) {
	if e.n.FirstChild == nil {
		e.n.AppendChild(child.n)
		return
	}
	e.n.InsertBefore(child.n, e.n.FirstChild)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.n.Parent != nil {
		e.n.Parent.RemoveChild(e.n)
	}
}

// InsertAfter places sibling immediately after e.
func (e *Element) InsertAfter(sibling *Element) {
	parent := e.n.Parent
	if parent == nil {
		return
	}
	if e.n.NextSibling == nil {
		parent.AppendChild(sibling.n)
		return
	}
	parent.InsertBefore(sibling.n, e.n.NextSibling)
}

// FirstElement returns the first element child.
func (e *Element) FirstElement() *Element {
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if el := wrap(c); el != nil {
			return el
		}
	}
	return nil
}

// ── matchers ─────────────────────────────────────────────────────────────────

// TagIs matches any of the given tag names.
func TagIs(tags ...string) func(*Element) bool {
	return func(e *Element) bool {
		for _, t := range tags {
			if e.Tag() == t {
				return true
			}
		}
		return false
	}
}

// ClassIs matches elements carrying every given class.
func ClassIs(classes ...string) func(*Element) bool {
	return func(e *Element) bool {
		for _, c := range classes {
			if !e.HasClass(c) {
				return false
			}
		}
		return true
	}
}
