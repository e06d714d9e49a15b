// Package tables adds free-text search and per-column dropdown filters to a
// rendered <table> with <thead> and <tbody>.
package tables

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-rh-forms/framework/dom"
	"github.com/km-arc/go-rh-forms/framework/logging"
)

// CSS contract with the rendered list pages.
const (
	ClassFilterSelect = "filter-select"
	ClassFilterGroup  = "filter-group"
	ClassWrapper      = "filters-wrapper"
	ClassReset        = "btn-reset-filters"
	ClassNoResults    = "no-results-message"

	AllLabel   = "Tous"
	ResetLabel = "🔄 Réinitialiser"
)

// Dropdowns are only derived for columns with this many distinct values.
const (
	minDistinct = 2
	maxDistinct = 20
)

var (
	emojiRX = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}]`)
	spaceRX = regexp.MustCompile(`\s+`)
)

// Column describes a derived dropdown filter.
type Column struct {
	Index  int      `json:"index"`
	Header string   `json:"header"`
	Values []string `json:"values"`
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger overrides the component logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(f *Filter) { f.log = l }
}

// Filter drives search and column filters over one table.
type Filter struct {
	doc       *dom.Document
	table     *dom.Element
	search    *dom.Element
	container *dom.Element
	rows      []*dom.Element
	columns   []Column
	active    map[int]string
	log       zerolog.Logger
}

// New binds a filter to a table, its search input and the container the
// dropdowns are rendered into. Without a table or search input the filter
// is inert; without a container only free-text search is available.
func New(doc *dom.Document, tableID, searchID, containerID string, opts ...Option) *Filter {
	f := &Filter{
		doc:    doc,
		active: make(map[int]string),
		log:    logging.Component("tables"),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.table = doc.ByID(tableID)
	f.search = doc.ByID(searchID)
	f.container = doc.ByID(containerID)
	if f.table == nil || f.search == nil {
		f.log.Warn().
			Bool("table", f.table != nil).
			Bool("search", f.search != nil).
			Bool("container", f.container != nil).
			Msg("table filter: required elements not found")
		f.table, f.search = nil, nil
		return f
	}

	if tbody := f.table.Find(dom.TagIs("tbody")); tbody != nil {
		f.rows = tbody.FindAll(dom.TagIs("tr"))
	}
	f.buildDropdowns()
	f.log.Debug().Str("table", tableID).Int("rows", len(f.rows)).Int("filters", len(f.columns)).Msg("table filter bound")
	return f
}

// Active reports whether the filter is bound.
func (f *Filter) Active() bool { return f.table != nil }

// Columns returns the derived dropdown filters.
func (f *Filter) Columns() []Column { return f.columns }

// Search sets the free-text term and reapplies the filters.
func (f *Filter) Search(term string) int {
	if !f.Active() {
		return 0
	}
	f.search.SetValue(term)
	return f.Apply()
}

// Select sets the filter of a column; "" clears it.
func (f *Filter) Select(column int, value string) int {
	if !f.Active() {
		return 0
	}
	if value == "" {
		delete(f.active, column)
	} else {
		f.active[column] = value
	}
	if sel := f.dropdown(column); sel != nil {
		sel.SetValue(value)
	}
	return f.Apply()
}

// Reset clears the search term and every column filter.
func (f *Filter) Reset() int {
	if !f.Active() {
		return 0
	}
	f.search.SetValue("")
	clear(f.active)
	if f.container != nil {
		for _, sel := range f.container.FindAll(dom.ClassIs(ClassFilterSelect)) {
			sel.SetValue("")
		}
	}
	return f.Apply()
}

// Apply shows the rows matching the search term and every active column
// filter, hides the others, and returns the number of visible rows.
func (f *Filter) Apply() int {
	if !f.Active() {
		return 0
	}
	term := strings.ToLower(strings.TrimSpace(f.search.Value()))
	visible := 0
	for _, row := range f.rows {
		if f.matches(row, term) {
			row.SetDisplay("")
			visible++
		} else {
			row.SetDisplay("none")
		}
	}
	f.updateNoResults(visible)
	f.log.Debug().Int("visible", visible).Int("rows", len(f.rows)).Msg("filters applied")
	return visible
}

// VisibleRows returns the rows currently shown.
func (f *Filter) VisibleRows() []*dom.Element {
	var out []*dom.Element
	for _, row := range f.rows {
		if !row.Hidden() {
			out = append(out, row)
		}
	}
	return out
}

func (f *Filter) matches(row *dom.Element, term string) bool {
	if term != "" && !strings.Contains(strings.ToLower(row.Text()), term) {
		return false
	}
	cells := cellsOf(row)
	for column, want := range f.active {
		if column >= len(cells) {
			continue
		}
		if !strings.Contains(clean(cells[column].Text()), want) {
			return false
		}
	}
	return true
}

func (f *Filter) buildDropdowns() {
	if f.container == nil {
		f.log.Warn().Msg("table filter: filter container not found")
		return
	}

	var headers []*dom.Element
	if thead := f.table.Find(dom.TagIs("thead")); thead != nil {
		headers = thead.FindAll(dom.TagIs("th"))
	}

	wrapper := dom.NewElement("div")
	wrapper.AddClass(ClassWrapper)
	for i, th := range headers {
		header := strings.TrimSpace(th.Text())
		if h := strings.ToLower(header); h == "actions" || h == "id" {
			continue
		}
		values := f.distinct(i)
		if len(values) < minDistinct || len(values) > maxDistinct {
			continue
		}
		f.columns = append(f.columns, Column{Index: i, Header: header, Values: values})
		wrapper.Append(dropdownGroup(i, header, values))
	}

	if len(f.columns) == 0 {
		f.log.Debug().Msg("table filter: no column qualifies for a dropdown")
		return
	}
	reset := dom.NewElement("button")
	reset.AddClass(ClassReset)
	reset.SetAttr("type", "button")
	reset.SetText(ResetLabel)
	wrapper.Append(reset)

	f.container.SetText("")
	f.container.Append(wrapper)
}

func dropdownGroup(index int, header string, values []string) *dom.Element {
	id := "filter-" + strconv.Itoa(index)

	group := dom.NewElement("div")
	group.AddClass(ClassFilterGroup)

	label := dom.NewElement("label")
	label.SetAttr("for", id)
	label.SetText(header)
	group.Append(label)

	sel := dom.NewElement("select")
	sel.SetAttr("id", id)
	sel.AddClass(ClassFilterSelect)
	sel.SetAttr("data-column", strconv.Itoa(index))
	sel.Append(option("", AllLabel))
	for _, v := range values {
		sel.Append(option(v, v))
	}
	group.Append(sel)
	return group
}

func option(value, label string) *dom.Element {
	opt := dom.NewElement("option")
	opt.SetAttr("value", value)
	opt.SetText(label)
	return opt
}

// distinct returns the sorted set of cleaned values of a column.
func (f *Filter) distinct(column int) []string {
	seen := make(map[string]struct{})
	for _, row := range f.rows {
		cells := cellsOf(row)
		if column >= len(cells) {
			continue
		}
		if v := clean(cells[column].Text()); v != "" && v != "-" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

func (f *Filter) dropdown(column int) *dom.Element {
	if f.container == nil {
		return nil
	}
	return f.container.Find(func(e *dom.Element) bool {
		v, _ := e.Attr("data-column")
		return e.HasClass(ClassFilterSelect) && v == strconv.Itoa(column)
	})
}

func (f *Filter) updateNoResults(visible int) {
	parent := f.table.Parent()
	if parent == nil {
		return
	}
	msg := parent.Find(dom.ClassIs(ClassNoResults))
	if visible > 0 {
		if msg != nil {
			msg.SetDisplay("none")
		}
		f.table.SetDisplay("")
		return
	}
	if msg == nil {
		msg = noResultsMessage()
		parent.Append(msg)
	}
	msg.SetDisplay("block")
	f.table.SetDisplay("none")
}

func noResultsMessage() *dom.Element {
	msg := dom.NewElement("div")
	msg.AddClass(ClassNoResults)
	// Static markup, never carries user input.
	_ = msg.SetInnerHTML(`<div class="no-results-inner">` +
		`<div class="no-results-icon">🔍</div>` +
		`<h3>Aucun résultat trouvé</h3>` +
		`<p>Essayez de modifier vos critères de recherche ou de réinitialiser les filtres</p>` +
		`</div>`)
	return msg
}

// cellsOf returns the direct td/th cells of a row.
func cellsOf(row *dom.Element) []*dom.Element {
	var cells []*dom.Element
	for _, c := range row.Children() {
		if t := c.Tag(); t == "td" || t == "th" {
			cells = append(cells, c)
		}
	}
	return cells
}

// clean strips pictographs and collapses whitespace.
func clean(s string) string {
	s = emojiRX.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRX.ReplaceAllString(s, " "))
}
