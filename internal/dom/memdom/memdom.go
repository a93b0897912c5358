// Package memdom is an in-memory implementation of the widget's document
// interfaces. It backs tests and the headless query command.
//
// Element children and element content are independent: SetHTML and SetText
// replace an element's content but never its child elements. Events are
// dispatched synchronously on the caller's goroutine.
package memdom

import (
	"html"
	"slices"
	"strings"
	"sync"

	nethtml "golang.org/x/net/html"

	"github.com/starford/sitesearch/internal/widget"
)

// Document is a tree of elements rooted at a body element.
type Document struct {
	mu       sync.RWMutex
	location string
	body     *Element
}

// New creates an empty document for the given page location.
func New(location string) *Document {
	return &Document{
		location: location,
		body:     NewElement("body", ""),
	}
}

// NewSearchPage creates a document with the search page elements: the
// search-input box, the results count indicator with its #counter and the
// results container.
func NewSearchPage(location string) *Document {
	d := New(location)
	d.Body().Append(
		NewElement("input", widget.InputID),
		NewElement("div", "", widget.CountClass).Append(
			NewElement("span", strings.TrimPrefix(widget.CounterSelector, "#")),
		),
		NewElement("ul", widget.ResultsID),
	)
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element {
	return d.body
}

// Location returns the page URL.
func (d *Document) Location() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.location
}

// SetLocation changes the page URL.
func (d *Document) SetLocation(location string) {
	d.mu.Lock()
	d.location = location
	d.mu.Unlock()
}

// Element returns the element with the given id, or nil.
func (d *Document) Element(id string) *Element {
	return d.body.find(func(e *Element) bool { return e.ID() == id })
}

// ElementByID implements widget.Document.
func (d *Document) ElementByID(id string) widget.Element {
	if e := d.Element(id); e != nil {
		return e
	}
	return nil
}

// FirstByClass implements widget.Document.
func (d *Document) FirstByClass(class string) widget.Element {
	if e := d.body.find(func(e *Element) bool { return e.HasClass(class) }); e != nil {
		return e
	}
	return nil
}

// Element is a node with an id, classes, an input value, content markup and
// event listeners.
type Element struct {
	mu        sync.Mutex
	tag       string
	id        string
	classes   []string
	children  []*Element
	parent    *Element
	value     string
	inner     string
	listeners map[string][]func()
}

// NewElement creates a detached element.
func NewElement(tag, id string, classes ...string) *Element {
	return &Element{
		tag:       tag,
		id:        id,
		classes:   slices.Clone(classes),
		listeners: make(map[string][]func()),
	}
}

// Append attaches children to e and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range children {
		c.mu.Lock()
		c.parent = e
		c.mu.Unlock()
		e.children = append(e.children, c)
	}
	return e
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.mu.Lock()
	parent := e.parent
	e.parent = nil
	e.mu.Unlock()
	if parent == nil {
		return
	}
	parent.mu.Lock()
	parent.children = slices.DeleteFunc(parent.children, func(c *Element) bool { return c == e })
	parent.mu.Unlock()
}

// ID returns the element id.
func (e *Element) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// Tag returns the element tag name.
func (e *Element) Tag() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tag
}

// HasClass reports whether e carries class name.
func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.classes, name)
}

// AddClass implements widget.Element.
func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.Contains(e.classes, name) {
		e.classes = append(e.classes, name)
	}
}

// RemoveClass implements widget.Element.
func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == name })
}

// Value implements widget.Element.
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// SetValue changes the input value without dispatching any event.
func (e *Element) SetValue(value string) {
	e.mu.Lock()
	e.value = value
	e.mu.Unlock()
}

// SetText implements widget.Element.
func (e *Element) SetText(text string) {
	e.SetHTML(html.EscapeString(text))
}

// SetHTML implements widget.Element.
func (e *Element) SetHTML(markup string) {
	e.mu.Lock()
	e.inner = markup
	e.mu.Unlock()
}

// HTML returns the content markup.
func (e *Element) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inner
}

// QuerySelector implements widget.Element. It understands "#id", ".class"
// and bare tag names, matched against descendants of e.
func (e *Element) QuerySelector(selector string) widget.Element {
	var match func(*Element) bool
	switch {
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		match = func(c *Element) bool { return c.ID() == id }
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		match = func(c *Element) bool { return c.HasClass(class) }
	default:
		match = func(c *Element) bool { return c.Tag() == selector }
	}
	for _, c := range e.childList() {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// AddEventListener implements widget.Element.
func (e *Element) AddEventListener(event string, fn func()) {
	e.mu.Lock()
	e.listeners[event] = append(e.listeners[event], fn)
	e.mu.Unlock()
}

// Dispatch runs the listeners registered for event, in registration order.
func (e *Element) Dispatch(event string) {
	e.mu.Lock()
	fns := slices.Clone(e.listeners[event])
	e.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Type sets the input value and fires an input event, like one keystroke
// that leaves value in the box.
func (e *Element) Type(value string) {
	e.SetValue(value)
	e.Dispatch(widget.EventInput)
}

// Focus fires a focusin event.
func (e *Element) Focus() {
	e.Dispatch(widget.EventFocusIn)
}

// Blur fires a focusout event.
func (e *Element) Blur() {
	e.Dispatch(widget.EventFocusOut)
}

func (e *Element) childList() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.children)
}

// find walks e and its descendants depth first.
func (e *Element) find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.childList() {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// Link is an anchor found in element content.
type Link struct {
	Text string
	Href string
}

// Text returns the text content of the element markup.
func (e *Element) Text() string {
	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(e.HTML()))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return b.String()
		case nethtml.TextToken:
			b.Write(z.Text())
		}
	}
}

// Links parses the element markup and returns its anchors in document order.
func (e *Element) Links() []Link {
	var (
		out     []Link
		current *Link
		text    strings.Builder
	)
	z := nethtml.NewTokenizer(strings.NewReader(e.HTML()))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return out
		case nethtml.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" {
				continue
			}
			current = &Link{}
			text.Reset()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "href" {
					current.Href = string(val)
				}
			}
		case nethtml.TextToken:
			if current != nil {
				text.Write(z.Text())
			}
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && current != nil {
				current.Text = text.String()
				out = append(out, *current)
				current = nil
			}
		}
	}
}

// Items returns the number of <li> elements in the element markup.
func (e *Element) Items() int {
	n := 0
	z := nethtml.NewTokenizer(strings.NewReader(e.HTML()))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return n
		case nethtml.StartTagToken:
			if name, _ := z.TagName(); string(name) == "li" {
				n++
			}
		}
	}
}

var (
	_ widget.Document = (*Document)(nil)
	_ widget.Element  = (*Element)(nil)
)
