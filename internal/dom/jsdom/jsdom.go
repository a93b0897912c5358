//go:build js && wasm

// Package jsdom adapts the browser DOM, reached through syscall/js, to the
// widget's document interfaces.
package jsdom

import (
	"syscall/js"

	"github.com/starford/sitesearch/internal/widget"
)

// Document wraps the global document object.
type Document struct {
	v js.Value
}

// New returns the page's document.
func New() *Document {
	return &Document{v: js.Global().Get("document")}
}

// ElementByID implements widget.Document.
func (d *Document) ElementByID(id string) widget.Element {
	return wrap(d.v.Call("getElementById", id))
}

// FirstByClass implements widget.Document.
func (d *Document) FirstByClass(class string) widget.Element {
	list := d.v.Call("getElementsByClassName", class)
	if list.Length() == 0 {
		return nil
	}
	return wrap(list.Index(0))
}

// Location implements widget.Document.
func (d *Document) Location() string {
	return js.Global().Get("location").Get("href").String()
}

// Dataset returns the data-* attribute key of the root <html> element, or an
// empty string.
func (d *Document) Dataset(key string) string {
	v := d.v.Get("documentElement").Get("dataset").Get(key)
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

// Element wraps one DOM element.
type Element struct {
	v js.Value
}

func wrap(v js.Value) widget.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v}
}

// AddEventListener implements widget.Element. Listener functions stay
// registered for the lifetime of the page.
func (e *Element) AddEventListener(event string, fn func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	e.v.Call("addEventListener", event, cb)
}

// Value implements widget.Element.
func (e *Element) Value() string {
	v := e.v.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

// AddClass implements widget.Element.
func (e *Element) AddClass(name string) {
	e.v.Get("classList").Call("add", name)
}

// RemoveClass implements widget.Element.
func (e *Element) RemoveClass(name string) {
	e.v.Get("classList").Call("remove", name)
}

// QuerySelector implements widget.Element.
func (e *Element) QuerySelector(selector string) widget.Element {
	return wrap(e.v.Call("querySelector", selector))
}

// SetText implements widget.Element.
func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

// SetHTML implements widget.Element.
func (e *Element) SetHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

var (
	_ widget.Document = (*Document)(nil)
	_ widget.Element  = (*Element)(nil)
)
