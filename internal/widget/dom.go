package widget

// Events the widget subscribes to on the search input.
const (
	EventFocusIn  = "focusin"
	EventFocusOut = "focusout"
	EventInput    = "input"
)

// Page contract: element ids, classes and selectors the widget looks up.
const (
	InputID         = "search-input"
	ResultsID       = "results-container"
	CountClass      = "show-results-count"
	CounterSelector = "#counter"
	ActiveClass     = "active"
)

// Document is the part of a rendering surface the widget needs. Lookups
// return nil when the element does not exist.
type Document interface {
	// ElementByID returns the element with the given id.
	ElementByID(id string) Element
	// FirstByClass returns the first element carrying the given class.
	FirstByClass(class string) Element
	// Location returns the absolute URL of the current page.
	Location() string
}

// Element is a single node of a Document.
type Element interface {
	// AddEventListener registers fn for the named event. Listeners run on the
	// document's event loop and must not block.
	AddEventListener(event string, fn func())
	// Value returns the current text of an input element.
	Value() string
	AddClass(name string)
	RemoveClass(name string)
	// QuerySelector returns the first descendant matching selector, or nil.
	QuerySelector(selector string) Element
	// SetText replaces the element content with plain text.
	SetText(text string)
	// SetHTML replaces the element content with an HTML fragment.
	SetHTML(markup string)
}
