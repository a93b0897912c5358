package widget

import "log/slog"

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the logger used for diagnostics. Everything the widget
// logs is debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLocation fixes the base used to resolve post URLs instead of asking
// the document on every render pass.
func WithLocation(location string) Option {
	return func(w *Widget) {
		w.location = location
	}
}
