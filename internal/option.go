package internal

import (
	"io"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	out    io.Writer
}

func newApplication(opts []Option) *application {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where command results (build to "-", query) are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		if w != nil {
			a.out = w
		}
	}
}
