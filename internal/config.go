package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sitesearch/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	Site    SiteConfig        `yaml:"site"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig describes the directory of posts and which files in it
// are published.
type ContentConfig struct {
	Path string `yaml:"path"`
	// Include and Exclude are doublestar globs relative to Path. An empty
	// Include means storage.DefaultInclude.
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
	IncludeDrafts bool     `yaml:"include_drafts"`
}

// Filter returns the storage filter described by the config.
func (c *ContentConfig) Filter() storage.Filter {
	return storage.Filter{Include: c.Include, Exclude: c.Exclude}
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Filter().Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

// SiteConfig controls how the corpus and the search page are served.
type SiteConfig struct {
	Title string `yaml:"title"`
	// BaseURL is the public location relative post URLs resolve against
	// outside the browser (API and MCP search). Empty means request origin.
	BaseURL string `yaml:"base_url"`
	// AssetsDir holds widget.wasm and wasm_exec.js, served at /static.
	AssetsDir      string        `yaml:"assets_dir"`
	LiveReload     bool          `yaml:"live_reload"`
	ReloadThrottle time.Duration `yaml:"reload_throttle"`
	Debug          bool          `yaml:"debug"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.By(absoluteURL)),
		validation.Field(&c.ReloadThrottle, validation.Min(time.Duration(0))),
	)
}

// absoluteURL accepts an empty string or an absolute http(s) URL.
func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path:    "./content",
			Include: []string{"**/*.md"},
		},
		Site: SiteConfig{
			Title:          "Search",
			AssetsDir:      "./web",
			ReloadThrottle: 2 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: "./sitesearch.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
