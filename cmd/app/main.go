package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sitesearch/internal"
	pkgconfig "github.com/starford/sitesearch/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

// loadConfig reads the config file named by --config. The default path may
// be absent, in which case the built-in defaults apply; an explicit path
// must exist.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.Load[internal.Config]
	if configPath == defaultConfigPath {
		load = pkgconfig.LoadOptional[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Build(ctx, cmd.String("out"), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	return nil
}

func query(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("query: missing search text")
	}
	return internal.Query(ctx, internal.QueryParams{
		PageURL: cmd.String("url"),
		Query:   strings.Join(cmd.Args().Slice(), " "),
		Wait:    !cmd.Bool("no-wait"),
		Timeout: cmd.Duration("timeout"),
		Debug:   cmd.Bool("debug"),
	})
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.ServeMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "sitesearch",
		Usage:  "Title search for static sites: builds and serves /search.json and the search widget",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index the content directory, watch it, and serve the corpus, search page and API",
				Action: serve,
			},
			{
				Name:   "build",
				Usage:  "Index the content directory and write the corpus JSON",
				Action: build,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (- for stdout)",
						Value:   "search.json",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Run the search widget headlessly against a page and print the results",
				ArgsUsage: "QUERY",
				Action:    query,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Usage:   "Page URL the widget runs on; the corpus is fetched from /search.json on its origin",
						Value:   "http://localhost:8080/",
						Sources: cli.EnvVars("SITESEARCH_URL"),
					},
					&cli.BoolFlag{
						Name:  "no-wait",
						Usage: "Type the query without waiting for the corpus load",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Give up waiting for the corpus after this long",
						Value: 10 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Log widget diagnostics to stderr",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the search tools over MCP on stdin/stdout",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
