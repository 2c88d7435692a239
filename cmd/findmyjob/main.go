package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "findmyjob",
		Usage: "Job board service with faceted search and autocomplete",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on (overrides PORT)",
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Aliases: []string{"d"},
						Usage:   "Directory for the badger store, analytics and admin accounts (overrides DATA_DIR)",
					},
					&cli.StringFlag{
						Name:  "store",
						Usage: "Record store backend: badger or postgres (overrides STORE_BACKEND)",
					},
					&cli.StringFlag{
						Name:  "database-url",
						Usage: "Postgres connection string (overrides DATABASE_URL)",
					},
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Environment file to read before starting",
						Value: ".env",
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Filter and rank a JSON file of jobs and print the result",
				Action: queryCommand,
				Flags:  queryFlags(),
			},
			{
				Name:      "suggest",
				Usage:     "Print autocomplete suggestions for a prefix",
				ArgsUsage: "<query>",
				Action:    suggestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "jobs",
						Aliases:  []string{"j"},
						Usage:    "Path to a JSON array of jobs",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "location",
						Usage: "Suggest locations instead of keywords",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Maximum number of suggestions",
						Value: 2,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	installLogger(level)
	return nil
}

func parseLevel(levelStr string) (slog.Level, error) {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return level, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
	return level, nil
}

func installLogger(level slog.Level) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
