// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cuacalab/forecast-api/cmd/app/commands"
)

const version = "2.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "forecast-api",
		Usage:   "Weather forecast gateway API",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "issue-token",
				Usage: "Issue a new API token for an organization",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "organization",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "Organization name the token belongs to",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Contact email for the token holder",
					},
					&cli.IntSliceFlag{
						Name:     "capability",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "Capability id to authorize (repeatable)",
					},
					&cli.BoolFlag{
						Name:    "activated",
						Aliases: []string{"a"},
						Value:   false,
						Usage:   "Whether the token may be used immediately",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					rawCapabilities := cmd.IntSlice("capability")
					capabilities := make([]int, len(rawCapabilities))
					for i, capability := range rawCapabilities {
						capabilities[i] = int(capability)
					}
					return commands.RunIssueToken(
						ctx,
						cmd.String("organization"),
						cmd.String("email"),
						capabilities,
						cmd.Bool("activated"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "activate-token",
				Usage: "Activate a previously issued API token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "The plain API token to activate",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunActivateToken(ctx, cmd.String("token"))
				},
			},
			{
				Name:  "import-forecast",
				Usage: "Import ten-day forecast rows from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Path to the JSON file with forecast rows",
					},
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Issue date (YYYY-MM-DD, defaults to today UTC)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunImportForecast(ctx, cmd.String("file"), cmd.String("date"))
				},
			},
			{
				Name:  "list-audit-logs",
				Usage: "List audit log entries ordered by request number descending",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "offset",
						Aliases: []string{"o"},
						Value:   0,
						Usage:   "Number of entries to skip",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   50,
						Usage:   "Maximum number of entries to print (1-100)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunListAuditLogs(
						ctx,
						int(cmd.Int("offset")),
						int(cmd.Int("limit")),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit logs older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit logs older than this many days",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many logs would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanAuditLogs(
						ctx,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-expired-tokens",
				Usage: "Delete tokens whose expiry passed more than specified days ago",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete tokens expired longer than this many days",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many tokens would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanExpiredTokens(
						ctx,
						int(cmd.Int("days")),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
