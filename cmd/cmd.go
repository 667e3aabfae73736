// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes the config file and prepares the store
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file or initialize the request store",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the request store and run migrations (sqlite)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead (sqlite)",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// requestsCommand handles organizer operations on track requests
func requestsCommand(r *Runner) *cli.Command {
	uriArg := []cli.Argument{&cli.StringArg{Name: "uri", UsageText: "spotify:track:<id>"}}

	return &cli.Command{
		Name:    "requests",
		Aliases: []string{"req"},
		Usage:   "Review guest track requests",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List requests",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter by status (pending, confirmed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RequestsList,
			},
			{
				Name:      "confirm",
				Usage:     "Confirm a request",
				Arguments: uriArg,
				Action:    r.RequestsConfirm,
			},
			{
				Name:      "manual-added",
				Usage:     "Mark a request as added to the playlist by hand",
				Arguments: uriArg,
				Action:    r.RequestsManualAdded,
			},
			{
				Name:      "delete",
				Usage:     "Delete a request permanently",
				Arguments: uriArg,
				Action:    r.RequestsDelete,
			},
			{
				Name:  "export",
				Usage: "Export requests (csv, markdown, txt, json)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt, json",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter by status (pending, confirmed)",
					},
				},
				Action: r.RequestsExport,
			},
		},
	}
}

// searchCommand runs a track search from the terminal
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tracks (Spotify, falling back to the local dataset)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results (1-50)",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// tokenCommand inspects the catalog token cache
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Catalog token operations",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Fetch a token and report cache status (the token itself is never printed)",
				Action: r.TokenStatus,
			},
		},
	}
}
