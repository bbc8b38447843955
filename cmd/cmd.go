// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes the config file or prepares the journal database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file or initialize the database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Create the database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func treeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the label folder tree",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tree,
	}
}

// lsCommand lists the images and labels of one folder
func lsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List images and labels in a folder",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Only list images whose names fuzzy-match this query",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.List,
	}
}

func labelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "label",
		Usage: "Manage label folders",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a label folder",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Parent folder, relative to the workspace root",
					},
				},
				Action: r.CreateLabel,
			},
			{
				Name:  "list",
				Usage: "List labels created through labelgrid",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ListLabels,
			},
		},
	}
}

// assignCommand moves files into a label folder
func assignCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "assign",
		Usage:     "Move images into a label folder",
		ArgsUsage: "<files...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "label",
				Aliases:  []string{"l"},
				Usage:    "Label folder, relative to the workspace root",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Assign,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent assign batches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of batches to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "batch",
				Usage: "Show the individual moves of one batch",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and thumbnails",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the folder tree endpoint in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and label images in the terminal",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.TUI,
	}
}
