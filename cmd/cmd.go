// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// reportFlags are shared by every command that emits a report.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the report to a file instead of stdout",
		},
	}
}

// syncCommand handles baseline capture and catalog mutation
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Baseline snapshot operations",
		Commands: []*cli.Command{
			{
				Name:   "refresh",
				Usage:  "Capture the current catalog and store it as the new baseline",
				Flags:  reportFlags(),
				Action: r.Refresh,
			},
			{
				Name:    "differences",
				Aliases: []string{"diff"},
				Usage:   "Compare the stored baseline against the current catalog",
				Flags:   reportFlags(),
				Action:  r.Differences,
			},
			{
				Name:  "update",
				Usage: "Record a fresh baseline and apply queued membership changes",
				Flags: append(reportFlags(),
					&cli.StringFlag{
						Name:     "changes",
						Usage:    "Path to a JSON file of queued membership changes",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report what would change without touching the catalog",
					},
				),
				Action: r.Update,
			},
		},
	}
}

// checkCommand handles reference validation
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate every URI reference in the current catalog",
		Flags: append(reportFlags(),
			&cli.BoolFlag{
				Name:  "simple",
				Usage: "Schema-only validation without remote queries",
			},
		),
		Commands: []*cli.Command{
			{
				Name:   "simple",
				Usage:  "Schema-only validation without remote queries",
				Flags:  reportFlags(),
				Action: r.SimpleCheck,
			},
		},
		Action: r.Check,
	}
}

// artworkCommand handles artwork reporting and extraction
func artworkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "artwork",
		Usage:  "Artwork reporting and reconciliation",
		Flags:  reportFlags(),
		Action: r.ArtworkExtractLocal,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Report artwork presence for every playlist and track",
				Flags:  reportFlags(),
				Action: r.ArtworkStatus,
			},
			{
				Name:    "missing",
				Aliases: []string{"no-images"},
				Usage:   "List entries with no artwork locally or remotely",
				Flags:   reportFlags(),
				Action:  r.ArtworkMissing,
			},
			{
				Name:   "extract-local",
				Usage:  "Upload local artwork to entries missing it on Spotify",
				Flags:  reportFlags(),
				Action: r.ArtworkExtractLocal,
			},
			{
				Name:   "extract-spotify",
				Usage:  "Download Spotify artwork for entries missing it locally",
				Flags:  reportFlags(),
				Action: r.ArtworkExtractSpotify,
			},
		},
	}
}
