package main

import (
	"context"
	"fmt"

	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
	"github.com/urfave/cli/v3"
)

// authCommand handles Spotify OAuth2 authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "code",
				Usage: "Authorization code from the redirect URL",
			},
		},
		Action: r.Auth,
	}
}

// Auth prints the Spotify authorization URL, or exchanges an authorization
// code for a token when --code is provided.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	catalog, err := services.NewSpotifyCatalog(config.Spotify)
	if err != nil {
		return err
	}

	code := cmd.String("code")
	if code == "" {
		r.writePlain("Open the following URL in your browser and authorize access:\n\n")
		r.writePlain("%s\n\n", catalog.GetAuthURL(shared.GenerateID()))
		r.writePlain("Then run: syncify auth --code <code from the redirect URL>\n")
		return nil
	}

	r.logger.Info("exchanging authorization code")
	if err := catalog.Authenticate(ctx, code); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	tokenPath := services.TokenPath(config.Spotify)
	if err := services.SaveToken(tokenPath, catalog.Token()); err != nil {
		r.logger.Warn("failed to save token", "path", tokenPath, "error", err)
	} else {
		r.logger.Info("token saved", "path", tokenPath)
	}

	return r.writePlain("Authentication successful\n")
}
