package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/studenthub/studenthub/internal"
	"github.com/studenthub/studenthub/internal/client"
	"github.com/studenthub/studenthub/internal/ideaservice"
	"github.com/studenthub/studenthub/internal/identity"
	"github.com/studenthub/studenthub/internal/reconcile"
	pkgconfig "github.com/studenthub/studenthub/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
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

// newController builds the sync controller from config, bootstraps it and
// binds the remote client to the logged-in identity.
func newController(cmd *cli.Command) (*reconcile.Controller, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cache, err := client.NewCache(cfg.Client.CacheDir)
	if err != nil {
		return nil, err
	}

	remote := client.New(cfg.Client.BaseURL)
	ctrl := reconcile.New(remote, cache)
	if _, err := ctrl.Bootstrap(); err != nil {
		return nil, err
	}

	user := identity.DefaultUser
	if profile, err := ctrl.CurrentUser(); err == nil && profile != nil {
		user = profile.Name
	}
	remote.SetUser(user)

	return ctrl, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func idArg(cmd *cli.Command) (int, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("an idea id is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid idea id %q", raw)
	}
	return id, nil
}

func clientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list",
			Usage: "Show the locally displayed ideas (cache-first, no remote call)",
			Action: func(_ context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				snap := ctrl.Snapshot()
				fmt.Fprintf(os.Stderr, "state: %s (%d ideas)\n", snap.State, len(snap.Posts))
				return printJSON(snap.Posts)
			},
		},
		{
			Name:  "refresh",
			Usage: "Fetch ideas from the server and reconcile with the local cache",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				snap, err := ctrl.Refresh(ctx)
				if err != nil {
					return err
				}
				if snap.Err != "" {
					fmt.Fprintln(os.Stderr, snap.Err)
				}
				fmt.Fprintf(os.Stderr, "state: %s (%d ideas)\n", snap.State, len(snap.Posts))
				return printJSON(snap.Posts)
			},
		},
		{
			Name:  "add",
			Usage: "Create a new idea or task (falls back to an offline post when the server is down)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Required: true, Usage: "Post title"},
				&cli.StringFlag{Name: "description", Required: true, Usage: "Post description"},
				&cli.StringFlag{Name: "category", Usage: "Category (defaults to Other)"},
				&cli.StringFlag{Name: "type", Usage: "Post type: idea or task"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				post, err := ctrl.Create(ctx, ideaservice.CreateInput{
					Title:       cmd.String("title"),
					Description: cmd.String("description"),
					Category:    cmd.String("category"),
					Type:        cmd.String("type"),
				})
				if err != nil {
					return err
				}
				if post.ClientID != "" {
					fmt.Fprintln(os.Stderr, "server unreachable, created offline")
				}
				return printJSON(post)
			},
		},
		{
			Name:      "like",
			Usage:     "Toggle the like on an idea",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				id, err := idArg(cmd)
				if err != nil {
					return err
				}
				return ctrl.ToggleLike(ctx, id)
			},
		},
		{
			Name:      "comment",
			Usage:     "Comment on an idea",
			ArgsUsage: "<id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "text", Required: true, Usage: "Comment text"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				id, err := idArg(cmd)
				if err != nil {
					return err
				}
				comment, err := ctrl.AddComment(ctx, id, cmd.String("text"))
				if err != nil {
					return err
				}
				return printJSON(comment)
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete one of your own ideas",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				id, err := idArg(cmd)
				if err != nil {
					return err
				}
				return ctrl.Delete(ctx, id)
			},
		},
		{
			Name:  "login",
			Usage: "Store a mock local profile (no credentials are verified)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true, Usage: "Display name"},
				&cli.StringFlag{Name: "email", Required: true, Usage: "Email address"},
			},
			Action: func(_ context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				profile, err := ctrl.Login(cmd.String("name"), cmd.String("email"))
				if err != nil {
					return err
				}
				return printJSON(profile)
			},
		},
		{
			Name:  "logout",
			Usage: "Remove the locally stored profile",
			Action: func(_ context.Context, cmd *cli.Command) error {
				ctrl, err := newController(cmd)
				if err != nil {
					return err
				}
				return ctrl.Logout()
			},
		},
	}
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "studenthub",
		Usage: "Social posting board for students: share ideas and tasks, like them, comment on them",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the StudentHub API server",
				Action: serve,
			},
			{
				Name:     "client",
				Usage:    "Drive the sync client against a running server",
				Commands: clientCommands(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
