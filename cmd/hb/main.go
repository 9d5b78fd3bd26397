package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/hal_browser/pkg/app"
	"github.com/Dicklesworthstone/hal_browser/pkg/config"
	"github.com/Dicklesworthstone/hal_browser/pkg/fetch"
	"github.com/Dicklesworthstone/hal_browser/pkg/updater"
	"github.com/Dicklesworthstone/hal_browser/pkg/version"
)

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("version") {
		fmt.Printf("hb %s\n", version.Version)
		if tag, page, err := updater.CheckForUpdates(); err == nil && tag != "" {
			fmt.Printf("update available: %s (%s)\n", tag, page)
		}
		return nil
	}

	cfg, configPath, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if path := cmd.String("export-svg"); path != "" {
		return app.ExportLinkMap(ctx, cfg, path)
	}

	// Piped output means a script is reading us; print links instead of
	// drawing a TUI into the pipe.
	if cmd.Bool("robot-links") || !term.IsTerminal(int(os.Stdout.Fd())) {
		return app.RobotLinks(ctx, cfg, os.Stdout)
	}

	return app.Run(ctx, app.WithConfig(cfg), app.WithConfigFile(configPath))
}

// buildConfig layers the configuration sources: defaults, then the config
// file, then environment variables and flags.
func buildConfig(cmd *cli.Command) (*config.Config, string, error) {
	cfg := config.NewDefaultConfig()

	path := cmd.String("config")
	if cmd.IsSet("config") {
		// An explicitly named config file must exist.
		if err := config.Load(path, cfg); err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
	} else if err := config.LoadIfPresent(path, cfg); err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	if v := cmd.String("username"); v != "" {
		cfg.Auth.Username = v
	}
	if v := cmd.String("password"); v != "" {
		cfg.Auth.Password = v
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if cmd.Bool("clutter") {
		cfg.Display.DeclutterLinks = false
	}
	if cmd.Bool("insecure") {
		cfg.Fetch.InsecureTLS = true
	}

	if uri := cmd.Args().First(); uri != "" {
		cfg.StartURI = uri
	} else if uri := os.Getenv("HB_URI"); uri != "" {
		cfg.StartURI = uri
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	return cfg, path, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "hb",
		Usage:     "Browse self-describing JSON REST APIs from the terminal",
		ArgsUsage: "[URI]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				Value:       config.DefaultConfigPath(),
				DefaultText: "~/.config/hb/config.yaml",
				Sources:     cli.EnvVars("HB_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username for HTTP basic auth",
				Sources: cli.EnvVars("HB_USERNAME"),
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password for HTTP basic auth",
				Sources: cli.EnvVars("HB_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:  "clutter",
				Usage: "Keep links arrays visible in the document body",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Accept self-signed TLS certificates",
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				DefaultText: "info",
			},
			&cli.BoolFlag{
				Name:  "robot-links",
				Usage: "Print discovered links as JSON and exit",
			},
			&cli.StringFlag{
				Name:  "export-svg",
				Usage: "Write the link map as an SVG diagram to `FILE` and exit",
			},
			&cli.BoolFlag{
				Name:  "version",
				Usage: "Print the version, check for updates, and exit",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hb: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode keeps the scripting contract of robot mode: 1 for transport
// failures, 2 for responses that are not valid JSON.
func exitCode(err error) int {
	var decode *fetch.DecodeError
	if errors.As(err, &decode) {
		return 2
	}
	return 1
}
