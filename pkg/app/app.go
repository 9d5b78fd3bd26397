// Package app provides the main application initialization and runtime
// logic: it assembles transport, history, session, watchers, and the
// terminal program, and runs them until the user quits.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/hal_browser/pkg/config"
	"github.com/Dicklesworthstone/hal_browser/pkg/fetch"
	"github.com/Dicklesworthstone/hal_browser/pkg/history"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
	"github.com/Dicklesworthstone/hal_browser/pkg/ui"
	"github.com/Dicklesworthstone/hal_browser/pkg/watcher"
)

// Run starts the browser with the given options and blocks until it exits.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("start_uri", cfg.StartURI),
		slog.String("log_file", cfg.Log.File),
		slog.Bool("declutter", cfg.Display.DeclutterLinks),
		slog.Bool("history", !cfg.History.Disable))

	// Ask for the password up front, while stdin is still a plain terminal.
	if cfg.Auth.Username != "" && cfg.Auth.Password == "" {
		password, err := promptPassword(cfg.Auth.Username)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		cfg.Auth.Password = password
	}

	client := newClient(cfg)

	var visits *history.DB
	if !cfg.History.Disable && cfg.History.Path != "" {
		visits, err = history.OpenDB(cfg.History.Path)
		if err != nil {
			// The browser works fine without history; never block startup
			// on it.
			logger.Warn("history unavailable", slog.String("error", err.Error()))
			visits = nil
		} else {
			defer visits.Close()
		}
	}

	sess := session.New(ctx)
	sess.SetDeclutter(cfg.Display.DeclutterLinks)

	browser := ui.NewBrowserModel(sess, client, ui.DefaultTheme(lipgloss.DefaultRenderer()))
	browser.SetStartURI(cfg.StartURI)
	browser.SetHistory(visits)
	browser.SetLogger(logger)

	program := tea.NewProgram(ui.NewBrowserProgram(browser), tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(runCtx)

	// The TUI itself.
	g.Go(func() error {
		// Once the TUI exits the watchers have nobody to talk to.
		defer cancel()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	// Config hot-reload: changed display or credential settings reach the
	// running browser without a restart.
	if app.configFile != "" {
		path := app.configFile
		w := watcher.NewFileWatcher(path, func() {
			msg, err := reloadConfig(path)
			if err != nil {
				logger.Warn("config reload failed", slog.String("error", err.Error()))
				return
			}
			logger.Info("config file changed", slog.String("path", path))
			program.Send(msg)
		})
		g.Go(func() error {
			return w.Watch(gCtx)
		})
	}

	// Live-reload for local snapshots: when the browsed file changes on
	// disk the TUI refetches it.
	if path := localPath(cfg.StartURI); path != "" {
		w := watcher.NewFileWatcher(path, func() {
			program.Send(ui.FileChangedMsg{Path: path})
		})
		g.Go(func() error {
			return w.Watch(gCtx)
		})
		logger.Info("watching local snapshot", slog.String("path", path))
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			program.Quit()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Browser exited")
	return nil
}

// newLogger opens the log file and builds a JSON logger on it. The TUI
// owns the terminal, so nothing may log to stdout or stderr.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return logger, func() { f.Close() }, nil
}

// newClient builds the document client from the configured transport
// settings.
func newClient(cfg *config.Config) *fetch.Client {
	return fetch.NewClient(
		fetch.WithCredentials(cfg.Auth.Username, cfg.Auth.Password),
		fetch.WithTimeout(cfg.Fetch.Timeout()),
		fetch.WithInsecureTLS(cfg.Fetch.InsecureTLS),
	)
}

// promptPassword asks for the basic-auth password before the TUI takes
// over the terminal.
func promptPassword(username string) (string, error) {
	var password string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Password for " + username).
			EchoMode(huh.EchoModePassword).
			Value(&password),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}

// reloadConfig re-reads the config file and converts it into the message
// the running browser applies. Credential changes only take effect when
// the file carries a complete pair; the TUI owns the terminal, so there
// is no way to prompt again.
func reloadConfig(path string) (ui.ConfigReloadedMsg, error) {
	cfg := config.NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		return ui.ConfigReloadedMsg{}, err
	}
	msg := ui.ConfigReloadedMsg{Declutter: cfg.Display.DeclutterLinks}
	if cfg.Auth.Username == "" || cfg.Auth.Password != "" {
		msg.Fetcher = newClient(cfg)
	}
	return msg, nil
}

// localPath returns the filesystem path when the URI addresses a local
// file, "" otherwise. Mirrors the scheme dispatch of the fetcher.
func localPath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "file":
		return u.Path
	case "":
		return uri
	}
	return ""
}
