package cmd

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/m96-chan/mentio/internal/app"
	"github.com/m96-chan/mentio/internal/config"
	"github.com/m96-chan/mentio/internal/keyring"
	"github.com/m96-chan/mentio/internal/logger"
)

// Build metadata, set by main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Run parses CLI flags, sets up logging and config, and starts the app.
func Run() error {
	configPath := flag.String("config-path", config.DefaultPath(), "path to config file")
	logPath := flag.String("log-path", logger.DefaultPath(), "path to log file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	directory := flag.String("directory", "", "directory seed file or Slack export dir (overrides config)")
	self := flag.String("self", "", "ID of the current user (overrides config)")
	userToken := flag.String("user-token", "", "store a Slack user token (xoxp-) in the keyring")
	appToken := flag.String("app-token", "", "store a Slack app-level token (xapp-) in the keyring")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mentio %s (%s, %s)\n", Version, Commit, Date)
		return nil
	}

	if err := logger.Setup(*logPath, logger.ParseLevel(*logLevel)); err != nil {
		return err
	}

	slog.Info("starting mentio", "version", Version, "config", *configPath, "log", *logPath)

	if err := storeTokens(*userToken, *appToken); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *directory != "" {
		cfg.Directory = *directory
	}
	if *self != "" {
		cfg.SelfID = *self
	}

	return app.New(cfg).Run()
}

// storeTokens saves the tokens given on the command line. Empty tokens are
// left untouched.
func storeTokens(userToken, appToken string) error {
	if userToken != "" {
		if err := keyring.SetUserToken(userToken); err != nil {
			return fmt.Errorf("storing user token: %w", err)
		}
		slog.Info("stored user token")
	}
	if appToken != "" {
		if err := keyring.SetAppToken(appToken); err != nil {
			return fmt.Errorf("storing app token: %w", err)
		}
		slog.Info("stored app token")
	}
	return nil
}
