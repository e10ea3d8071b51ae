package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes"
)

var (
	verbose  bool
	baseURL  string
	stateDir string
	vaultDir string
	unsafe   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studynotes",
	Short: "Command-line client for the study-notes backend",
	Long: `studynotes manages your notes and subjects, generates summaries,
explanations, flashcards and quizzes from them, and mirrors notes into a
local Markdown vault.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory holding the session token")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "", "Local note vault directory")
	rootCmd.PersistentFlags().BoolVar(&unsafe, "unsafe", false, "Disable the dev-run sandbox (go run)")
}

// openApp loads configuration, applies flags and restores the saved session.
func openApp(ctx context.Context) *studynotes.App {
	wd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	cfg, err := studynotes.LoadConfig(wd)
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	if vaultDir != "" {
		cfg.VaultDir = vaultDir
	}
	if !verbose && cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err == nil {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		}
	}

	app, err := studynotes.New(cfg,
		studynotes.WithLogger(slog.Default()),
		studynotes.WithDevSafety(!unsafe),
		studynotes.WithOnExpired(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run `studynotes auth login` to sign in again.")
		}),
	)
	if err != nil {
		fatal("Failed to initialize studynotes", err)
	}
	if err := app.Restore(ctx); err != nil {
		fatal("Failed to restore session", err)
	}
	return app
}

// requireLogin exits unless a session is active.
func requireLogin(app *studynotes.App) {
	if !app.Session.Authenticated() {
		fmt.Fprintln(os.Stderr, "Not logged in. Run `studynotes auth login` first.")
		os.Exit(1)
	}
}
