package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/adapters/lifecycle"
	"github.com/aretw0/studynotes/pkg/core"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Push local edits of vault notes back to the backend",
	Long: `Watch pulls the vault, then monitors it and uploads every note file
you save. Deleting a file locally does not delete the note remotely.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := openApp(ctx)
		requireLogin(app)

		vault, err := app.OpenVault(ctx)
		if err != nil {
			fatal("Failed to open vault", err)
		}
		if _, err := app.Pull(ctx); err != nil {
			fatal("Initial pull failed", err)
		}

		events, err := vault.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to watch vault", err)
		}
		src := lifecycle.NewSource(events,
			lifecycle.WithTypes(core.EventCreate, core.EventModify),
			lifecycle.WithOnDropped(func(e core.Event) {
				if e.Type == core.EventDelete {
					slog.Info("local file removed; remote note kept", "id", e.ID)
				}
			}),
		)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", vault.Path)
		for ev := range src.Events() {
			e, ok := ev.(core.Event)
			if !ok {
				continue
			}
			note, err := app.Push(ctx, e.ID)
			switch {
			case errors.Is(err, core.ErrSessionExpired):
				fatal("Stopped watching", err)
			case err != nil:
				slog.Error("push failed", "id", e.ID, "error", err)
			default:
				fmt.Printf("pushed %s (%s)\n", note.ID, note.Title)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", fs.DefaultPattern, "Glob of note files to watch")
}
