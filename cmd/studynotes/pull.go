package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Mirror every note into the local Markdown vault",
	Long: `Pull downloads all notes and writes each one as <id>.md with YAML
frontmatter into the vault directory. Notes unchanged since the last pull
are skipped.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		if _, err := app.OpenVault(ctx); err != nil {
			fatal("Failed to open vault", err)
		}
		res, err := app.Pull(ctx)
		if err != nil {
			fatal("Pull failed", err)
		}
		fmt.Printf("%d written, %d unchanged in %s\n", len(res.Written), len(res.Skipped), app.Vault.Path)
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
