package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/core"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session, backend and vault state",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		if _, err := app.OpenVault(ctx); err != nil {
			fatal("Failed to open vault", err)
		}

		if app.Config.Source != "" {
			fmt.Printf("config: %s\n", app.Config.Source)
		}
		for _, c := range app.Components() {
			var state any
			if in, ok := c.(introspection.Introspectable); ok {
				state = in.State()
			}
			fmt.Printf("%-12s %+v\n", c.ComponentType(), state)
		}

		if statusDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "app"
			config.SecondaryLabel = "studynotes"
			fmt.Println()
			fmt.Println(introspection.TreeDiagram(buildTree(app.Session.State().(core.SessionState), app.Vault.State().(fs.VaultState)), config))
		}
	},
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildTree maps state onto node statuses known to introspection.DefaultStyles().
func buildTree(session core.SessionState, vault fs.VaultState) statusNode {
	sessionStatus := "stopped"
	if session.Authenticated {
		sessionStatus = "running"
	}
	watcherStatus := "suspended"
	if vault.WatcherActive {
		watcherStatus = "running"
	}

	return statusNode{
		Name:     "studynotes",
		Status:   "running",
		Metadata: map[string]string{"type": "process"},
		Children: []statusNode{
			{
				Name:     "Session",
				Status:   sessionStatus,
				Metadata: map[string]string{"type": "container", "user": session.Username},
			},
			{
				Name:   "Vault",
				Status: "running",
				Metadata: map[string]string{
					"type":  "container",
					"path":  vault.Path,
					"notes": strconv.Itoa(vault.IndexedNotes),
				},
				Children: []statusNode{
					{Name: "Watcher", Status: watcherStatus, Metadata: map[string]string{"type": "goroutine"}},
				},
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Also print a Mermaid diagram")
}
