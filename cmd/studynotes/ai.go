package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Generate study aids from a note",
}

var summaryCmd = &cobra.Command{
	Use:   "summary <note-id>",
	Short: "Summarize a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws := openWorkspace(ctx, args[0])
		s, err := ws.Summary.Generate(ctx)
		if err != nil {
			fatal("Failed to generate summary", err)
		}
		fmt.Println(s.Text)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <note-id>",
	Short: "Explain a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws := openWorkspace(ctx, args[0])
		e, err := ws.Explanation.Generate(ctx)
		if err != nil {
			fatal("Failed to generate explanation", err)
		}
		fmt.Println(e.Text)
	},
}

var flashcardsCmd = &cobra.Command{
	Use:   "flashcards <note-id>",
	Short: "Generate flashcards and flip through them",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws := openWorkspace(ctx, args[0])
		cards, err := ws.LoadFlashcards(ctx)
		if err != nil {
			fatal("Failed to generate flashcards", err)
		}
		for i, c := range cards {
			fmt.Printf("[%d/%d] %s\n", i+1, len(cards), c.Front)
			prompt("  (enter to flip) ")
			ws.Deck.Flip(c.ID)
			fmt.Printf("  -> %s\n\n", c.Back)
		}
	},
}

func openWorkspace(ctx context.Context, noteID string) *studynotes.Workspace {
	app := openApp(ctx)
	requireLogin(app)
	ws := studynotes.NewWorkspace(app.Service, app.Logger)
	ws.SetNote(noteID)
	return ws
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(summaryCmd, explainCmd, flashcardsCmd)
}
