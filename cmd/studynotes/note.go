package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes/pkg/core"
)

var (
	listJSON    bool
	listPage    int
	listLimit   int
	noteTitle   string
	noteSubject string
	noteHTML    string
	noteFile    string
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes"},
	Short:   "Create, read, update and trash notes",
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, one page at a time",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		page, err := app.Service.ListNotes(ctx, listPage, listLimit)
		if err != nil {
			fatal("Error listing notes", err)
		}
		printPage(page)
	},
}

var noteTrashListCmd = &cobra.Command{
	Use:   "trashed",
	Short: "List notes in the trash",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		page, err := app.Service.ListTrash(ctx, listPage, listLimit)
		if err != nil {
			fatal("Error listing trash", err)
		}
		printPage(page)
	},
}

var noteGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		note, err := app.Service.GetNote(ctx, args[0])
		if err != nil {
			fatal("Failed to read note", err)
		}
		if listJSON {
			printJSON(note)
			return
		}
		fmt.Printf("# %s\n\nsubject: %s\nupdated: %s\n\n%s\n", note.Title, note.SubjectID, note.UpdatedAt.Format("2006-01-02 15:04"), note.HTML)
	},
}

var noteCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		note, err := app.Service.CreateNote(ctx, noteInput())
		if err != nil {
			fatal("Failed to create note", err)
		}
		fmt.Printf("Note '%s' created (%s).\n", note.Title, note.ID)
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a note's title, subject and body",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		in := noteInput()
		// Unset fields keep their current value.
		if !cmd.Flags().Changed("title") || !cmd.Flags().Changed("subject") || (noteHTML == "" && noteFile == "") {
			current, err := app.Service.GetNote(ctx, args[0])
			if err != nil {
				fatal("Failed to read note", err)
			}
			if !cmd.Flags().Changed("title") {
				in.Title = current.Title
			}
			if !cmd.Flags().Changed("subject") {
				in.SubjectID = current.SubjectID
			}
			if noteHTML == "" && noteFile == "" {
				in.HTML = current.HTML
			}
		}

		note, err := app.Service.UpdateNote(ctx, args[0], in)
		if err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Printf("Note '%s' saved.\n", note.ID)
	},
}

var noteTrashCmd = &cobra.Command{
	Use:   "trash <id>",
	Short: "Move a note to the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)
		if err := app.Service.TrashNote(ctx, args[0]); err != nil {
			fatal("Failed to trash note", err)
		}
		fmt.Printf("Note '%s' moved to trash.\n", args[0])
	},
}

var noteRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Bring a note back from the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)
		if err := app.Service.RestoreNote(ctx, args[0]); err != nil {
			fatal("Failed to restore note", err)
		}
		fmt.Printf("Note '%s' restored.\n", args[0])
	},
}

var notePurgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Delete a note permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)
		if err := app.Service.PurgeNote(ctx, args[0]); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note '%s' deleted.\n", args[0])
	},
}

var noteSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		notes, err := app.Service.SearchNotes(ctx, args[0])
		if err != nil {
			fatal("Search failed", err)
		}
		printNotes(notes)
	},
}

var noteBySubjectCmd = &cobra.Command{
	Use:   "by-subject <subject-id>",
	Short: "List the notes of a subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		notes, err := app.Service.NotesBySubject(ctx, args[0])
		if err != nil {
			fatal("Error listing notes", err)
		}
		printNotes(notes)
	},
}

var notePDFCmd = &cobra.Command{
	Use:   "pdf <id>",
	Short: "Export a note to PDF and print its URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		url, err := app.Service.ExportPDF(ctx, args[0])
		if err != nil {
			fatal("Export failed", err)
		}
		fmt.Println(url)
	},
}

func noteInput() core.NoteInput {
	in := core.NoteInput{Title: noteTitle, SubjectID: noteSubject, HTML: noteHTML}
	if noteFile != "" {
		data, err := os.ReadFile(noteFile)
		if err != nil {
			fatal("Failed to read body file", err)
		}
		in.HTML = string(data)
	}
	return in
}

func printPage(page *core.NotePage) {
	if listJSON {
		printJSON(page)
		return
	}
	printNotes(page.Notes)
	fmt.Printf("-- page %d of %d\n", page.Page, page.TotalPages)
}

func printNotes(notes []core.Note) {
	if listJSON {
		printJSON(notes)
		return
	}
	for _, n := range notes {
		fmt.Printf("%s - %s\n", n.ID, n.Title)
	}
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteListCmd, noteTrashListCmd, noteGetCmd, noteCreateCmd, noteUpdateCmd,
		noteTrashCmd, noteRestoreCmd, notePurgeCmd, noteSearchCmd, noteBySubjectCmd, notePDFCmd)

	noteCmd.PersistentFlags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	for _, c := range []*cobra.Command{noteListCmd, noteTrashListCmd} {
		c.Flags().IntVar(&listPage, "page", 1, "Page number")
		c.Flags().IntVar(&listLimit, "limit", 10, "Notes per page")
	}
	for _, c := range []*cobra.Command{noteCreateCmd, noteUpdateCmd} {
		c.Flags().StringVar(&noteTitle, "title", "", "Note title")
		c.Flags().StringVar(&noteSubject, "subject", "", "Subject id")
		c.Flags().StringVar(&noteHTML, "html", "", "Note body as HTML")
		c.Flags().StringVar(&noteFile, "file", "", "Read the HTML body from a file")
	}
	noteCreateCmd.MarkFlagRequired("title")
	noteCreateCmd.MarkFlagRequired("subject")
}
