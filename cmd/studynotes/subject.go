package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var subjectCmd = &cobra.Command{
	Use:     "subject",
	Aliases: []string{"subjects"},
	Short:   "Manage subjects",
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		subjects, err := app.Service.ListSubjects(ctx)
		if err != nil {
			fatal("Error listing subjects", err)
		}
		for _, s := range subjects {
			fmt.Printf("%s - %s\n", s.ID, s.Name)
		}
	},
}

var subjectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		s, err := app.Service.CreateSubject(ctx, args[0])
		if err != nil {
			fatal("Failed to create subject", err)
		}
		fmt.Printf("Subject '%s' created (%s).\n", s.Name, s.ID)
	},
}

var subjectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subject (its notes are kept)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		if err := app.Service.DeleteSubject(ctx, args[0]); err != nil {
			fatal("Failed to delete subject", err)
		}
		fmt.Printf("Subject '%s' deleted.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(subjectCmd)
	subjectCmd.AddCommand(subjectListCmd, subjectCreateCmd, subjectDeleteCmd)
}
