package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes/pkg/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <note-id>",
	Short: "Take a generated quiz on a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ws := openWorkspace(ctx, args[0])
		// Attempt records are fire-and-forget; let them land before exiting.
		defer ws.Wait()

		session := ws.Quiz()
		if err := session.Start(ctx); err != nil {
			fatal("Failed to generate quiz", err)
		}

		for {
			v := session.View()
			if v.Status == quiz.StatusFinished {
				fmt.Printf("\nFinished: %d/%d correct.\n", v.Score, v.Total)
				if prompt("Try a new quiz? [y/N] ") != "y" {
					return
				}
				if err := session.Restart(ctx); err != nil {
					fatal("Failed to generate quiz", err)
				}
				continue
			}

			ans, err := session.Submit(ctx, ask(os.Stdout, v))
			if err != nil {
				fatal("Failed to submit answer", err)
			}
			if ans.Correct {
				fmt.Println("Correct!")
			} else {
				fmt.Printf("Wrong. The answer is %q.\n", ans.CorrectAnswer)
			}
			if _, err := session.Advance(); err != nil {
				fatal("Failed to advance", err)
			}
		}
	},
}

// ask shows the current question and returns the option to submit. A
// question without options is skipped by submitting a blank answer.
func ask(w io.Writer, v quiz.View) string {
	q := v.Question
	fmt.Fprintf(w, "\nQuestion %d/%d: %s\n", v.Index+1, v.Total, q.Prompt)
	if len(q.Options) == 0 {
		fmt.Fprintln(w, "This question has no options and will be skipped.")
		prompt("Press Enter to continue ")
		return ""
	}
	for i, o := range q.Options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, o)
	}
	return q.Options[pick(len(q.Options))]
}

// pick reads a 1-based option number until it is valid and returns it 0-based.
func pick(n int) int {
	for {
		line := prompt("> ")
		i, err := strconv.Atoi(line)
		if err == nil && i >= 1 && i <= n {
			return i - 1
		}
		fmt.Printf("Enter a number between 1 and %d.\n", n)
	}
}

func init() {
	rootCmd.AddCommand(quizCmd)
}
