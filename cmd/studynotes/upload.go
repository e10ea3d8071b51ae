package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:       "upload <image|pdf|profile> <file>",
	Short:     "Upload a file to hosted storage and print its URL",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"image", "pdf", "profile"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		var upload func(ctx context.Context, name string, r io.Reader) (string, error)
		switch args[0] {
		case "image":
			upload = app.Service.UploadImage
		case "pdf":
			upload = app.Service.UploadPDF
		case "profile":
			upload = app.Service.UploadProfileImage
		default:
			fatal("Unknown upload kind", fmt.Errorf("%q (want image, pdf or profile)", args[0]))
		}

		f, err := os.Open(args[1])
		if err != nil {
			fatal("Failed to open file", err)
		}
		defer f.Close()

		url, err := upload(ctx, filepath.Base(args[1]), f)
		if err != nil {
			fatal("Upload failed", err)
		}
		fmt.Println(url)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
