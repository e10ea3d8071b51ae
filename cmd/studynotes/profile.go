package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studynotes/pkg/core"
)

var (
	profileUsername string
	profileImage    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the user profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		requireLogin(app)

		var (
			user *core.User
			err  error
		)
		if profileUsername != "" || profileImage != "" {
			user, err = app.Service.UpdateProfile(ctx, core.ProfileUpdate{Username: profileUsername, ImageURL: profileImage})
		} else {
			user, err = app.Service.Profile(ctx)
		}
		if err != nil {
			fatal("Profile request failed", err)
		}
		fmt.Printf("username: %s\nemail:    %s\nimage:    %s\n", user.Username, user.Email, user.ImageURL)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVar(&profileUsername, "username", "", "New display name")
	profileCmd.Flags().StringVar(&profileImage, "image-url", "", "New profile image URL (see `upload profile`)")
}
