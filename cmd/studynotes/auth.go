package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/studynotes/pkg/core"
)

var (
	authEmail    string
	authPassword string
	authUsername string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and manage the account",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)

		email := authEmail
		if email == "" {
			email = prompt("Email: ")
		}
		password := authPassword
		if password == "" {
			password = promptSecret("Password: ")
		}

		user, err := app.Service.Login(ctx, core.Credentials{Email: email, Password: password})
		if err != nil {
			fatal("Login failed", err)
		}
		fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		if err := app.Service.Logout(ctx); err != nil {
			fatal("Logout failed", err)
		}
		fmt.Println("Logged out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(context.Background())
		requireLogin(app)

		user := app.Session.User()
		if user == nil {
			fmt.Println("Authenticated (profile not loaded)")
			return
		}
		fmt.Printf("%s <%s> (%s)\n", user.Username, user.Email, user.ID)
		if exp, ok := app.Session.ExpiresAt(); ok {
			fmt.Printf("Token expires %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)

		password := authPassword
		if password == "" {
			password = promptSecret("Password: ")
		}
		err := app.Service.Register(ctx, core.Registration{
			Username: authUsername,
			Email:    authEmail,
			Password: password,
		})
		if err != nil {
			fatal("Registration failed", err)
		}
		fmt.Println("Account created. Run `studynotes auth login` to sign in.")
	},
}

var forgotCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)
		if err := app.Service.ForgotPassword(ctx, args[0]); err != nil {
			fatal("Request failed", err)
		}
		fmt.Println("If the address is registered, a reset link is on its way.")
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password with the emailed token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app := openApp(ctx)

		password := authPassword
		if password == "" {
			password = promptSecret("New password: ")
		}
		if err := app.Service.ResetPassword(ctx, args[0], password); err != nil {
			fatal("Reset failed", err)
		}
		fmt.Println("Password updated.")
	},
}

// stdin is shared so buffered input survives across prompts.
var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		fatal("Failed to read input", err)
	}
	return strings.TrimSpace(line)
}

func promptSecret(label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fatal("Failed to read password", err)
	}
	return string(secret)
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, forgotCmd, resetCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")
	}
	resetCmd.Flags().StringVar(&authPassword, "password", "", "New password (prompted when omitted)")
	registerCmd.Flags().StringVar(&authUsername, "username", "", "Display name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("username")
}
