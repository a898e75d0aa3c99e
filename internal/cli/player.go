package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerMeCmd())

	return cmd
}

// authenticate posts to an auth endpoint, persists the session token, and
// prints the result.
func authenticate(path string, req map[string]string) error {
	var result AuthResult

	if err := client.Post(path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}

func newPlayerGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Create a guest player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/guest", map[string]string{
				"display_name": name,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/register", map[string]string{
				"display_name": name,
				"username":     user,
				"password":     pass,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate("/api/v1/players/login", map[string]string{
				"username": user,
				"password": pass,
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current player, including wallet balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
