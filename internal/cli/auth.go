package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worldatlas/worldatlas-go/internal/client"
	"github.com/worldatlas/worldatlas-go/internal/model"
)

var errNotLoggedIn = errors.New("not logged in, run `worldatlas login` first")

func (a *app) newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE:  a.runRegister,
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	return cmd
}

func (a *app) runRegister(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")

	name, err := a.prompt("Name", name)
	if err != nil {
		return err
	}
	email, err = a.prompt("Email", email)
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := a.promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	resp, err := a.api.Register(cmd.Context(), name, email, password)
	if err != nil {
		return err
	}
	return a.signIn(resp, "Registered")
}

func (a *app) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Args:  cobra.NoArgs,
		RunE:  a.runLogin,
	}
	cmd.Flags().String("email", "", "email address")
	return cmd
}

func (a *app) runLogin(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")

	email, err := a.prompt("Email", email)
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}

	resp, err := a.api.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	return a.signIn(resp, "Logged in")
}

func (a *app) signIn(resp model.AuthResponse, verb string) error {
	if err := a.session.Save(resp); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Fprintf(a.out, "%s as %s <%s>\n", verb, resp.Name, resp.Email)
	return nil
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session without contacting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok := a.session.User()
			if !ok {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			fmt.Fprintf(a.out, "%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
			return nil
		},
	}
}

func (a *app) newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch your profile, verifying the stored token",
		Long: `Fetch your profile from the API. A rejected token clears the
stored session.`,
		Args: cobra.NoArgs,
		RunE: a.runProfile,
	}
}

func (a *app) runProfile(cmd *cobra.Command, _ []string) error {
	if !a.session.LoggedIn() {
		return errNotLoggedIn
	}

	profile, err := a.api.Profile(cmd.Context(), a.session.Token())
	if err != nil {
		if client.IsUnauthorized(err) {
			if clearErr := a.session.Clear(); clearErr != nil {
				return errors.Join(err, clearErr)
			}
			return fmt.Errorf("session expired, please log in again: %w", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:    %s\nName:  %s\nEmail: %s\n", profile.ID, profile.Name, profile.Email)
	return nil
}
