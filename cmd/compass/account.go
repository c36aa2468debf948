package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"compassai/internal/app"
	"compassai/internal/app/account"
	"compassai/internal/domain"
)

// readSecret returns the flag value, or the first line of stdin when
// fromStdin is set.
func readSecret(in io.Reader, value string, fromStdin bool) (string, error) {
	if !fromStdin {
		return value, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(opts *cliOptions) *cobra.Command {
	var (
		form          account.LoginForm
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in; the session cookie is kept for later commands",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			password, err := readSecret(cmd.InOrStdin(), form.Password, passwordStdin)
			if err != nil {
				return err
			}
			form.Password = password
			if strings.TrimSpace(form.Email) == "" {
				form.Email = application.Accounts.RememberedEmail()
			}
			user, err := application.Accounts.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"user": user})
			}
			printSuccess(cmd.OutOrStdout(), user.Name+"님, 환영합니다.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email (defaults to the remembered one)")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().BoolVar(&form.Remember, "remember", false, "remember the email for the next login")
	return cmd
}

func newSignupCmd(opts *cliOptions) *cobra.Command {
	var form account.SignupForm
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			if !cmd.Flags().Changed("confirm") {
				form.Confirm = form.Password
			}
			user, err := application.Accounts.Signup(cmd.Context(), form)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"user": user})
			}
			printSuccess(cmd.OutOrStdout(), "회원가입이 완료되었습니다. "+user.Name+"님, 환영합니다.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email")
	cmd.Flags().StringVar(&form.Password, "password", "", "password (at least 8 characters)")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "password confirmation (defaults to --password)")
	cmd.Flags().BoolVar(&form.Agree, "agree", false, "agree to the terms of service")
	return cmd
}

func newLogoutCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			if err := application.Accounts.Logout(cmd.Context()); err != nil {
				return err
			}
			application.Likes.Forget()
			return printMessage(cmd.OutOrStdout(), "로그아웃되었습니다.", opts.jsonOutput)
		}),
	}
}

func newWhoamiCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			user, err := application.Accounts.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			return printUser(cmd.OutOrStdout(), user, opts.jsonOutput)
		}),
	}
}

func newProfileCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your account",
	}
	cmd.AddCommand(
		newProfileShowCmd(opts),
		newProfileUpdateCmd(opts),
		newProfilePasswordCmd(opts),
	)
	return cmd
}

func newProfileShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your account and AI applications",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			page, err := application.Accounts.LoadMyPage(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				payload := map[string]any{"user": page.User, "applications": page.Applications}
				if page.ApplicationsErr != "" {
					payload["applicationsError"] = page.ApplicationsErr
				}
				return writeJSON(out, payload)
			}
			if err := printUser(out, page.User, false); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if page.ApplicationsErr != "" {
				failureColor.Fprintln(out, "✗ "+page.ApplicationsErr)
				return nil
			}
			printApplications(out, page.Applications, domain.NewLocalDateTime(time.Now()).Time)
			return nil
		}),
	}
}

func newProfileUpdateCmd(opts *cliOptions) *cobra.Command {
	var form account.ProfileForm
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name or email",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			current, err := application.Accounts.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				form.Name = current.Name
			}
			if !cmd.Flags().Changed("email") {
				form.Email = current.Email
			}
			user, err := application.Accounts.UpdateProfile(cmd.Context(), current, form)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"user": user, "message": account.ProfileSavedText})
			}
			printSuccess(cmd.OutOrStdout(), account.ProfileSavedText)
			return printUser(cmd.OutOrStdout(), user, false)
		}),
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "new display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "new email")
	return cmd
}

func newProfilePasswordCmd(opts *cliOptions) *cobra.Command {
	var form account.PasswordForm
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			if !cmd.Flags().Changed("confirm") {
				form.Confirm = form.New
			}
			if err := application.Accounts.ChangePassword(cmd.Context(), form); err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), account.PasswordChangedText, opts.jsonOutput)
		}),
	}
	cmd.Flags().StringVar(&form.Current, "current", "", "current password")
	cmd.Flags().StringVar(&form.New, "new", "", "new password (at least 8 characters)")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "new password confirmation (defaults to --new)")
	return cmd
}
