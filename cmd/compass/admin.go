package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"compassai/internal/app"
	"compassai/internal/app/moderation"
	"compassai/internal/domain"
)

const adminOnlyText = "관리자만 이용할 수 있습니다."

func newAdminCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review submitted AI applications",
	}
	cmd.AddCommand(
		newAdminListCmd(opts),
		newAdminStatusCmd(opts, domain.StatusApproved),
		newAdminStatusCmd(opts, domain.StatusRejected),
	)
	return cmd
}

// requireAdmin checks the session role; the offline sample queue needs none.
func requireAdmin(cmd *cobra.Command, application *app.Application) error {
	if application.StaticMode() {
		return nil
	}
	user, err := application.Accounts.RequireUser(cmd.Context())
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return domain.E(domain.CodePermissionDenied, "admin", adminOnlyText, domain.ErrPermission)
	}
	return nil
}

func loadQueue(cmd *cobra.Command, application *app.Application) error {
	if err := requireAdmin(cmd, application); err != nil {
		return err
	}
	return application.Moderation.Load(cmd.Context())
}

func newAdminListCmd(opts *cliOptions) *cobra.Command {
	var tab, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications by status",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			selected, err := moderation.ParseTab(tab)
			if err != nil {
				return err
			}
			if err := loadQueue(cmd, application); err != nil {
				return err
			}
			apps := application.Moderation.Filter(selected, search)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"tab": selected, "applications": apps})
			}
			printApplications(cmd.OutOrStdout(), apps, domain.NewLocalDateTime(time.Now()).Time)
			return nil
		}),
	}
	cmd.Flags().StringVar(&tab, "tab", string(moderation.TabPending), "PENDING, APPROVED, REJECTED or ALL")
	cmd.Flags().StringVar(&search, "search", "", "match name, applicant name or email")
	return cmd
}

func newAdminStatusCmd(opts *cliOptions, status domain.ApplicationStatus) *cobra.Command {
	var reason string
	use, short := "approve <id>", "Approve an application"
	if status == domain.StatusRejected {
		use, short = "reject <id>", "Reject an application"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(opts, func(cmd *cobra.Command, args []string, application *app.Application) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return domain.E(domain.CodeInvalidArgument, "admin", "잘못된 신청 번호입니다: "+args[0], domain.ErrInvalidRequest)
			}
			if err := loadQueue(cmd, application); err != nil {
				return err
			}
			updated, err := application.Moderation.SetStatus(cmd.Context(), id, status, reason)
			if err != nil {
				return err
			}
			view := application.Moderation.View()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"application": updated, "message": view.Info})
			}
			printSuccess(cmd.OutOrStdout(), view.Info)
			printApplications(cmd.OutOrStdout(), []domain.Application{updated}, domain.NewLocalDateTime(time.Now()).Time)
			return nil
		}),
	}
	if status == domain.StatusRejected {
		cmd.Flags().StringVar(&reason, "reason", "", "reject reason shown to the applicant")
	}
	return cmd
}
