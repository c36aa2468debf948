package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"compassai/internal/app"
	"compassai/internal/app/submission"
	"compassai/internal/domain"
)

func newApplyCmd(opts *cliOptions) *cobra.Command {
	var (
		form     = submission.NewForm()
		logoPath string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit an AI service for review",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			if _, err := application.Accounts.RequireUser(cmd.Context()); err != nil {
				return err
			}
			var logo *submission.LogoFile
			if path := strings.TrimSpace(logoPath); path != "" {
				file, err := os.Open(path)
				if err != nil {
					fields := domain.FieldErrors{submission.FieldLogo: submission.LogoFailedText}
					return domain.E(domain.CodeInvalidArgument, "apply", submission.LogoFailedText, &domain.ValidationError{Fields: fields})
				}
				defer file.Close()
				logo = &submission.LogoFile{Name: path, Content: file}
			}
			result, err := application.Submissions.Submit(cmd.Context(), form, logo)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"applicationId": result.ApplicationID,
					"request":       result.Request,
					"message":       result.Message,
				})
			}
			printSuccess(cmd.OutOrStdout(), result.Message)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&form.Name, "name", "", "service name")
	flags.StringVar(&form.Website, "website", "", "website URL (http or https)")
	flags.StringVar(&form.Region, "region", form.Region, "service region")
	flags.StringVar(&form.Category, "category", form.Category, "category label or id")
	flags.StringVar(&form.SubTitle, "subtitle", "", "one-line summary")
	flags.StringVar(&form.Description, "description", "", "description")
	flags.StringVar(&form.Features, "features", "", "main features, comma separated")
	flags.StringVar(&form.Pricing, "pricing", "", "pricing")
	flags.StringVar(&form.Audience, "audience", "", "target users")
	flags.StringSliceVar(&form.Platforms, "platform", nil, "supported platform (repeatable)")
	flags.StringVar(&form.Extra, "extra", "", "anything else reviewers should know")
	flags.StringVar(&logoPath, "logo", "", "logo image file to upload")
	return cmd
}
