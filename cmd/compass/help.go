package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"compassai/internal/app"
	"compassai/internal/app/help"
)

// newHelpCmd replaces cobra's help command. "help <command>" still prints
// command usage; faq, contact and outbox are the help center.
func newHelpCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help center, or help about any command",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := cmd.Root().Find(args)
			if target == nil || err != nil {
				return cmd.Root().Usage()
			}
			target.InitDefaultHelpFlag()
			return target.Help()
		},
	}
	cmd.AddCommand(
		newHelpFAQCmd(opts),
		newHelpContactCmd(opts),
		newHelpOutboxCmd(opts),
	)
	return cmd
}

func newHelpFAQCmd(opts *cliOptions) *cobra.Command {
	var category, search string
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Search the frequently asked questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := help.Search(category, search)
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, map[string]any{"faqs": items})
			}
			if len(items) == 0 {
				fmt.Fprintln(out, help.NoResultsText)
				return nil
			}
			for _, faq := range items {
				fmt.Fprintf(out, "[%s] Q. %s\n", faq.Category, faq.Question)
				fmt.Fprintf(out, "A. %s\n\n", faq.Answer)
			}
			mutedColor.Fprintln(out, help.HoursText)
			mutedColor.Fprintln(out, help.StatusText)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", help.CategoryAll, "FAQ category")
	cmd.Flags().StringVar(&search, "search", "", "keyword in the question or answer")
	return cmd
}

func newHelpContactCmd(opts *cliOptions) *cobra.Command {
	var form help.ContactForm
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send an inquiry to the help center",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			msg, err := application.Help.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"contact": msg, "message": help.ReceivedText})
			}
			printSuccess(cmd.OutOrStdout(), help.ReceivedText)
			return nil
		}),
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "reply address")
	cmd.Flags().StringVar(&form.Topic, "topic", help.DefaultTopic, "inquiry topic")
	cmd.Flags().StringVar(&form.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&form.Message, "message", "", "inquiry text (at least 10 characters)")
	return cmd
}

func newHelpOutboxCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "outbox",
		Short: "List inquiries queued on this machine",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			pending, err := application.Help.Pending()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, map[string]any{"contacts": pending})
			}
			now := time.Now()
			for _, msg := range pending {
				fmt.Fprintf(out, "%s\t[%s] %s\t%s\n", msg.ID, msg.Topic, msg.Subject, humanize.RelTime(msg.CreatedAt, now, "전", "후"))
			}
			mutedColor.Fprintf(out, "총 %s건\n", humanize.Comma(int64(len(pending))))
			return nil
		}),
	}
}
