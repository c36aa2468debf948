package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compassai/internal/app"
	"compassai/internal/ui/tui"
)

func newBrowseCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			ctx := cmd.Context()
			if application.StaticMode() {
				if err := application.WatchDataset(ctx); err != nil {
					application.Logger.Warn("dataset watch disabled", zap.Error(err))
				}
			}
			session := application.Accounts.StartSession(ctx)
			defer session.Close()
			return tui.Run(tui.Config{
				Context:    ctx,
				Controller: application.Discovery,
				Source:     application.Source,
				Session:    session,
				Hub:        application.Hub,
				Likes:      application.Likes,
				Debounce:   application.Config.SearchDebounce(),
				PageSize:   application.Config.Catalog.PageSize,
			})
		}),
	}
}
