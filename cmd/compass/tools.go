package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"compassai/internal/app"
	"compassai/internal/app/catalog"
	"compassai/internal/domain"
	infracatalog "compassai/internal/infra/catalog"
)

type listFlags struct {
	category string
	search   string
	origin   string
	page     int
	size     int
}

func (f *listFlags) bind(cmd *cobra.Command, withPaging bool) {
	cmd.Flags().StringVar(&f.category, "category", "", "category id or label (unknown values list everything)")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	if withPaging {
		cmd.Flags().StringVar(&f.origin, "origin", "", "origin filter (국내 or 해외)")
		cmd.Flags().IntVar(&f.page, "page", 0, "zero-based page number")
		cmd.Flags().IntVar(&f.size, "size", 0, "page size (defaults to catalog.pageSize)")
	}
}

// categoryID resolves an id or label; unresolved values mean no constraint.
func (f *listFlags) categoryID() string {
	id, _ := catalog.ResolveID(f.category)
	return id
}

func newToolsCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Browse the tool catalog",
	}
	cmd.AddCommand(
		newToolsListCmd(opts),
		newToolsGetCmd(opts),
		newToolsLikedCmd(opts),
		newToolsExportCmd(opts),
		newToolsCategoriesCmd(opts),
	)
	return cmd
}

func newToolsListCmd(opts *cliOptions) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of tools",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			size := flags.size
			if size <= 0 {
				size = application.Config.Catalog.PageSize
			}
			q := catalog.Query{
				Category: flags.categoryID(),
				Term:     flags.search,
				Origin:   flags.origin,
				Page:     flags.page,
				Size:     size,
			}
			snap, err := application.ListTools(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), snap, opts.jsonOutput)
		}),
	}
	flags.bind(cmd, true)
	return cmd
}

func newToolsGetCmd(opts *cliOptions) *cobra.Command {
	var withLike bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one tool",
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(opts, func(cmd *cobra.Command, args []string, application *app.Application) error {
			id, err := domain.ParseToolID(args[0])
			if err != nil {
				return domain.E(domain.CodeInvalidArgument, "get tool", err.Error(), domain.ErrInvalidRequest)
			}
			tool, err := application.GetTool(cmd.Context(), id)
			if err != nil {
				return err
			}
			var like *domain.LikeStatus
			if withLike {
				status, err := application.Likes.Status(cmd.Context(), id)
				if err != nil {
					return err
				}
				like = &status
			}
			return printTool(cmd.OutOrStdout(), tool, like, opts.jsonOutput)
		}),
	}
	cmd.Flags().BoolVar(&withLike, "like", false, "also show the like state (requires login)")
	return cmd
}

func newToolsLikedCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "liked",
		Short: "List the tools you liked",
		Args:  cobra.NoArgs,
		RunE: withApplication(opts, func(cmd *cobra.Command, _ []string, application *app.Application) error {
			tools, err := application.Client.MyLikes(cmd.Context())
			if err != nil {
				return err
			}
			return printToolList(cmd.OutOrStdout(), tools, opts.jsonOutput)
		}),
	}
}

func newToolsExportCmd(opts *cliOptions) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the catalog to a yaml, toml or json dataset file",
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(opts, func(cmd *cobra.Command, args []string, application *app.Application) error {
			tools, err := application.CollectTools(cmd.Context(), flags.categoryID(), flags.search)
			if err != nil {
				return err
			}
			if err := infracatalog.Export(args[0], tools); err != nil {
				return domain.Wrap(domain.CodeInternal, "export tools", err)
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"path": args[0], "count": len(tools)})
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s개 도구를 %s에 저장했습니다.", humanize.Comma(int64(len(tools))), args[0]))
			return nil
		}),
	}
	flags.bind(cmd, false)
	return cmd
}

func newToolsCategoriesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories := catalog.All()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"categories": categories})
			}
			for _, category := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", category.ID, category.Label)
			}
			return nil
		},
	}
}

// newLikeCmd builds "like" or "unlike". Requesting the current state again
// issues no write.
func newLikeCmd(opts *cliOptions, liked bool) *cobra.Command {
	use, short, done := "like <id>", "Like a tool", "좋아요를 눌렀습니다."
	if !liked {
		use, short, done = "unlike <id>", "Remove your like from a tool", "좋아요를 취소했습니다."
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApplication(opts, func(cmd *cobra.Command, args []string, application *app.Application) error {
			id, err := domain.ParseToolID(args[0])
			if err != nil {
				return domain.E(domain.CodeInvalidArgument, "like", err.Error(), domain.ErrInvalidRequest)
			}
			if _, err := application.Accounts.RequireUser(cmd.Context()); err != nil {
				return err
			}
			status, err := application.Likes.Status(cmd.Context(), id)
			if err != nil {
				return err
			}
			if status.Liked != liked {
				if status, err = application.Likes.Toggle(cmd.Context(), id); err != nil {
					return err
				}
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"like": status})
			}
			printSuccess(cmd.OutOrStdout(), done)
			printLike(cmd.OutOrStdout(), status)
			return nil
		}),
	}
}
