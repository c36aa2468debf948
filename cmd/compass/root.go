package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"compassai/internal/app"
)

type cliOptions struct {
	configPath  string
	envFile     string
	apiURL      string
	catalogMode string
	storePath   string
	logLevel    string
	jsonOutput  bool
	// overrides holds the config keys set by flags given on the command line.
	overrides map[string]any
	logger    *zap.Logger
}

// newRootCommand builds the CLI. A non-nil logger replaces the configured one.
func newRootCommand(logger *zap.Logger) *cobra.Command {
	opts := cliOptions{
		overrides: map[string]any{},
		logger:    logger,
	}

	root := &cobra.Command{
		Use:           "compass",
		Short:         "CLI client for the CompassAI tool catalog",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file with COMPASS_* settings")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "backend base URL")
	root.PersistentFlags().StringVar(&opts.catalogMode, "catalog", "", "catalog source (remote or static)")
	root.PersistentFlags().StringVar(&opts.storePath, "store", "", "settings store file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.SetHelpCommand(newHelpCmd(&opts))
	root.AddCommand(
		newToolsCmd(&opts),
		newLikeCmd(&opts, true),
		newLikeCmd(&opts, false),
		newLoginCmd(&opts),
		newSignupCmd(&opts),
		newLogoutCmd(&opts),
		newWhoamiCmd(&opts),
		newProfileCmd(&opts),
		newApplyCmd(&opts),
		newAdminCmd(&opts),
		newBrowseCmd(&opts),
		newVersionCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "api":
			opts.apiURL, _ = flags.GetString("api")
			opts.overrides["api.baseURL"] = opts.apiURL
		case "catalog":
			opts.catalogMode, _ = flags.GetString("catalog")
			opts.overrides["catalog.mode"] = opts.catalogMode
		case "store":
			opts.storePath, _ = flags.GetString("store")
			opts.overrides["store.path"] = opts.storePath
		case "log-level":
			opts.logLevel, _ = flags.GetString("log-level")
			opts.overrides["log.level"] = opts.logLevel
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "env-file":
			opts.envFile, _ = flags.GetString("env-file")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		}
	})
}

// openApplication wires the services for one command run. The cleanup runs
// after Application.Close.
func (o *cliOptions) openApplication(ctx context.Context) (*app.Application, func(), error) {
	application, cleanup, err := app.InitializeApplication(ctx, app.Options{
		ConfigPath: o.configPath,
		EnvFile:    o.envFile,
		Overrides:  o.overrides,
	}, app.LoggingConfig{Logger: o.logger})
	if err != nil {
		return nil, nil, err
	}
	if o.logger == nil {
		o.logger = application.Logger
	}
	return application, cleanup, nil
}

// withApplication runs fn against a freshly wired application and closes it.
func withApplication(opts *cliOptions, fn func(cmd *cobra.Command, args []string, application *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		application, cleanup, err := opts.openApplication(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		defer func() {
			if closeErr := application.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}()
		return fn(cmd, args, application)
	}
}
