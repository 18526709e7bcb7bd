package cmd

import (
	"github.com/spf13/cobra"

	"vsthost/internal/config"
	"vsthost/pkg/build"
)

// ParseArgs builds the session configuration from config.yaml (or the
// defaults) and the command line. The single optional argument is the
// plugin path. A nil config with a nil error means cobra handled the
// invocation itself (help or version) and there is nothing to render.
func ParseArgs(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	var options *config.Config

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [plugin-path]",
		Short:         buildInfo.Description,
		Long:          buildInfo.Description + ".\n\nSettings are read from config.yaml in the working directory when present.",
		Version:       buildInfo.String(),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig("")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Plugin.Path = args[0]
			}
			options = cfg
			return cfg.Validate()
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
