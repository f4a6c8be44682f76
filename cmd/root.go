package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/control-frameworks/attackmap/cmd/heatmaps"
	"github.com/control-frameworks/attackmap/cmd/listmappings"
	"github.com/control-frameworks/attackmap/cmd/parse"
	"github.com/control-frameworks/attackmap/cmd/version"
	"github.com/control-frameworks/attackmap/internal/logger"
	"github.com/control-frameworks/attackmap/pkg/shared/config"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "attackmap [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Attackmap turns control framework mappings into ATT&CK reports and heatmaps.",
		Long: `Attackmap works with security control frameworks (e.g. NIST 800-53) mapped to
ATT&CK techniques: it lists the mappings as human-readable tables and renders
ATT&CK Navigator heatmap layers scored by mapped-control coverage.
`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(listmappings.ListMappingsCmd)
	rootCmd.AddCommand(heatmaps.HeatmapsCmd)
	rootCmd.AddCommand(parse.ParseCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	configPath := cfgFile
	if configPath == "" {
		configPath = "config.yml"
	}
	AppConfig, err = config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config file %q: %v\n", configPath, err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.NewLogger(AppConfig, "attackmap")
	initCommands(AppConfig, log)
}

func initCommands(cfg *config.Config, log hclog.Logger) {
	listmappings.Init(cfg, log)
	heatmaps.Init(cfg, log)
	parse.Init(cfg, log)
}
