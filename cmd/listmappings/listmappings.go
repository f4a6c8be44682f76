package listmappings

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/control-frameworks/attackmap/internal/attack"
	"github.com/control-frameworks/attackmap/internal/mappings"
	"github.com/control-frameworks/attackmap/internal/report"
	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared"
	"github.com/control-frameworks/attackmap/pkg/shared/config"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// RunOptionsListMappings holds the flag values for the list-mappings command.
type RunOptionsListMappings struct {
	Controls string
	Mappings string
	Domain   string
	Version  string
	Output   string
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	logger      hclog.Logger
	listOptions RunOptionsListMappings

	exampleListMappingsUsage = `  # Render the mapping table as a CSV file
  attackmap list-mappings --controls controls.json --mappings mappings.json -o mappings.csv

  # Render the mapping table as Markdown for a specific ATT&CK version
  attackmap list-mappings --controls controls.json --mappings mappings.json --version v9.0 -o mappings.md`
)

// ListMappingsCmd represents the command for the list-mappings command.
var ListMappingsCmd = &cobra.Command{
	Use:                   "list-mappings --controls PATH --mappings PATH --output/-o PATH [--domain DOMAIN] [--version VERSION]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleListMappingsUsage,
	Short:                 "List control-to-technique mappings in a human-readable table",
	RunE:                  runListMappingsCommand,
}

// Init initializes the global configuration variables for the command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func init() {
	ListMappingsCmd.Flags().StringVar(&listOptions.Controls, "controls", "", "filepath to the STIX bundle of the control framework")
	ListMappingsCmd.Flags().StringVar(&listOptions.Mappings, "mappings", "", "filepath to the STIX bundle mapping the controls to ATT&CK")
	ListMappingsCmd.Flags().StringVar(&listOptions.Domain, "domain", config.DefaultAttackDomain, "the ATT&CK domain to use")
	ListMappingsCmd.Flags().StringVar(&listOptions.Version, "version", config.DefaultAttackVersion, "the ATT&CK version to use")
	ListMappingsCmd.Flags().StringVarP(&listOptions.Output, "output", "o", "", "filepath to write the mapping table to; the format is inferred from the extension")
}

func runListMappingsCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateListMappingsArgs(&listOptions); err != nil {
		logger.Error("invalid list-mappings arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid list-mappings arguments: %w", err), 1)
	}

	controlsBundle, err := stix.LoadBundleFile(listOptions.Controls)
	if err != nil {
		logger.Error("failed to load controls bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}
	mappingsBundle, err := stix.LoadBundleFile(listOptions.Mappings)
	if err != nil {
		logger.Error("failed to load mappings bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}

	attackStore, err := attack.NewClient(AppConfig, logger).Fetch(listOptions.Domain, listOptions.Version)
	if err != nil {
		logger.Error("failed to fetch ATT&CK data", "error", err)
		return errors.NewCommandError(err, 2)
	}

	resolved, err := mappings.Resolve(controlsBundle.Store(), attackStore, mappingsBundle.Store())
	if err != nil {
		logger.Error("failed to resolve mappings", "error", err)
		return errors.NewCommandError(err, 2)
	}

	if err := report.Write(listOptions.Output, resolved); err != nil {
		logger.Error("failed to write mapping report", "error", err)
		return errors.NewCommandError(err, 2)
	}

	logger.Info("mapping report written", "path", listOptions.Output, "rows", len(resolved))
	return nil
}
