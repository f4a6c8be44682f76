package parse

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/control-frameworks/attackmap/internal/attack"
	"github.com/control-frameworks/attackmap/internal/parser"
	"github.com/control-frameworks/attackmap/pkg/shared"
	"github.com/control-frameworks/attackmap/pkg/shared/config"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// RunOptionsParse holds the flag values for the parse command.
type RunOptionsParse struct {
	ControlsTSV string
	MappingsTSV string
	Framework   string
	OutControls string
	OutMappings string
	Domain      string
	Version     string
}

// Global variables for configuration and command arguments
var (
	AppConfig    *config.Config
	logger       hclog.Logger
	parseOptions RunOptionsParse

	exampleParseUsage = `  # Build STIX bundles from the framework source files
  attackmap parse --controls-tsv controls.tsv --mappings-tsv mappings.tsv \
    --framework nist800-53-r4 --out-controls controls.json --out-mappings mappings.json`
)

// ParseCmd represents the command for the parse command.
var ParseCmd = &cobra.Command{
	Use:                   "parse --controls-tsv PATH --mappings-tsv PATH --framework NAME --out-controls PATH --out-mappings PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleParseUsage,
	Short:                 "Parse framework source files into STIX bundles",
	RunE:                  runParseCommand,
}

// Init initializes the global configuration variables for the command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func init() {
	ParseCmd.Flags().StringVar(&parseOptions.ControlsTSV, "controls-tsv", "", "tab-separated file of framework controls (ID, name, family, description)")
	ParseCmd.Flags().StringVar(&parseOptions.MappingsTSV, "mappings-tsv", "", "tab-separated file mapping control IDs to technique IDs")
	ParseCmd.Flags().StringVar(&parseOptions.Framework, "framework", "", "the name of the control framework")
	ParseCmd.Flags().StringVar(&parseOptions.OutControls, "out-controls", "", "output STIX bundle file for the controls; existing STIX IDs are reused")
	ParseCmd.Flags().StringVar(&parseOptions.OutMappings, "out-mappings", "", "output STIX bundle file for the mappings; existing STIX IDs are reused")
	ParseCmd.Flags().StringVar(&parseOptions.Domain, "domain", config.DefaultAttackDomain, "the ATT&CK domain to resolve techniques against")
	ParseCmd.Flags().StringVar(&parseOptions.Version, "version", config.DefaultAttackVersion, "the ATT&CK version to resolve techniques against")
}

func runParseCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateParseArgs(&parseOptions); err != nil {
		logger.Error("invalid parse arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid parse arguments: %w", err), 1)
	}

	// reuse IDs from previous builds so bundles stay diffable
	controlIDs, err := parser.HarvestIDs(parseOptions.OutControls)
	if err != nil {
		logger.Error("failed to read existing controls bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}
	mappingIDs, err := parser.HarvestIDs(parseOptions.OutMappings)
	if err != nil {
		logger.Error("failed to read existing mappings bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}

	controlsBundle, err := parser.ParseControls(parseOptions.ControlsTSV, parseOptions.Framework, controlIDs)
	if err != nil {
		logger.Error("failed to parse controls", "error", err)
		return errors.NewCommandError(err, 2)
	}

	attackStore, err := attack.NewClient(AppConfig, logger).Fetch(parseOptions.Domain, parseOptions.Version)
	if err != nil {
		logger.Error("failed to fetch ATT&CK data", "error", err)
		return errors.NewCommandError(err, 2)
	}

	mappingsBundle, err := parser.ParseMappings(parseOptions.MappingsTSV, controlsBundle, attackStore, mappingIDs)
	if err != nil {
		logger.Error("failed to parse mappings", "error", err)
		return errors.NewCommandError(err, 2)
	}

	if err := controlsBundle.WriteBundleFile(parseOptions.OutControls); err != nil {
		logger.Error("failed to write controls bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}
	if err := mappingsBundle.WriteBundleFile(parseOptions.OutMappings); err != nil {
		logger.Error("failed to write mappings bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}

	logger.Info("bundles written",
		"controls", parseOptions.OutControls, "objects", len(controlsBundle.Objects),
		"mappings", parseOptions.OutMappings, "relationships", len(mappingsBundle.Objects))
	return nil
}
