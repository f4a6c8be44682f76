package heatmaps

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/control-frameworks/attackmap/internal/attack"
	"github.com/control-frameworks/attackmap/internal/heatmap"
	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared"
	"github.com/control-frameworks/attackmap/pkg/shared/config"
	"github.com/control-frameworks/attackmap/pkg/shared/errors"
)

// RunOptionsHeatmaps holds the flag values for the heatmaps command.
type RunOptionsHeatmaps struct {
	Framework string
	Controls  string
	Mappings  string
	Domain    string
	Version   string
	Output    string
}

// Global variables for configuration and command arguments
var (
	AppConfig      *config.Config
	logger         hclog.Logger
	heatmapOptions RunOptionsHeatmaps

	exampleHeatmapsUsage = `  # Generate Navigator layers for a framework under ./layers
  attackmap heatmaps --framework nist800-53-r4 --controls controls.json --mappings mappings.json -o layers

  # Generate layers for the mobile ATT&CK domain
  attackmap heatmaps --framework nist800-53-r4 --controls controls.json --mappings mappings.json --domain mobile-attack -o layers`
)

// HeatmapsCmd represents the command for the heatmaps command.
var HeatmapsCmd = &cobra.Command{
	Use:                   "heatmaps --framework NAME --controls PATH --mappings PATH --output/-o DIR [--domain DOMAIN] [--version VERSION]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleHeatmapsUsage,
	Short:                 "Generate ATT&CK Navigator heatmap layers from control mappings",
	RunE:                  runHeatmapsCommand,
}

// Init initializes the global configuration variables for the command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func init() {
	HeatmapsCmd.Flags().StringVar(&heatmapOptions.Framework, "framework", "", "the name of the control framework")
	HeatmapsCmd.Flags().StringVar(&heatmapOptions.Controls, "controls", "", "filepath to the STIX bundle of the control framework")
	HeatmapsCmd.Flags().StringVar(&heatmapOptions.Mappings, "mappings", "", "filepath to the STIX bundle mapping the controls to ATT&CK")
	HeatmapsCmd.Flags().StringVar(&heatmapOptions.Domain, "domain", config.DefaultAttackDomain, "the ATT&CK domain to visualize")
	HeatmapsCmd.Flags().StringVar(&heatmapOptions.Version, "version", config.DefaultAttackVersion, "the ATT&CK version to use")
	HeatmapsCmd.Flags().StringVarP(&heatmapOptions.Output, "output", "o", "", "folder to write the output layers to")
}

func runHeatmapsCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateHeatmapsArgs(&heatmapOptions); err != nil {
		logger.Error("invalid heatmaps arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid heatmaps arguments: %w", err), 1)
	}

	controlsBundle, err := stix.LoadBundleFile(heatmapOptions.Controls)
	if err != nil {
		logger.Error("failed to load controls bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}
	mappingsBundle, err := stix.LoadBundleFile(heatmapOptions.Mappings)
	if err != nil {
		logger.Error("failed to load mappings bundle", "error", err)
		return errors.NewCommandError(err, 2)
	}

	attackStore, err := attack.NewClient(AppConfig, logger).Fetch(heatmapOptions.Domain, heatmapOptions.Version)
	if err != nil {
		logger.Error("failed to fetch ATT&CK data", "error", err)
		return errors.NewCommandError(err, 2)
	}

	controls := controlsBundle.Store()
	relationships := mappingsBundle.Store()

	planned, err := heatmap.FrameworkLayers(controls, relationships, attackStore, heatmapOptions.Domain, heatmapOptions.Framework)
	if err != nil {
		logger.Error("failed to build framework layers", "error", err)
		return errors.NewCommandError(err, 2)
	}

	for _, property := range heatmap.DiscoverProperties(controls, stix.TypeCourseOfAction) {
		propertyLayers, err := heatmap.PropertyLayers(controls, relationships, attackStore, heatmapOptions.Domain, heatmapOptions.Framework, property)
		if err != nil {
			logger.Error("failed to build property layers", "property", property, "error", err)
			return errors.NewCommandError(err, 2)
		}
		planned = append(planned, propertyLayers...)
	}

	if err := heatmap.WriteLayers(heatmapOptions.Output, planned); err != nil {
		logger.Error("failed to write layers", "error", err)
		return errors.NewCommandError(err, 2)
	}

	logger.Info("heatmap layers written", "folder", heatmapOptions.Output, "layers", len(planned))
	return nil
}
