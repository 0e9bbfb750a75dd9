package cmd

import (
	"context"
	"fmt"

	"golang-netdef/internal/adapter/infrastructure/file"
	"golang-netdef/internal/adapter/loader"
	"golang-netdef/internal/pkg/config"
	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/pkg/netdef"
	"golang-netdef/internal/port"

	"github.com/spf13/cobra"
)

// loadOptions are the flags shared by commands that read definitions.
type loadOptions struct {
	configFile string
	root       string
	files      []string
}

func (o *loadOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configFile, "config", "f", "", "Path to settings file (YAML)")
	cmd.Flags().StringVar(&o.root, "root", "", "Directory prepended to the configuration directories")
}

// settings loads and validates the tool settings and initializes logging.
func (o *loadOptions) settings() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if o.root != "" {
		cfg.Root = o.root
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	logging.InitLogger(cfg.Logging)
	return cfg, nil
}

// source selects the explicit files when given, the configuration
// directories otherwise.
func (o *loadOptions) source(cfg *config.Config, files port.FileManager) port.DocumentSource {
	if len(o.files) > 0 {
		return loader.NewFileLoader(files, o.files)
	}
	return loader.NewDirectoryLoader(files, cfg.Root, cfg.Directories)
}

// parse ingests every document and finalizes the registry.
func (o *loadOptions) parse(ctx context.Context) (*netdef.Parser, error) {
	cfg, err := o.settings()
	if err != nil {
		return nil, err
	}
	logger := logging.WithComponent("cli")

	parser := netdef.NewParser()
	if err := parser.IngestSource(ctx, o.source(cfg, file.NewManagerAdapter())); err != nil {
		return nil, err
	}
	if err := parser.Finalize(); err != nil {
		return nil, err
	}

	logger.WithField("interfaces", parser.Registry().Len()).
		WithField("renderer", parser.EffectiveGlobalBackend().String()).
		Info("Configuration is valid")
	return parser, nil
}
