package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/lookup-model/internal/artifact"
	"github.com/ekisa-team/lookup-model/internal/config"
	"github.com/ekisa-team/lookup-model/internal/env"
	"github.com/ekisa-team/lookup-model/internal/logger"
	"github.com/ekisa-team/lookup-model/internal/lookup"
	"github.com/ekisa-team/lookup-model/internal/registry"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	schemaPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lookup-model",
		Short:         "Look up a model by display name in the Vertex AI Model Registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigPath(), "Path to config file")
	root.PersistentFlags().StringVar(&a.schemaPath, "schema", "", "Path to config schema file (defaults to the embedded schema)")

	root.AddCommand(newExecutorCmd(a), newRunCmd(a))

	return root
}

// setup loads the configuration and installs the default logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath, a.schemaPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	slog.SetDefault(logger.New(env.FromEnv(),
		logger.WithLevel(logger.ParseLevel(cfg.Logging.Level)),
		logger.WithLogToFile(cfg.Logging.File != ""),
		logger.WithLogFile(cfg.Logging.File),
	))

	if a.configPath != "" {
		slog.Debug("Config loaded", "config", a.configPath)
	}

	return nil
}

// newRegistry builds the registry selected by the configuration.
func (a *app) newRegistry() (registry.Registry, error) {
	switch a.cfg.Registry.Backend {
	case config.RegistryBackendFixture:
		slog.Info("Using fixture registry", "path", a.cfg.Registry.Fixture)
		return registry.LoadFixture(a.cfg.Registry.Fixture)
	case config.RegistryBackendVertex, "":
		return registry.NewVertex(registry.VertexOptions{
			Endpoint:        a.cfg.Registry.Endpoint,
			CredentialsFile: a.cfg.Registry.CredentialsFile,
			UserAgent:       a.cfg.Registry.UserAgent,
		}), nil
	default:
		return nil, fmt.Errorf("unknown registry backend %q", a.cfg.Registry.Backend)
	}
}

// newDatasetReader builds the training dataset reader selected by the configuration.
func (a *app) newDatasetReader(ctx context.Context) (artifact.DatasetReader, func() error, error) {
	if a.cfg.Storage.DatasetSource != config.DatasetSourceGCS {
		return artifact.MountReader{}, func() error { return nil }, nil
	}

	reader, err := artifact.NewGCSReader(ctx, a.cfg.Registry.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	return reader, reader.Close, nil
}

// lookup runs a single lookup with resources built from the configuration.
func (a *app) lookup(ctx context.Context, req lookup.Request, out *artifact.Model) (*lookup.Result, error) {
	reg, err := a.newRegistry()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reg.Close(); err != nil {
			slog.Warn("Failed to close registry", "error", err)
		}
	}()

	datasets, closeDatasets, err := a.newDatasetReader(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeDatasets(); err != nil {
			slog.Warn("Failed to close dataset reader", "error", err)
		}
	}()

	req = req.WithDefaults(a.cfg.Registry.Project, a.cfg.Registry.Location)

	return lookup.NewService(reg, datasets).Lookup(ctx, req, out)
}
