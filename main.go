// Package main implements the chemmd command: an HTTP server and CLI that
// project chemistry metadata graphs into tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chemmd-engine/pkg/config"
	"github.com/ekaya-inc/chemmd-engine/pkg/logging"
	"github.com/ekaya-inc/chemmd-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chemmd",
	Short: "Project chemistry metadata graphs into tables",
	Long: `chemmd reads node documents describing experiments, samples, sources and
their factors, and projects them into a data table and an aligned provenance
table using the query groups of a dataset.

A dataset is a directory holding node documents (*.json, *.yaml), the CSV
datafiles they reference and a groups file (gq.json by default).`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(describeCmd)
}

// loadConfig loads configuration and builds the logger it describes.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// newDatasetService wires the export pipeline rooted at basePath.
func newDatasetService(cfg *config.Config, basePath string, logger *zap.Logger) services.DatasetService {
	mappingService := services.NewMappingService(logger)
	projectionService := services.NewProjectionService(logger)
	exportService := services.NewExportService(mappingService, projectionService, logger)

	return services.NewDatasetService(exportService, services.DatasetOptions{
		BasePath:           basePath,
		GroupsFile:         cfg.Export.GroupsFile,
		ApplyStoichiometry: cfg.Export.ApplyStoichiometry,
		StoichiometryUnits: cfg.Export.StoichiometryUnits,
	}, logger)
}
