package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/chemmd-engine/pkg/services"
)

var (
	// datasetDir is the dataset directory for export and describe
	datasetDir string
	// outputFormat is csv or json
	outputFormat string
	// outputPath is the output file; empty writes to stdout
	outputPath string
	// rowList is the comma-separated row numbers to describe
	rowList string
)

func init() {
	for _, cmd := range []*cobra.Command{exportCmd, describeCmd} {
		cmd.Flags().StringVarP(&datasetDir, "dataset", "d", "", "dataset directory")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
		_ = cmd.MarkFlagRequired("dataset")
	}
	exportCmd.Flags().StringVarP(&outputFormat, "format", "f", "csv", "output format: csv or json")
	describeCmd.Flags().StringVarP(&rowList, "rows", "r", "", "comma-separated row numbers")
	_ = describeCmd.MarkFlagRequired("rows")
}

// exportCmd exports a dataset directory
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a dataset directory as CSV or JSON",
	Long: `Export a dataset directory as CSV or JSON.

CSV output holds the data table only. JSON output adds the provenance table,
the referenced entities and the column categories.

Examples:
  # Export to stdout
  chemmd export --dataset ./aluminate

  # Export the full document
  chemmd export --dataset ./aluminate --format json -o aluminate.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// describeCmd renders the entities behind table rows
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the entities behind rows of a dataset export",
	Long: `Render the experiments, samples and sources behind rows of a dataset
export as Markdown.

Examples:
  chemmd describe --dataset ./aluminate --rows 0,2`,
	Args: cobra.NoArgs,
	RunE: runDescribe,
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(outputFormat)
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q: must be csv or json", outputFormat)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	export, err := newDatasetService(cfg, "", logger).Export(cmd.Context(), datasetDir)
	if err != nil {
		return err
	}

	return withOutput(cmd, func(w io.Writer) error {
		if format == "json" {
			return services.WriteJSON(w, export.Result.Document(export.Categories))
		}
		return services.WriteCSV(w, export.Result.Data)
	})
}

func runDescribe(cmd *cobra.Command, args []string) error {
	rows, err := parseRows(rowList)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	export, err := newDatasetService(cfg, "", logger).Export(cmd.Context(), datasetDir)
	if err != nil {
		return err
	}
	details, err := services.DescribeRows(export.Result, rows)
	if err != nil {
		return err
	}

	return withOutput(cmd, func(w io.Writer) error {
		_, err := io.WriteString(w, details.Markdown)
		return err
	})
}

// withOutput runs write against the output file, or stdout when none is set.
func withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseRows(value string) ([]int, error) {
	var rows []int
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		row, err := strconv.Atoi(p)
		if err != nil || row < 0 {
			return nil, fmt.Errorf("invalid row %q: rows must be non-negative integers", p)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows given")
	}
	return rows, nil
}
