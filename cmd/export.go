package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cbudget/internal/export"
)

var (
	flagExportFormat string
	flagExportDir    string
	flagExportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the budget as a JSON or YAML backup",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", export.FormatJSON, "Output format: json or yaml")
	exportCmd.Flags().StringVar(&flagExportDir, "dir", "", "Output directory (default: config export_dir or current directory)")
	exportCmd.Flags().BoolVar(&flagExportStdout, "stdout", false, "Write to stdout instead of a file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	l, closeStore, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	if flagExportStdout {
		return export.Encode(os.Stdout, l.Snapshot(), l.Now(), flagExportFormat)
	}

	dir := flagExportDir
	if dir == "" {
		dir = appCfg.General.ExportDir
	}
	if dir == "" {
		dir = "."
	}

	path, err := export.Write(dir, l.Snapshot(), l.Now(), flagExportFormat)
	if err != nil {
		return err
	}
	fmt.Printf("  Exported to %s\n", path)
	return nil
}
