package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a document's text to a file",
	Long: `Export a document's text as a plain-text file.

The whole document is written to "<file name>_extracted.txt"; a single
page is written to "<file name>_page_<n>_extracted.txt".`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int("page", 0, "Export only this page")
	exportCmd.Flags().StringP("out", "o", ".", "Output directory")
	exportCmd.Flags().Bool("stdout", false, "Write to stdout instead of a file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	page, _ := cmd.Flags().GetInt("page")
	outDir, _ := cmd.Flags().GetString("out")
	toStdout, _ := cmd.Flags().GetBool("stdout")

	export, err := session.Export(cmd.Context(), args[0], page)
	if err != nil {
		return fmt.Errorf("document %s: %w", args[0], err)
	}

	if toStdout {
		cmd.Print(export.Content)
		return nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, export.FileName)
	if err := os.WriteFile(path, []byte(export.Content), 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	cmd.Printf("Exported to %s\n", path)
	return nil
}
