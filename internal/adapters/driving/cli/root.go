// Package cli provides the docscan command-line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docscan/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docscan/internal/connectors/filesystem"
	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
	"github.com/custodia-labs/docscan/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services holds the core services the commands drive.
type Services struct {
	// Session owns the current batch.
	Session driving.Session

	// Settings reads and updates configuration.
	Settings driving.SettingsService

	// OCRServer serves the local OCR engine. Nil when the binary has no local engine.
	OCRServer *httpapi.Server
}

// FileLoader reads files or directories from local disk.
type FileLoader func(ctx context.Context, paths ...string) ([]domain.SourceFile, error)

var (
	session         driving.Session
	settingsService driving.SettingsService
	ocrServer       *httpapi.Server

	loadFiles FileLoader = filesystem.Load

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docscan",
	Short: "Digitise scanned documents",
	Long: `docscan recognises the text of scanned images and PDFs, proposes tags
for each document and lets you correct and export the results.

Process a batch, then review it:
  docscan process ~/scans
  docscan documents list
  docscan documents show <id>
  docscan export <id> --out ./text`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline diagnostics to stderr")
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	session = s.Session
	settingsService = s.Settings
	ocrServer = s.OCRServer
}

// SetVersion sets the version reported by "docscan version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout so that
// "documents text" and "export --stdout" can be piped.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
