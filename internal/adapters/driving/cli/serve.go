package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local OCR service",
	Long: `Run an HTTP OCR service backed by the local Tesseract engine.

Endpoints:
  POST /api/ocr   multipart form with an "image" file field
  GET  /health    liveness check

Other docscan installations can point ocr.url at this service.
Requires a binary built with -tags tesseract.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ocrServer == nil {
		return errors.New("local OCR engine not available: rebuild with -tags tesseract")
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	if addr == "" {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		settings, err := settingsService.Get()
		if err != nil {
			return err
		}
		addr = settings.Server.Addr
	}

	cmd.Printf("OCR service listening on http://%s\n", addr)
	return ocrServer.Run(cmd.Context(), addr)
}
