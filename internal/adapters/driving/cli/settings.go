package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change configuration",
	Long: `Show or change docscan configuration.

Without a subcommand the current settings are printed.

Keys:
  ` + strings.Join(services.SettingKeys(), "\n  "),
	RunE: runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting. The change is rejected if the resulting
configuration is invalid.

Examples:
  docscan settings set ocr.url http://scanner.local:3000/api/ocr
  docscan settings set batch.failure_mode isolate
  docscan settings set ocr.languages eng,fra`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		cmd.Printf("Warning: %v\n\n", err)
	}

	cmd.Printf("Settings (%s)\n\n", settingsService.Path())
	for _, key := range services.SettingKeys() {
		cmd.Printf("  %-22s %s\n", key, settingValue(settings, key))
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key := args[0]
	if !slices.Contains(services.SettingKeys(), key) {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	cmd.Println(settingValue(settings, key))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func settingValue(s domain.Settings, key string) string {
	switch key {
	case "ocr.engine":
		return string(s.OCR.Engine)
	case "ocr.url":
		return s.OCR.URL
	case "ocr.timeout_seconds":
		return fmt.Sprintf("%d", s.OCR.TimeoutSeconds)
	case "ocr.rate_per_second":
		return fmt.Sprintf("%g", s.OCR.RatePerSecond)
	case "ocr.languages":
		return strings.Join(s.OCR.Languages, ",")
	case "batch.failure_mode":
		return string(s.Batch.FailureMode)
	case "tagging.gazetteer":
		return orNone(s.Tagging.Gazetteer)
	case "storage.data_dir":
		return orNone(s.Storage.DataDir)
	case "server.addr":
		return s.Server.Addr
	}
	return ""
}

func orNone(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
