package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current batch",
	Long:  `Discard the current batch, its documents and its stored page images.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if session == nil {
			return errors.New("session not configured")
		}
		if err := session.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("resetting session: %w", err)
		}
		cmd.Println("Batch discarded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
