package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docscan/internal/connectors/filesystem"
	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Process files as they appear in a directory",
	Long: `Watch a directory, typically a scanner's output folder, and process
each new image or PDF once it has stopped changing.

Every file becomes a new batch, replacing the previous one. Processing
errors are reported and watching continues. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("settle", filesystem.DefaultSettleDelay, "Wait this long after the last write before processing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	settle, err := cmd.Flags().GetDuration("settle")
	if err != nil {
		return fmt.Errorf("getting settle flag: %w", err)
	}

	w := filesystem.NewWatcher(args[0], settle)
	defer w.Close()

	files, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s\n", args[0])

	for file := range files {
		batch, err := session.StartBatch(cmd.Context(), []domain.SourceFile{file}, func(p domain.Progress) {
			logger.Debug("%s", p.String())
		})
		if err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			cmd.PrintErrf("%s: %s\n", file.Name, domain.UserMessage(err))
			logger.Error("processing %s: %v", file.Name, err)
			continue
		}
		printBatch(cmd, batch)
	}
	return nil
}
