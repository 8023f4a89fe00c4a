package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docscan/internal/adapters/driving/tui"
	"github.com/custodia-labs/docscan/internal/core/domain"
)

var processCmd = &cobra.Command{
	Use:   "process [path...]",
	Short: "Recognise scanned images and PDFs",
	Long: `Process images and PDFs as a new batch, replacing the previous one.

Directories are searched recursively for supported files. Files are
recognised one at a time, in the order given. On a terminal a live
progress view is shown; otherwise one line is printed per stage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return fmt.Errorf("getting plain flag: %w", err)
	}

	files, err := loadFiles(cmd.Context(), args...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("No images or PDFs found.")
		return nil
	}

	var batch *domain.Batch
	if !plain && isTerminal(cmd) {
		batch, err = tui.RunBatch(cmd.Context(), session, files)
	} else {
		batch, err = session.StartBatch(cmd.Context(), files, func(p domain.Progress) {
			cmd.Println(p.String())
		})
	}
	if err != nil {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	printBatch(cmd, batch)
	return nil
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBatch(cmd *cobra.Command, batch *domain.Batch) {
	if batch == nil {
		return
	}
	cmd.Printf("\nBatch %s: %d document(s)\n\n", batch.ID, len(batch.Documents))
	for _, d := range batch.Documents {
		cmd.Printf("  %s  %-30s %3d%%  %s\n", d.ID, d.FileName, roundPercent(d.Confidence), pages(d))
		if len(d.Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(d.Tags, ", "))
		}
	}
	if len(batch.Failures) > 0 {
		cmd.Printf("\nSkipped %d file(s):\n", len(batch.Failures))
		for _, f := range batch.Failures {
			cmd.Printf("  %s: %s\n", f.FileName, f.Message)
		}
	}
}

func roundPercent(c float64) int {
	return int(math.Round(c))
}

func pages(d *domain.Document) string {
	if len(d.Pages) == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", len(d.Pages))
}
