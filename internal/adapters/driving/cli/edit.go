package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a document's recognised text",
	Long: `Replace a document's recognised text with a correction.

Multi-page documents are corrected one page at a time with --page.
Blank text is ignored.

Examples:
  docscan edit 01J9Z... --text "Dear Sir,"
  docscan edit 01J9Z... --page 2 --file page2.txt
  pbpaste | docscan edit 01J9Z... --file -`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Int("page", 0, "Page to correct (required for multi-page documents)")
	editCmd.Flags().String("text", "", "Replacement text")
	editCmd.Flags().String("file", "", "Read replacement text from a file (- for stdin)")
	editCmd.MarkFlagsMutuallyExclusive("text", "file")
	editCmd.MarkFlagsOneRequired("text", "file")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	page, _ := cmd.Flags().GetInt("page")
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")

	if file != "" {
		content, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		text = content
	}

	id := args[0]
	var changed bool
	var err error
	if page > 0 {
		changed, err = session.EditPageText(cmd.Context(), id, page, text)
	} else {
		doc, docErr := session.Document(cmd.Context(), id)
		if docErr != nil {
			return fmt.Errorf("document %s: %w", id, docErr)
		}
		if doc.IsMultiPage() {
			return fmt.Errorf("document %s has %d pages: use --page to choose one", id, len(doc.Pages))
		}
		changed, err = session.EditText(cmd.Context(), id, text)
	}
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}

	if !changed {
		cmd.Println("No change: text was blank or the page does not exist.")
		return nil
	}
	cmd.Println("Text updated")
	return nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
