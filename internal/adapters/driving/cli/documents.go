package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Review documents of the current batch",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of the current batch",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a document's pages, tags and text preview",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsTextCmd = &cobra.Command{
	Use:   "text <id>",
	Short: "Print a document's recognised text",
	Long: `Print a document's recognised text.

Multi-page documents are printed with a "--- Page N ---" marker before
each page. Use --page to print a single page without its marker.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsText,
}

const previewLength = 200

func init() {
	documentsTextCmd.Flags().Int("page", 0, "Print only this page")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsTextCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	batch, err := session.Current(cmd.Context())
	if errors.Is(err, domain.ErrNoActiveBatch) {
		cmd.Println("No documents yet. Run 'docscan process <path>' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading batch: %w", err)
	}

	printBatch(cmd, batch)
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	doc, err := session.Document(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("document %s: %w", args[0], err)
	}

	cmd.Printf("ID:          %s\n", doc.ID)
	cmd.Printf("File:        %s\n", doc.FileName)
	cmd.Printf("Type:        %s\n", doc.MIMEType)
	cmd.Printf("Confidence:  %d%%\n", roundPercent(doc.Confidence))
	cmd.Printf("Pages:       %d\n", len(doc.Pages))
	if doc.IsMultiPage() {
		for _, p := range doc.Pages {
			cmd.Printf("  Page %-4d %3d%%\n", p.Number, roundPercent(p.Confidence))
		}
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags:        %s\n", strings.Join(doc.Tags, ", "))
	} else {
		cmd.Println("Tags:        (none)")
	}
	cmd.Printf("\n%s\n", doc.Preview(previewLength))
	return nil
}

func runDocumentsText(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	page, err := cmd.Flags().GetInt("page")
	if err != nil {
		return fmt.Errorf("getting page flag: %w", err)
	}

	export, err := session.Export(cmd.Context(), args[0], page)
	if err != nil {
		return fmt.Errorf("document %s: %w", args[0], err)
	}
	cmd.Println(export.Content)
	return nil
}
