package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove document tags",
	Long: `Add or remove document tags.

Manually added tags are kept even when a document already carries the
maximum number of suggested tags. Duplicate and blank tags are ignored.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>...",
	Short: "Add tags to a document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTagAdd,
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <id> <tag>...",
	Short: "Remove tags from a document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTagRemove,
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	rootCmd.AddCommand(tagCmd)
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	id := args[0]
	for _, tag := range args[1:] {
		added, err := session.AddTag(cmd.Context(), id, tag)
		if err != nil {
			return fmt.Errorf("document %s: %w", id, err)
		}
		if added {
			cmd.Printf("Added %q\n", tag)
		} else {
			cmd.Printf("Skipped %q (blank or already tagged)\n", tag)
		}
	}
	return nil
}

func runTagRemove(cmd *cobra.Command, args []string) error {
	if session == nil {
		return errors.New("session not configured")
	}
	id := args[0]
	for _, tag := range args[1:] {
		removed, err := session.RemoveTag(cmd.Context(), id, tag)
		if err != nil {
			return fmt.Errorf("document %s: %w", id, err)
		}
		if removed {
			cmd.Printf("Removed %q\n", tag)
		} else {
			cmd.Printf("Skipped %q (not tagged)\n", tag)
		}
	}
	return nil
}
