package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/codec"
	"github.com/calradia/rosterkit/pkg/roster"
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete <index|name>",
	Short: "Delete one character by zero-based index or by name",
	Long: `Delete a character from profiles.dat. A numeric argument is
treated as a zero-based index; anything else as a character name. The
last remaining character cannot be deleted.

Example:
  rosterkit delete 2
  rosterkit delete Marnid`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := codec.Name(args[0])
		if idx, err := strconv.Atoi(args[0]); err == nil {
			sel = codec.Index(idx)
		}

		path, err := profilesPath()
		if err != nil {
			return err
		}
		buf, err := roster.Load(path)
		if err != nil {
			return err
		}

		out, err := codec.Delete(buf, sel)
		if err != nil {
			return fmt.Errorf("failed to delete character: %w", err)
		}
		if err := roster.Save(path, out); err != nil {
			return err
		}
		fmt.Printf("Successfully deleted character %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
