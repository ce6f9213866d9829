package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/codec"
	"github.com/calradia/rosterkit/pkg/roster"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the characters in profiles.dat",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilesPath()
		if err != nil {
			return err
		}
		buf, err := roster.Load(path)
		if err != nil {
			return err
		}

		ros, err := codec.Parse(buf)
		if err != nil {
			return err
		}
		if ros.CountMismatch {
			log.Warn().Uint32("count_a", ros.CountA).Uint32("count_b", ros.CountB).
				Msg("header counts disagree, using the larger value")
		}
		if ros.Truncated {
			log.Warn().Msg("roster ends before the declared record count")
		}
		if len(ros.Records) == 0 {
			fmt.Println("No characters found.")
			return nil
		}

		for _, rec := range ros.Records {
			fmt.Printf("%d. %s (%s, %s)\n", rec.Index+1, rec.Name, rec.SexName, rec.SkinName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
