package cmd

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/codec"
	"github.com/calradia/rosterkit/pkg/roster"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate <count>",
	Short: "Replace profiles.dat with N randomly generated characters",
	Long: `Replace the roster with count freshly generated characters. Each
character gets random appearance bytes, sex and skin, and a sequential
name (a, b, ... z, a1, b1, ...).

Header and character templates come from the configured header_path and
template_path files when set; otherwise built-in minimal templates are
used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}

		header, template, err := loadTemplates()
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		buf := codec.Generate(header, template, n, rng)

		path, err := profilesPath()
		if err != nil {
			return err
		}
		if err := roster.Save(path, buf); err != nil {
			return err
		}
		log.Info().Int("count", n).Str("path", path).Msg("generated characters")
		fmt.Printf("Successfully generated %d random characters in %s\n", n, path)
		return nil
	},
}

// loadTemplates reads the configured header and character template files,
// falling back to the built-in minimal ones. A template file stores a
// full roster (header included); the header is stripped off.
func loadTemplates() (header, template []byte, err error) {
	header = codec.NewHeader(0)
	if cfg.HeaderPath != "" {
		header, err = roster.Load(cfg.HeaderPath)
		if err != nil {
			return nil, nil, err
		}
	}

	template = codec.NewTemplate()
	if cfg.TemplatePath != "" {
		full, err := roster.Load(cfg.TemplatePath)
		if err != nil {
			return nil, nil, err
		}
		if len(full) < codec.HeaderSize+codec.MinRecordSize {
			return nil, nil, fmt.Errorf("template file %s too short: %d bytes", cfg.TemplatePath, len(full))
		}
		template = full[codec.HeaderSize:]
	}
	return header, template, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
