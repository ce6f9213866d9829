package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/facecode"
)

var encodeFlags struct {
	hair, beard, skin, hairTexture, hairColor, age, skinColor uint8
	morphs                                                    []int
}

// facecodeCmd groups the face code subcommands.
var facecodeCmd = &cobra.Command{
	Use:   "facecode",
	Short: "Decode, encode and validate face codes",
}

var facecodeDecodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Decode a 64-hex face code into its components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		components, err := facecode.Decode(args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(components, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var facecodeEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Pack components into a face code",
	Long: `Pack appearance components into a face code. Values beyond a
field's bit width wrap (6 bits for scalars, 3 bits for morphs).

Example:
  rosterkit facecode encode --hair 3 --age 25 --morphs 1,2,3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		morphs := make([]uint8, 0, len(encodeFlags.morphs))
		for _, m := range encodeFlags.morphs {
			morphs = append(morphs, uint8(m))
		}
		code := facecode.Encode(facecode.Components{
			Hair:        encodeFlags.hair,
			Beard:       encodeFlags.beard,
			Skin:        encodeFlags.skin,
			HairTexture: encodeFlags.hairTexture,
			HairColor:   encodeFlags.hairColor,
			Age:         encodeFlags.age,
			SkinColor:   encodeFlags.skinColor,
			Morphs:      facecode.MorphsFromSlice(morphs),
		})
		fmt.Println(code)
		return nil
	},
}

var facecodeValidateCmd = &cobra.Command{
	Use:   "validate <code>",
	Short: "Check whether a string is a valid face code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if facecode.Validate(args[0]) {
			fmt.Println("valid")
			return
		}
		fmt.Println("invalid")
		os.Exit(1)
	},
}

var noPrefix bool

var facecodeFormatCmd = &cobra.Command{
	Use:   "format <code>",
	Short: "Normalize a face code for display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !facecode.Validate(args[0]) {
			return fmt.Errorf("not a 64-character hex face code: %q", args[0])
		}
		fmt.Println(facecode.Format(args[0], !noPrefix))
		return nil
	},
}

func init() {
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.hair, "hair", 0, "Hair style (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.beard, "beard", 0, "Beard style (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.skin, "skin", 0, "Skin (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.hairTexture, "hair-texture", 0, "Hair texture (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.hairColor, "hair-color", 0, "Hair color (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.age, "age", 0, "Age (6 bits)")
	facecodeEncodeCmd.Flags().Uint8Var(&encodeFlags.skinColor, "skin-color", 0, "Skin color (6 bits)")
	facecodeEncodeCmd.Flags().IntSliceVar(&encodeFlags.morphs, "morphs", nil, "Morph values, comma separated (up to 43)")

	facecodeFormatCmd.Flags().BoolVar(&noPrefix, "no-prefix", false, "Omit the 0x prefix")

	facecodeCmd.AddCommand(facecodeDecodeCmd)
	facecodeCmd.AddCommand(facecodeEncodeCmd)
	facecodeCmd.AddCommand(facecodeValidateCmd)
	facecodeCmd.AddCommand(facecodeFormatCmd)
	rootCmd.AddCommand(facecodeCmd)
}
