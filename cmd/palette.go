package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/softquill/tintex/internal/config"
	"github.com/softquill/tintex/internal/marker"
	"github.com/softquill/tintex/internal/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the style tags and their colour pairs",
	Long: `Palette lists every style tag the renderer knows, with the light colour
used for fills and the dark colour used for strokes. With a palette file
configured, overlay entries replace the built-in colours.`,
	RunE: runPalette,
}

var paletteSetCmd = &cobra.Command{
	Use:   "set <palette-file>",
	Short: "Point the config at a palette overlay file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaletteSet,
}

var palettePreambleCmd = &cobra.Command{
	Use:   "preamble",
	Short: "Print the wrapper macro definitions",
	Long: `Preamble prints the macro definitions the rendered markup depends on,
for pasting into a document class or package.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(marker.Preamble())
	},
}

func init() {
	paletteCmd.AddCommand(paletteSetCmd)
	paletteCmd.AddCommand(palettePreambleCmd)
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	pal, err := loadPalette()
	if err != nil {
		return err
	}

	for _, tag := range pal.Tags() {
		pair, _ := pal.Lookup(tag)
		fmt.Printf("%-12s fill=%-20s stroke=%s\n", tag, pair.Light, pair.Dark)
	}
	return nil
}

func runPaletteSet(cmd *cobra.Command, args []string) error {
	palettePath := args[0]

	// Reject broken palettes before persisting the path.
	if _, err := palette.LoadFile(palettePath); err != nil {
		return fmt.Errorf("loading palette: %w", err)
	}

	configPath := cfgFile
	if configPath == "" {
		configPath = ".tintex/config.yaml"
	}
	if err := config.SavePalette(configPath, palettePath); err != nil {
		return err
	}
	fmt.Printf("palette set to %s in %s\n", palettePath, configPath)
	return nil
}
