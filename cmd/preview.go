package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/softquill/tintex/internal/export"
	"github.com/softquill/tintex/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview <document>",
	Short: "Show a coloured terminal approximation of the highlights",
	Long: `Preview paints highlight regions with ANSI colours instead of emitting
wrapper markup, so highlight placement can be checked in the terminal
before typesetting. Annotation notes appear below the document body.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("sidecar", "s", "", "sidecar file (default: <document>.highlights.yaml)")
	previewCmd.Flags().Int("width", 80, "wrap width (0 disables wrapping)")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	data, err := os.ReadFile(docPath) //nolint:gosec // G304: user-chosen document path
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	sidecarPath, _ := cmd.Flags().GetString("sidecar")
	if sidecarPath == "" {
		sidecarPath = export.SidecarPath(docPath)
	}

	// The sidecar is optional here: without it highlights still get their
	// identifier colours, there are just no notes to show.
	var sc export.Sidecar
	if _, statErr := os.Stat(sidecarPath); statErr == nil {
		sc, err = export.LoadSidecar(sidecarPath)
		if err != nil {
			return err
		}
	}

	width, _ := cmd.Flags().GetInt("width")
	out, err := preview.NewRenderer(preview.WithWidth(width)).Render(string(data), sc.Metadata())
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}
