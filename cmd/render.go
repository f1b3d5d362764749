package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/softquill/tintex/internal/config"
	"github.com/softquill/tintex/internal/export"
	"github.com/softquill/tintex/internal/log"
	"github.com/softquill/tintex/internal/marker"
	"github.com/softquill/tintex/internal/palette"
	"github.com/softquill/tintex/internal/pubsub"
	"github.com/softquill/tintex/internal/tracing"
)

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Render a marker-annotated document to wrapper markup",
	Long: `Render reads a document containing highlight markers, pairs it with its
YAML sidecar, and writes the typeset wrapper markup.

The sidecar defaults to <document>.highlights.yaml. The output path
defaults to the document name with the configured extension (.tex).`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("sidecar", "s", "", "sidecar file (default: <document>.highlights.yaml)")
	renderCmd.Flags().StringP("output", "o", "", "output file (default: <document> with output extension, \"-\" for stdout)")
	renderCmd.Flags().BoolP("watch", "w", false, "re-render when the document or sidecar changes")
	renderCmd.Flags().Bool("preamble", false, "prepend the wrapper macro definitions")
	renderCmd.Flags().Bool("no-cache", false, "render every pass even when inputs are unchanged")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	sidecarPath, _ := cmd.Flags().GetString("sidecar")
	if sidecarPath == "" {
		sidecarPath = export.SidecarPath(docPath)
	}
	outPath, _ := cmd.Flags().GetString("output")
	switch outPath {
	case "":
		outPath = cfg.Output.OutputPath(docPath)
	case "-":
		outPath = ""
	}

	pal, err := loadPalette()
	if err != nil {
		return err
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.Enabled && tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	noCache, _ := cmd.Flags().GetBool("no-cache")
	svc := export.NewService(
		export.WithResolver(pal.Resolver()),
		export.WithTracer(provider.Tracer()),
		export.WithSkipCache(noCache),
	)
	defer svc.Close()

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return runWatch(svc, docPath, sidecarPath, outPath)
	}

	if err := svc.Export(context.Background(), docPath, sidecarPath, outPath); err != nil {
		return err
	}
	if preamble, _ := cmd.Flags().GetBool("preamble"); preamble || cfg.Output.Preamble {
		return prependPreamble(outPath)
	}
	return nil
}

// runWatch drives the watch loop, echoing render results until interrupted.
func runWatch(svc *export.Service, docPath, sidecarPath, outPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := svc.Subscribe(ctx)
	go func() {
		for ev := range events {
			switch ev.Type {
			case pubsub.RenderCompleted:
				fmt.Fprintf(os.Stderr, "rendered %s (%d bytes, %s)\n",
					ev.Payload.OutPath, len(ev.Payload.Markup), ev.Payload.Duration.Round(time.Millisecond))
			case pubsub.RenderFailed:
				fmt.Fprintf(os.Stderr, "render failed: %v\n", ev.Payload.Err)
			}
		}
	}()

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", docPath)
	err := svc.Watch(ctx, docPath, sidecarPath, outPath, cfg.Watch.Debounce())
	if err == context.Canceled {
		return nil
	}
	return err
}

// prependPreamble rewrites the output file with the macro definitions on
// top. Stdout output is skipped; the preamble only makes sense in a file
// the typesetter consumes.
func prependPreamble(outPath string) error {
	if outPath == "" {
		return nil
	}
	body, err := os.ReadFile(outPath) //nolint:gosec // G304: path derived from user flags
	if err != nil {
		return fmt.Errorf("reading output for preamble: %w", err)
	}
	return os.WriteFile(outPath, []byte(marker.Preamble()+"\n"+string(body)), 0600)
}

// loadPalette builds the style palette from config, falling back to the
// built-in colours.
func loadPalette() (*palette.Palette, error) {
	if cfg.Palette == "" {
		return palette.Default(), nil
	}
	pal, err := palette.LoadFile(cfg.Palette)
	if err != nil {
		log.ErrorErr(log.CatPalette, "Failed to load palette", err, "path", cfg.Palette)
		return nil, fmt.Errorf("loading palette: %w", err)
	}
	return pal, nil
}
