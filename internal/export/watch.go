package export

import (
	"context"
	"time"

	"github.com/softquill/tintex/internal/log"
	"github.com/softquill/tintex/internal/watcher"
)

// Watch renders once, then re-renders whenever the document or sidecar
// changes on disk. It blocks until ctx is cancelled. Render failures are
// reported through the event broker and logged, not returned: a broken
// intermediate save should not kill the watch loop.
func (s *Service) Watch(ctx context.Context, docPath, sidecarPath, outPath string, debounce time.Duration) error {
	cfg := watcher.DefaultConfig(docPath, sidecarPath)
	if debounce > 0 {
		cfg.DebounceDur = debounce
	}
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	log.Info(log.CatWatch, "watching for changes", "doc", docPath, "sidecar", sidecarPath)

	// Initial render so the output exists before the first edit.
	_ = s.Export(ctx, docPath, sidecarPath, outPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-onChange:
			if !ok {
				return nil
			}
			log.Debug(log.CatWatch, "change detected, re-rendering", "doc", docPath)
			_ = s.Export(ctx, docPath, sidecarPath, outPath)
		}
	}
}
