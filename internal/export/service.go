package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/softquill/tintex/internal/cachemanager"
	"github.com/softquill/tintex/internal/log"
	"github.com/softquill/tintex/internal/marker"
	"github.com/softquill/tintex/internal/pubsub"
)

const renderCacheTTL = 30 * time.Minute

// Result describes one completed (or failed) render pass. Watch-mode
// listeners receive these through the service's event broker.
type Result struct {
	DocPath  string
	OutPath  string
	Markup   string
	Duration time.Duration
	Err      error
}

// Service renders marker-annotated documents to typeset markup. It owns the
// render cache and the event broker; construct one per command invocation.
type Service struct {
	resolver marker.StyleResolver
	tracer   trace.Tracer
	events   *pubsub.Broker[Result]
	renders  *cachemanager.ReadThroughCache[string, string, renderInput]
}

type renderInput struct {
	text string
	sc   Sidecar
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	resolver  marker.StyleResolver
	tracer    trace.Tracer
	skipCache bool
}

// WithResolver sets the style resolver used for wrapper colours. Defaults
// to the generator's tag-derived resolver.
func WithResolver(r marker.StyleResolver) ServiceOption {
	return func(c *serviceConfig) { c.resolver = r }
}

// WithTracer sets the tracer for per-stage render spans.
func WithTracer(t trace.Tracer) ServiceOption {
	return func(c *serviceConfig) { c.tracer = t }
}

// WithSkipCache bypasses the render cache, forcing every pass to render.
func WithSkipCache(skip bool) ServiceOption {
	return func(c *serviceConfig) { c.skipCache = skip }
}

// NewService creates an export service.
func NewService(opts ...ServiceOption) *Service {
	cfg := serviceConfig{
		tracer: noop.NewTracerProvider().Tracer("export"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Service{
		resolver: cfg.resolver,
		tracer:   cfg.tracer,
		events:   pubsub.NewBroker[Result](),
	}
	cache := cachemanager.NewInMemoryCacheManager[string, string](
		"render", renderCacheTTL, time.Hour)
	s.renders = cachemanager.NewReadThroughCache[string, string, renderInput](
		cache, s.render, cfg.skipCache)
	return s
}

// Subscribe returns a channel of render results. The channel closes when
// ctx is cancelled or the service is closed.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Result] {
	return s.events.Subscribe(ctx)
}

// Close shuts down the event broker.
func (s *Service) Close() {
	s.events.Close()
}

// Render converts marker-annotated text to markup using the sidecar's
// highlight metadata and protected ranges. Results are cached by a digest
// of both inputs, so unchanged inputs render only once.
func (s *Service) Render(ctx context.Context, text string, sc Sidecar) (string, error) {
	return s.renders.Get(ctx, digest(text, sc), renderInput{text: text, sc: sc}, renderCacheTTL)
}

// RenderFile loads the document and its sidecar from disk and renders.
func (s *Service) RenderFile(ctx context.Context, docPath, sidecarPath string) (string, error) {
	data, err := os.ReadFile(docPath) //nolint:gosec // G304: user-chosen document path
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	sc, err := LoadSidecar(sidecarPath)
	if err != nil {
		return "", err
	}
	return s.Render(ctx, string(data), sc)
}

// Export renders a document and writes the markup to outPath. An empty
// outPath writes to stdout. A render result event is published either way.
func (s *Service) Export(ctx context.Context, docPath, sidecarPath, outPath string) error {
	start := time.Now()
	s.events.Publish(pubsub.RenderStarted, Result{DocPath: docPath, OutPath: outPath})

	markup, err := s.RenderFile(ctx, docPath, sidecarPath)
	result := Result{
		DocPath:  docPath,
		OutPath:  outPath,
		Markup:   markup,
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		log.ErrorErr(log.CatExport, "render failed", err, "doc", docPath)
		s.events.Publish(pubsub.RenderFailed, result)
		return err
	}

	if outPath == "" {
		fmt.Println(markup)
	} else if err := os.WriteFile(outPath, []byte(markup), 0600); err != nil {
		result.Err = fmt.Errorf("writing output: %w", err)
		s.events.Publish(pubsub.RenderFailed, result)
		return result.Err
	}

	log.Info(log.CatExport, "render completed",
		"doc", docPath, "out", outPath, "bytes", len(markup), "took", result.Duration.String())
	s.events.Publish(pubsub.RenderCompleted, result)
	return nil
}

// render is the uncached pipeline: tokenize, build regions, generate.
// Each stage gets its own span so slow exports are attributable.
func (s *Service) render(ctx context.Context, in renderInput) (string, error) {
	ctx, span := s.tracer.Start(ctx, "export.render",
		trace.WithAttributes(attribute.Int("doc_bytes", len(in.text))))
	defer span.End()

	_, lexSpan := s.tracer.Start(ctx, "export.tokenize")
	tokens := marker.Tokenize(in.text)
	lexSpan.SetAttributes(attribute.Int("tokens", len(tokens)))
	lexSpan.End()
	log.Debug(log.CatLexer, "tokenized document", "tokens", len(tokens))

	_, regSpan := s.tracer.Start(ctx, "export.regions")
	regions, err := marker.BuildRegions(tokens)
	if err != nil {
		regSpan.RecordError(err)
		regSpan.SetStatus(codes.Error, "region building failed")
		regSpan.End()
		span.SetStatus(codes.Error, "render failed")
		return "", fmt.Errorf("building regions: %w", err)
	}
	regSpan.SetAttributes(attribute.Int("regions", len(regions)))
	regSpan.End()
	log.Debug(log.CatRegion, "built regions", "regions", len(regions))

	_, genSpan := s.tracer.Start(ctx, "export.generate")
	genOpts := []marker.Option{}
	if s.resolver != nil {
		genOpts = append(genOpts, marker.WithStyleResolver(s.resolver))
	}
	markup, err := marker.NewGenerator(genOpts...).Render(regions, in.sc.Metadata(), in.sc.Boundaries())
	if err != nil {
		genSpan.RecordError(err)
		genSpan.SetStatus(codes.Error, "generation failed")
		genSpan.End()
		span.SetStatus(codes.Error, "render failed")
		return "", fmt.Errorf("rendering regions: %w", err)
	}
	genSpan.SetAttributes(attribute.Int("markup_bytes", len(markup)))
	genSpan.End()

	return markup, nil
}

// digest keys the render cache on both inputs so either file changing
// invalidates the entry.
func digest(text string, sc Sidecar) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, hl := range sc.Highlights {
		fmt.Fprintf(h, "|h%d:%s:%s:%s:%d", hl.ID, hl.Style, hl.Note, hl.Author, hl.Created.UnixNano())
	}
	for _, p := range sc.Protected {
		fmt.Fprintf(h, "|p%d-%d", p.Start, p.End)
	}
	return hex.EncodeToString(h.Sum(nil))
}
