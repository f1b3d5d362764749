package marker

import "fmt"

// RenderMarkers is the single entry point for the pipeline:
// text -> tokens -> regions -> markup. Options configure the generator
// stage; the lexer and region builder have nothing to configure.
func RenderMarkers(text string, meta Metadata, boundaries []ProtectedBoundary, opts ...Option) (string, error) {
	regions, err := BuildRegions(Tokenize(text))
	if err != nil {
		return "", fmt.Errorf("building regions: %w", err)
	}
	markup, err := NewGenerator(opts...).Render(regions, meta, boundaries)
	if err != nil {
		return "", fmt.Errorf("rendering regions: %w", err)
	}
	return markup, nil
}
