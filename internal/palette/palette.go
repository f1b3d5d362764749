// Package palette resolves highlight style tags to the light/dark colour
// pairs the markup generator emits. Colour names are opaque strings the
// downstream typesetting compiler must define; tintex only looks them up.
package palette

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/softquill/tintex/internal/log"
	"github.com/softquill/tintex/internal/marker"
)

// ColorPair is the two colour names backing one style tag: a light variant
// for the background fill and a dark variant for the stroke.
type ColorPair struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Palette maps style tags to colour pairs.
type Palette struct {
	colors   map[string]ColorPair
	fallback ColorPair
}

// fallbackPair is used for tags the palette does not know. Style resolution
// is presentational; an unknown tag must not fail a render.
var fallbackPair = ColorPair{Light: "tintneutrallight", Dark: "tintneutraldark"}

// Default returns the builtin palette covering the common highlighter tags.
func Default() *Palette {
	return &Palette{
		colors: map[string]ColorPair{
			"yellow": {Light: "tintyellowlight", Dark: "tintyellowdark"},
			"green":  {Light: "tintgreenlight", Dark: "tintgreendark"},
			"blue":   {Light: "tintbluelight", Dark: "tintbluedark"},
			"pink":   {Light: "tintpinklight", Dark: "tintpinkdark"},
			"orange": {Light: "tintorangelight", Dark: "tintorangedark"},
			"purple": {Light: "tintpurplelight", Dark: "tintpurpledark"},
			"gray":   {Light: "tintgraylight", Dark: "tintgraydark"},
		},
		fallback: fallbackPair,
	}
}

// paletteFile is the YAML shape of a palette override file:
//
//	colors:
//	  yellow: {light: lemonchiffon, dark: goldenrod}
//	fallback: {light: gainsboro, dark: dimgray}
type paletteFile struct {
	Colors   map[string]ColorPair `yaml:"colors"`
	Fallback *ColorPair           `yaml:"fallback"`
}

// LoadFile reads a palette override file and layers it over the builtin
// palette. Tags present in the file replace the defaults; the rest remain.
func LoadFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen palette path
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}

	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing palette file %s: %w", path, err)
	}

	p := Default()
	for tag, pair := range pf.Colors {
		if pair.Light == "" || pair.Dark == "" {
			return nil, fmt.Errorf("palette tag %q needs both light and dark colours", tag)
		}
		p.colors[tag] = pair
	}
	if pf.Fallback != nil {
		p.fallback = *pf.Fallback
	}

	log.Debug(log.CatPalette, "palette loaded", "path", path, "tags", len(pf.Colors))
	return p, nil
}

// Lookup returns the colour pair for a tag and whether the tag was known.
// Unknown tags get the fallback pair.
func (p *Palette) Lookup(tag string) (ColorPair, bool) {
	if pair, ok := p.colors[tag]; ok {
		return pair, true
	}
	return p.fallback, false
}

// Tags returns all known style tags in sorted order.
func (p *Palette) Tags() []string {
	tags := make([]string, 0, len(p.colors))
	for tag := range p.colors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Resolver adapts the palette to the generator's StyleResolver contract.
func (p *Palette) Resolver() marker.StyleResolver {
	return marker.StyleResolverFunc(func(tag string) (string, string) {
		pair, known := p.Lookup(tag)
		if !known {
			log.Warn(log.CatPalette, "unknown style tag, using fallback", "tag", tag)
		}
		return pair.Light, pair.Dark
	})
}
