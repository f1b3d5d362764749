// Package export is the workflow around the marker pipeline: it loads a
// document and its highlights sidecar, renders markup, writes the result,
// and re-renders on file changes in watch mode.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/softquill/tintex/internal/marker"
)

// HighlightEntry is one highlight in the sidecar file.
type HighlightEntry struct {
	ID      int       `yaml:"id"`
	Style   string    `yaml:"style"`
	Note    string    `yaml:"note,omitempty"`
	Author  string    `yaml:"author,omitempty"`
	Created time.Time `yaml:"created,omitempty"`
}

// ProtectedEntry is one protected range in the sidecar file, in byte
// offsets of the marker-annotated document.
type ProtectedEntry struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Sidecar is the highlights file accompanying a document:
//
//	highlights:
//	  - id: 1
//	    style: yellow
//	    note: check this claim
//	    author: ada
//	    created: 2026-03-14T09:30:00Z
//	protected:
//	  - {start: 120, end: 168}
type Sidecar struct {
	Highlights []HighlightEntry `yaml:"highlights"`
	Protected  []ProtectedEntry `yaml:"protected,omitempty"`
}

// SidecarPath derives the conventional sidecar location for a document:
// the document path with its extension replaced by ".highlights.yaml".
func SidecarPath(docPath string) string {
	base := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	return base + ".highlights.yaml"
}

// LoadSidecar reads and validates a sidecar file.
func LoadSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen sidecar path
	if err != nil {
		return Sidecar{}, fmt.Errorf("reading sidecar: %w", err)
	}

	var sc Sidecar
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Sidecar{}, fmt.Errorf("parsing sidecar %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return Sidecar{}, fmt.Errorf("invalid sidecar %s: %w", path, err)
	}
	return sc, nil
}

// Validate checks identifier uniqueness and protected-range sanity.
func (s Sidecar) Validate() error {
	seen := make(map[int]struct{}, len(s.Highlights))
	for _, h := range s.Highlights {
		if h.ID < 0 {
			return fmt.Errorf("highlight id %d is negative", h.ID)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("duplicate highlight id %d", h.ID)
		}
		seen[h.ID] = struct{}{}
		if h.Style == "" {
			return fmt.Errorf("highlight %d has no style tag", h.ID)
		}
	}

	ranges := append([]ProtectedEntry(nil), s.Protected...)
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	for i, r := range ranges {
		if r.End <= r.Start {
			return fmt.Errorf("protected range [%d, %d) is empty or inverted", r.Start, r.End)
		}
		if i > 0 && r.Start < ranges[i-1].End {
			return fmt.Errorf("protected ranges [%d, %d) and [%d, %d) overlap",
				ranges[i-1].Start, ranges[i-1].End, r.Start, r.End)
		}
	}
	return nil
}

// Metadata converts the sidecar highlights to the pipeline's metadata map.
func (s Sidecar) Metadata() marker.Metadata {
	meta := make(marker.Metadata, len(s.Highlights))
	for _, h := range s.Highlights {
		meta[h.ID] = marker.Highlight{
			StyleTag:  h.Style,
			Note:      h.Note,
			Author:    h.Author,
			CreatedAt: h.Created,
		}
	}
	return meta
}

// Boundaries converts the protected ranges, sorted by start offset.
func (s Sidecar) Boundaries() []marker.ProtectedBoundary {
	bs := make([]marker.ProtectedBoundary, 0, len(s.Protected))
	for _, r := range s.Protected {
		bs = append(bs, marker.ProtectedBoundary{Start: r.Start, End: r.End})
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].Start < bs[j].Start })
	return bs
}
