package testutil

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// AssertMarkupEqual compares rendered markup and fails with a character
// level diff. Wrapper markup disagreements are usually a single colour
// name or brace, which a plain want/got dump buries.
func AssertMarkupEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	t.Errorf("markup mismatch (want vs got):\n%s", dmp.DiffPrettyText(diffs))
}
