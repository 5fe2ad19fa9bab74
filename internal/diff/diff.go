// Package diff produces unified diffs of archive listings for test and
// diagnostic output. It uses github.com/pmezard/go-difflib/difflib for the
// classic ---/+++ header and @@ hunk format.
package diff

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff of a versus b with the given number of
// context lines (0 means the difflib default of 3). Inputs are split on
// newlines; a trailing newline is tolerated on both sides.
func Unified(aName, bName string, a, b string, context int) string {
	if context <= 0 {
		context = 3
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	body, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "diff unavailable: " + err.Error()
	}
	return strings.TrimRight(body, "\n")
}
