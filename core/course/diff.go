package course

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff of the JSON documents of two versions of a course.
// It is empty when they are identical.
func Diff(before, after *Document) (string, error) {
	a, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding original course")
	}
	b, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding edited course")
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "original",
		ToFile:   "draft",
		Context:  2,
	})
}
