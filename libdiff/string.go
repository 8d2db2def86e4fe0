package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Span is a run of text in a string diff, with Kind Equal, Added or
// Removed.
type Span struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// DiffString returns the character level differences between two
// strings, such as the Old and New text of a Modified entry.
func DiffString(from, to string) []Span {
	dmp := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, doMultiLine))
	res := make([]Span, 0, len(diffs))
	for i := range diffs {
		diff := &diffs[i]
		var k Kind
		switch diff.Type {
		case diffpatch.DiffEqual:
			k = Equal
		case diffpatch.DiffInsert:
			k = Added
		case diffpatch.DiffDelete:
			k = Removed
		}
		res = append(res, Span{Kind: k, Text: diff.Text})
	}
	return res
}
