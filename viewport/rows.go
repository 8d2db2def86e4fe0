package viewport

import (
	"strings"

	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

// Row is a render ready line of the tree view.
type Row struct {
	// Index is the node index in the tree.
	Index int `json:"index"`
	// Row is the position in the visible sequence.
	Row        int     `json:"row"`
	Prefix     string  `json:"prefix"`
	Key        string  `json:"key,omitempty"`
	Display    string  `json:"display"`
	Kind       ir.Type `json:"kind"`
	Expandable bool    `json:"expandable"`
	Expanded   bool    `json:"expanded"`
	Path       string  `json:"path"`
}

const (
	guideCont  = "│  "
	guideBlank = "   "
	guideTee   = "├─ "
	guideLast  = "└─ "
)

// Rows builds the rows for the positions r of visible.
func Rows(t *tree.Tree, visible []int, r Range) []Row {
	r.Start = max(r.Start, 0)
	r.End = min(r.End, len(visible))
	if r.Empty() {
		return nil
	}
	res := make([]Row, 0, r.Len())
	for pos := r.Start; pos < r.End; pos++ {
		i := visible[pos]
		n := t.Node(i)
		if n == nil {
			continue
		}
		p, _ := t.Path(i)
		res = append(res, Row{
			Index:      i,
			Row:        pos,
			Prefix:     Prefix(t, i),
			Key:        n.Key.String(),
			Display:    n.Value.Text(),
			Kind:       n.Value.Type,
			Expandable: n.Expandable(),
			Expanded:   n.Expanded,
			Path:       p,
		})
	}
	return res
}

// Prefix returns the tree guide drawn before node i, for example "│  ├─ ".
// The root has no prefix.
func Prefix(t *tree.Tree, i int) string {
	anc := t.Ancestors(i)
	if len(anc) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range anc[1:] {
		if isLast(t, a) {
			b.WriteString(guideBlank)
		} else {
			b.WriteString(guideCont)
		}
	}
	if isLast(t, i) {
		b.WriteString(guideLast)
	} else {
		b.WriteString(guideTee)
	}
	return b.String()
}

func isLast(t *tree.Tree, i int) bool {
	p := t.Node(t.Parent(i))
	if p == nil {
		return true
	}
	return p.Children[len(p.Children)-1] == i
}

// Window computes the range for q over the current visible sequence of t
// and builds its rows.  q.TotalVisible is ignored.
func Window(t *tree.Tree, q Query) (Range, []Row) {
	visible := t.Visible()
	q.TotalVisible = len(visible)
	r := Compute(q)
	return r, Rows(t, visible, r)
}
