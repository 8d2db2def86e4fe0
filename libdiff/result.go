package libdiff

import "fmt"

// Kind classifies a diff entry.
type Kind int

const (
	Equal Kind = iota
	Added
	Removed
	Modified
)

func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	}
	return fmt.Sprintf("<kind %d>", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for _, x := range []Kind{Equal, Added, Removed, Modified} {
		if x.String() == string(d) {
			*k = x
			return nil
		}
	}
	return fmt.Errorf("unknown diff kind %q", d)
}

// Entry is one difference, or one unchanged subtree, between two trees.
// Left and Right are node indices in the left and right tree, -1 when the
// entry has no node on that side.  Old and New hold the display text of
// the values involved.
type Entry struct {
	Path  string `json:"path"`
	Kind  Kind   `json:"kind"`
	Left  int    `json:"left"`
	Right int    `json:"right"`
	Old   string `json:"old,omitempty"`
	New   string `json:"new,omitempty"`
}

type Counts struct {
	Additions     int `json:"additions"`
	Deletions     int `json:"deletions"`
	Modifications int `json:"modifications"`
	Unchanged     int `json:"unchanged"`
}

func (c *Counts) add(k Kind) {
	switch k {
	case Equal:
		c.Unchanged++
	case Added:
		c.Additions++
	case Removed:
		c.Deletions++
	case Modified:
		c.Modifications++
	}
}

// Changed returns the number of non Equal entries.
func (c Counts) Changed() int {
	return c.Additions + c.Deletions + c.Modifications
}

type Result struct {
	Mode    Mode    `json:"mode"`
	Entries []Entry `json:"entries"`
	Counts  Counts  `json:"counts"`
}

// Changes returns the entries which are not Equal.
func (r *Result) Changes() []Entry {
	res := make([]Entry, 0, r.Counts.Changed())
	for i := range r.Entries {
		if r.Entries[i].Kind != Equal {
			res = append(res, r.Entries[i])
		}
	}
	return res
}

// Reverse returns the result of comparing right with left: additions
// become removals and the other way around, and the two sides of every
// entry are swapped.
func (r *Result) Reverse() *Result {
	res := &Result{
		Mode:    r.Mode,
		Entries: make([]Entry, len(r.Entries)),
		Counts: Counts{
			Additions:     r.Counts.Deletions,
			Deletions:     r.Counts.Additions,
			Modifications: r.Counts.Modifications,
			Unchanged:     r.Counts.Unchanged,
		},
	}
	for i, e := range r.Entries {
		switch e.Kind {
		case Added:
			e.Kind = Removed
		case Removed:
			e.Kind = Added
		}
		e.Left, e.Right = e.Right, e.Left
		e.Old, e.New = e.New, e.Old
		res.Entries[i] = e
	}
	return res
}
