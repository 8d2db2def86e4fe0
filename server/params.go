package server

import (
	"github.com/segmentio/encoding/json"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/libdiff"
	"github.com/signadot/unfold/search"
	"github.com/signadot/unfold/tree"
	"github.com/signadot/unfold/viewport"
)

// LoadParams loads a document from Path or, when Path is empty, from
// Text.  The tree is registered under Name, which defaults to Path.
type LoadParams struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	Text string `json:"text,omitempty"`
}

type LoadResult struct {
	Name  string     `json:"name"`
	Stats tree.Stats `json:"stats"`
}

type TreeParams struct {
	Tree string `json:"tree"`
}

type NodeParams struct {
	Tree  string `json:"tree"`
	Index int    `json:"index"`
}

type ToggleResult struct {
	Expanded bool `json:"expanded"`
}

type VisibleResult struct {
	Visible []int `json:"visible"`
}

type PathParams struct {
	Tree  string `json:"tree"`
	Index int    `json:"index"`
	// Path, when set, is resolved to an index instead.
	Path string `json:"path,omitempty"`
}

type PathResult struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

// WindowParams describes the scroll state.  NodeHeight and Buffer
// default to the configured viewport settings.
type WindowParams struct {
	Tree           string  `json:"tree"`
	ScrollOffset   float64 `json:"scrollOffset"`
	ViewportHeight float64 `json:"viewportHeight"`
	NodeHeight     float64 `json:"nodeHeight,omitempty"`
	Buffer         *int    `json:"buffer,omitempty"`
}

type WindowResult struct {
	Range        viewport.Range `json:"range"`
	TotalVisible int            `json:"totalVisible"`
	Rows         []viewport.Row `json:"rows"`
}

type ExportParams struct {
	Tree   string        `json:"tree"`
	Index  int           `json:"index"`
	Format encode.Format `json:"format"`
	Minify bool          `json:"minify,omitempty"`
	// Copy exports scalars as their raw text.
	Copy bool `json:"copy,omitempty"`
}

type ExportResult struct {
	Text string `json:"text"`
}

type SearchParams struct {
	Tree string `json:"tree"`
	search.Query
}

type SearchResult struct {
	Results []search.Result `json:"results"`
}

type RevealParams struct {
	Tree    string `json:"tree"`
	Indices []int  `json:"indices"`
}

// RevealResult holds the position of each revealed index in the new
// visible sequence.
type RevealResult struct {
	Positions    []int `json:"positions"`
	TotalVisible int   `json:"totalVisible"`
}

type DiffParams struct {
	Left  string       `json:"left"`
	Right string       `json:"right"`
	Mode  libdiff.Mode `json:"mode"`
}

type PatchParams struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type PatchResult struct {
	Patch json.RawMessage `json:"patch"`
}
