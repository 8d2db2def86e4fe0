package libdiff

import (
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/tree"
)

var ErrPatch = errors.New("cannot create patch")

// MergePatch returns the RFC 7386 merge patch turning the document of
// left into that of right.  Both roots must be objects.
func MergePatch(left, right *tree.Tree) ([]byte, error) {
	lt, rt := left.Node(left.Root()), right.Node(right.Root())
	if lt == nil || rt == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrPatch)
	}
	if lt.Value.Type != ir.ObjectType || rt.Value.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: roots are %s and %s, not objects", ErrPatch, lt.Value.Type, rt.Value.Type)
	}
	ld, err := encode.Bytes(left, left.Root())
	if err != nil {
		return nil, err
	}
	rd, err := encode.Bytes(right, right.Root())
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.CreateMergePatch(ld, rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return p, nil
}

// ApplyMergePatch applies a merge patch to the document of t and returns
// the resulting JSON.
func ApplyMergePatch(t *tree.Tree, patch []byte) ([]byte, error) {
	d, err := encode.Bytes(t, t.Root())
	if err != nil {
		return nil, err
	}
	res, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return res, nil
}
