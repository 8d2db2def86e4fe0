package server

import (
	"context"
	"errors"
	"io/fs"

	"github.com/segmentio/encoding/json"
	"github.com/signadot/unfold/encode"
	"github.com/signadot/unfold/ir"
	"github.com/signadot/unfold/libdiff"
	"github.com/signadot/unfold/parse"
	"github.com/signadot/unfold/search"
	"github.com/signadot/unfold/task"
	"github.com/signadot/unfold/tree"
	"go.lsp.dev/jsonrpc2"
)

// Error codes beyond the ones defined by JSON-RPC.
const (
	// CodeSuperseded answers a search.run or diff.run which was cancelled
	// by a newer one.
	CodeSuperseded jsonrpc2.Code = -32800
	// CodeLoad reports a document which could not be read or parsed.
	CodeLoad jsonrpc2.Code = -32010
	// CodeLimit reports a document beyond the structural limits.
	CodeLimit jsonrpc2.Code = -32011
)

var errUnknownTree = errors.New("unknown tree")

// SyntaxData is the data of a CodeLoad error caused by invalid JSON.
type SyntaxData struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context"`
}

func rpcError(err error) error {
	if err == nil {
		return nil
	}
	var re *jsonrpc2.Error
	if errors.As(err, &re) {
		return re
	}
	switch {
	case errors.Is(err, task.ErrSuperseded), errors.Is(err, context.Canceled):
		return jsonrpc2.NewError(CodeSuperseded, err.Error())
	case errors.Is(err, tree.ErrStructuralLimit):
		return jsonrpc2.NewError(CodeLimit, err.Error())
	case errors.Is(err, parse.ErrParse):
		re = jsonrpc2.NewError(CodeLoad, err.Error())
		var se *parse.SyntaxError
		if errors.As(err, &se) {
			d, merr := json.Marshal(SyntaxData{Line: se.Line, Column: se.Column, Context: se.Context})
			if merr == nil {
				raw := json.RawMessage(d)
				re.Data = &raw
			}
		}
		return re
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return jsonrpc2.NewError(CodeLoad, err.Error())
	case errors.Is(err, errUnknownTree),
		errors.Is(err, tree.ErrIndexOutOfRange),
		errors.Is(err, tree.ErrPathNotFound),
		errors.Is(err, ir.ErrBadPath),
		errors.Is(err, search.ErrInvalidPattern),
		errors.Is(err, libdiff.ErrBadMode),
		errors.Is(err, libdiff.ErrPatch),
		errors.Is(err, encode.ErrBadFormat):
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}
