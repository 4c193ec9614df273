package export

import (
	"context"

	"github.com/hxzbg/fguiexport/internal/exml"
	"github.com/hxzbg/fguiexport/internal/model"
)

// Host supplies component trees. An editor host keeps documents open in
// memory; Open and Close bracket the use of one tree.
type Host interface {
	// CloseAll releases every open document before a batch starts.
	CloseAll(ctx context.Context) error
	Open(ctx context.Context, path string) (model.Node, error)
	Close(ctx context.Context, path string) error
}

// FileHost loads trees straight from EXML files.
type FileHost struct {
	sizer exml.Sizer
}

// NewFileHost creates a host resolving unsized images through sizer,
// which may be nil.
func NewFileHost(sizer exml.Sizer) *FileHost {
	return &FileHost{sizer: sizer}
}

func (h *FileHost) CloseAll(context.Context) error { return nil }

func (h *FileHost) Open(ctx context.Context, path string) (model.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts []exml.Option
	if h.sizer != nil {
		opts = append(opts, exml.WithSizer(h.sizer))
	}
	doc, err := exml.ParseFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

func (h *FileHost) Close(context.Context, string) error { return nil }
