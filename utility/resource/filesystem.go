package resource

import (
	"context"
	"io/fs"
	"os"
)

type FS struct {
	FS   fs.FS
	Root string
}

func NewFS(fsys fs.FS) *FS {
	return &FS{
		FS:   fsys,
		Root: "",
	}
}

func NewFilesystem(directory string) *FS {
	return &FS{
		FS:   os.DirFS(directory),
		Root: directory,
	}
}

func (r *FS) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return fs.ReadFile(r.FS, name)
}

func (r *FS) String() string {
	return "filesystem:" + r.Root
}
