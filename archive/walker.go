// Package archive builds Walk abstraction on top of zip archives.
package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, file *fixzip.File) error

// Walk visits all files in the archive whose names start with prefix in
// natural name order, calling walkFn for each. Archives with absolute entry
// names or names containing ".." are rejected.
func Walk(ctx context.Context, archive, prefix string, walkFn WalkFunc) error {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*fixzip.File, 0, len(r.File))
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(f.Name, prefix) {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b *fixzip.File) int {
		switch {
		case a.Name == b.Name:
			return 0
		case natural.Less(a.Name, b.Name):
			return -1
		default:
			return 1
		}
	})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// IsArchive checks file signature to see if it is zip archive.
func IsArchive(fname string) (bool, error) {
	f, err := os.Open(fname)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// we only need the header
	head := make([]byte, 262)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		// empty file is not an archive
		return false, nil
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
