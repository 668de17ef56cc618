package ipx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FSSupplier resolves ids under a root directory, guarding against path
// traversal and invalid filesystem characters.
type FSSupplier struct {
	Root   string
	MaxAge int
}

// NewFSSupplier builds a filesystem supplier rooted at dir.
func NewFSSupplier(dir string, maxAge int) *FSSupplier {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &FSSupplier{Root: filepath.Clean(abs), MaxAge: maxAge}
}

var forbiddenPathChars = []rune{'<', '>', ':', '"', '|', '?', '*'}

func (s *FSSupplier) Fetch(ctx context.Context, id string, _ RequestOptions) (*SourceDescriptor, error) {
	joined := filepath.Join(s.Root, filepath.FromSlash(id))
	fsPath, err := filepath.Abs(joined)
	if err != nil {
		return nil, Forbidden("Forbidden path")
	}
	fsPath = filepath.Clean(fsPath)

	if containsForbiddenChars(fsPath) {
		return nil, Forbidden("Forbidden path")
	}
	if !underRoot(fsPath, s.Root) {
		return nil, Forbidden("Forbidden path")
	}

	info, err := os.Stat(fsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NotFound("File not found")
		}
		return nil, Forbidden(fmt.Sprintf("File access error %v", err))
	}
	if !info.Mode().IsRegular() {
		return nil, BadRequest("Path should be a file")
	}

	desc := NewSourceDescriptor(ctx, func(context.Context) ([]byte, error) {
		// #nosec G304 -- fsPath has been resolved and validated against Root above.
		b, err := os.ReadFile(fsPath)
		if err != nil {
			return nil, InternalError(err)
		}
		return b, nil
	})
	desc.MTime = info.ModTime()
	desc.HasMTime = true
	desc.MaxAge = s.MaxAge
	desc.HasMaxAge = true
	return desc, nil
}

// containsForbiddenChars rejects the characters listed in §4.2, stripping
// a Windows drive-root prefix first so the colon following a drive letter
// is permitted.
func containsForbiddenChars(fsPath string) bool {
	checked := fsPath
	if runtime.GOOS == "windows" && len(fsPath) >= 2 && fsPath[1] == ':' {
		checked = fsPath[2:]
	}
	for _, r := range forbiddenPathChars {
		if strings.ContainsRune(checked, r) {
			return true
		}
	}
	return false
}

func underRoot(fsPath, root string) bool {
	rel, err := filepath.Rel(root, fsPath)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..")
}
