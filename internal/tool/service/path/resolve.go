package path

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Resolver provides path resolution within a workspace boundary.
// The root must already be canonical (see CanonicaliseRoot).
type Resolver struct {
	workspaceRoot string
}

// NewResolver creates a new path resolver for the given workspace.
func NewResolver(workspaceRoot string) *Resolver {
	return &Resolver{
		workspaceRoot: workspaceRoot,
	}
}

// Root returns the workspace root the resolver was built with.
func (r *Resolver) Root() string {
	return r.workspaceRoot
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves a model-supplied path to an absolute path inside the workspace.
//
// The path is joined onto the root and cleaned, then checked structurally.
// Symlinks in the longest existing prefix are resolved and the result is
// checked again. Finally the result is compared with a scoped join of the
// same relative path, which catches dangling symlinks in the missing tail.
// Only read-only filesystem calls are made. Any failure yields
// ErrOutsideWorkspace.
func (r *Resolver) Abs(path string) (string, error) {
	if r.workspaceRoot == "" {
		return "", ErrWorkspaceRootNotSet
	}
	if path == "" {
		path = "."
	}

	var joined string
	if filepath.IsAbs(path) {
		joined = filepath.Clean(path)
	} else {
		joined = filepath.Join(r.workspaceRoot, path)
	}

	if _, ok := r.within(joined); !ok {
		return "", ErrOutsideWorkspace
	}

	resolved, err := resolveExisting(joined)
	if err != nil {
		return "", ErrOutsideWorkspace
	}

	rel, ok := r.within(resolved)
	if !ok {
		return "", ErrOutsideWorkspace
	}

	scoped, err := securejoin.SecureJoin(r.workspaceRoot, rel)
	if err != nil || scoped != resolved {
		return "", ErrOutsideWorkspace
	}

	return resolved, nil
}

// Rel resolves any path to relative to the workspace root and validates it is within the boundary.
// The root itself is returned as "".
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}

	rel, ok := r.within(abs)
	if !ok {
		return "", ErrOutsideWorkspace
	}

	if rel == "." {
		return "", nil
	}

	return filepath.ToSlash(rel), nil
}

// within reports whether p is the root or a descendant of it, comparing
// path components rather than string prefixes.
func (r *Resolver) within(p string) (string, bool) {
	rel, err := filepath.Rel(r.workspaceRoot, p)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// resolveExisting evaluates symlinks in the longest existing prefix of p
// and re-appends the components that do not exist yet.
func resolveExisting(p string) (string, error) {
	var tail []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !errors.Is(err, iofs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		tail = append([]string{filepath.Base(cur)}, tail...)
		cur = parent
	}
}
