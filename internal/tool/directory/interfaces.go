package directory

import "os"

// fileSystem defines the filesystem operations needed for directory listing.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
}

// pathResolver defines workspace path resolution operations.
type pathResolver interface {
	Abs(path string) (string, error)
	Rel(path string) (string, error)
}

// ignoreMatcher decides whether a workspace-relative path is hidden from listings.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}
