package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// maxGitignoreSize caps how much of a .gitignore file is parsed.
const maxGitignoreSize = 1 << 20

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// fileSystem defines the minimal filesystem interface needed to load .gitignore.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileHead(path string, limit int64) ([]byte, bool, error)
}

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
// Only the .gitignore at the workspace root is consulted.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher creates a new gitignore matcher by loading .gitignore from workspace root.
// Returns a matcher that never ignores if .gitignore doesn't exist (no error).
func NewIgnoreMatcher(workspaceRoot string, fs fileSystem) (*IgnoreMatcher, error) {
	if workspaceRoot == "" {
		panic("workspaceRoot is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	gitignorePath := filepath.Join(workspaceRoot, ".gitignore")

	if _, err := fs.Stat(gitignorePath); err != nil {
		return &IgnoreMatcher{}, nil
	}

	data, _, err := fs.ReadFileHead(gitignorePath, maxGitignoreSize)
	if err != nil {
		return nil, &GitignoreReadError{Path: gitignorePath, Cause: err}
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(parsePatterns(string(data)))}, nil
}

// ShouldIgnore checks if a slash-separated path relative to the root
// matches any gitignore pattern. Returns false if no .gitignore was loaded.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m.matcher == nil {
		return false
	}
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

func parsePatterns(data string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// splitPath splits a path into segments for gitignore matching,
// dropping empty and "." segments.
func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

// NoOpMatcher never ignores anything. It is used when gitignore filtering is disabled.
type NoOpMatcher struct{}

// ShouldIgnore always returns false for NoOpMatcher.
func (NoOpMatcher) ShouldIgnore(string, bool) bool {
	return false
}
