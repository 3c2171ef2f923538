package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/tool/service/path"
)

const defaultFilePerm os.FileMode = 0o644

// WriteFileTool creates or overwrites workspace files.
type WriteFileTool struct {
	fileOps      fileWriter
	pathResolver pathResolver
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, pathResolver pathResolver) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &WriteFileTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
	}
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "write_file",
		Description: "Writes content to a file, creating it and any missing parent directories or overwriting it, constrained to the working directory.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "Path of the file to write, relative to the working directory.",
				},
				"content": {
					Type:        tool.TypeString,
					Description: "The exact content to write.",
				},
			},
			Required: []string{"file_path", "content"},
		},
	}
}

func (t *WriteFileTool) Input() any {
	return &WriteFileRequest{}
}

func (t *WriteFileTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	req, ok := input.(*WriteFileRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid request type: %T", input)
	}

	n, err := t.Write(ctx, req.FilePath, req.Content)
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace):
		return tool.Failure(fmt.Sprintf("Cannot write to %q as it is outside the permitted working directory", req.FilePath)), nil
	case errors.Is(err, ErrIsDirectory):
		return tool.Failure(fmt.Sprintf("Cannot write to %q as it is a directory", req.FilePath)), nil
	case err != nil && ctx.Err() != nil:
		return tool.Result{}, ctx.Err()
	case err != nil:
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(fmt.Sprintf("Successfully wrote to %q (%d characters written)", req.FilePath, n)), nil
}

// Write stores content verbatim at filePath and returns the number of
// characters written. Containment of the target is proven before any
// parent directory is created. An existing file keeps its permissions.
func (t *WriteFileTool) Write(ctx context.Context, filePath, content string) (int, error) {
	abs, err := t.pathResolver.Abs(filePath)
	if err != nil {
		return 0, err
	}

	perm := defaultFilePerm
	info, err := t.fileOps.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return 0, ErrIsDirectory
	case err == nil:
		perm = info.Mode().Perm()
	case !os.IsNotExist(err):
		return 0, &WriteError{Path: filePath, Cause: err}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
		return 0, &WriteError{Path: filePath, Cause: err}
	}

	if err := t.fileOps.WriteFileAtomic(abs, []byte(content), perm); err != nil {
		return 0, &WriteError{Path: filePath, Cause: err}
	}

	return utf8.RuneCountInString(content), nil
}
