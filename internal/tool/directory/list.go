package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/tool/service/path"
)

// GetFilesInfoTool lists the entries of one workspace directory.
type GetFilesInfoTool struct {
	fs           fileSystem
	pathResolver pathResolver
	ignore       ignoreMatcher
}

// NewGetFilesInfoTool creates a new GetFilesInfoTool with injected dependencies.
// A nil ignore matcher lists everything.
func NewGetFilesInfoTool(fs fileSystem, pathResolver pathResolver, ignore ignoreMatcher) *GetFilesInfoTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &GetFilesInfoTool{
		fs:           fs,
		pathResolver: pathResolver,
		ignore:       ignore,
	}
}

func (t *GetFilesInfoTool) Name() string {
	return "get_files_info"
}

func (t *GetFilesInfoTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "get_files_info",
		Description: "Lists files in the specified directory along with their sizes, constrained to the working directory.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"directory": {
					Type:        tool.TypeString,
					Description: "The directory to list files from, relative to the working directory. If not provided, lists files in the working directory itself.",
				},
			},
		},
	}
}

func (t *GetFilesInfoTool) Input() any {
	return &GetFilesInfoRequest{}
}

// Execute lists the requested directory and renders one line per entry.
func (t *GetFilesInfoTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	req, ok := input.(*GetFilesInfoRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid request type: %T", input)
	}
	dir := displayDir(req.Directory)

	entries, err := t.List(ctx, dir)
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace):
		return tool.Failure(fmt.Sprintf("Cannot list %q as it is outside the permitted working directory", dir)), nil
	case errors.Is(err, ErrNotADirectory):
		return tool.Failure(fmt.Sprintf("%q is not a directory", dir)), nil
	case err != nil && ctx.Err() != nil:
		return tool.Result{}, ctx.Err()
	case err != nil:
		return tool.Failure(err.Error()), nil
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return tool.Success(strings.Join(lines, "\n")), nil
}

// List returns the entries of dir in filename order. Entries matched by the
// ignore matcher are left out. Symlinks are described, not followed.
func (t *GetFilesInfoTool) List(ctx context.Context, dir string) ([]Entry, error) {
	abs, err := t.pathResolver.Abs(dir)
	if err != nil {
		return nil, err
	}
	rel, err := t.pathResolver.Rel(abs)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotADirectory
		}
		return nil, &ListError{Path: dir, Cause: err}
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := t.fs.ListDir(abs)
	if err != nil {
		return nil, &ListError{Path: dir, Cause: err}
	}

	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		if t.ignore != nil && t.ignore.ShouldIgnore(joinRel(rel, fi.Name()), fi.IsDir()) {
			continue
		}
		entries = append(entries, Entry{Name: fi.Name(), Size: fi.Size(), IsDir: fi.IsDir()})
	}
	return entries, nil
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
