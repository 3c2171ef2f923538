package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Cyclone1070/aiagent/internal/config"
	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/Cyclone1070/aiagent/internal/tool/helper/content"
	"github.com/Cyclone1070/aiagent/internal/tool/service/path"
)

// GetFileContentTool reads a workspace file up to a character cap.
type GetFileContentTool struct {
	fileOps      fileReader
	pathResolver pathResolver
	config       *config.Config
}

// NewGetFileContentTool creates a new GetFileContentTool with injected dependencies.
func NewGetFileContentTool(fileOps fileReader, pathResolver pathResolver, cfg *config.Config) *GetFileContentTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	if cfg == nil {
		panic("config is required")
	}
	return &GetFileContentTool{
		fileOps:      fileOps,
		pathResolver: pathResolver,
		config:       cfg,
	}
}

func (t *GetFileContentTool) Name() string {
	return "get_file_content"
}

func (t *GetFileContentTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "get_file_content",
		Description: fmt.Sprintf("Reads the content of a file, constrained to the working directory. Content longer than %d characters is truncated.", t.config.Tools.MaxReadChars),
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"file_path": {
					Type:        tool.TypeString,
					Description: "Path of the file to read, relative to the working directory.",
				},
			},
			Required: []string{"file_path"},
		},
	}
}

func (t *GetFileContentTool) Input() any {
	return &GetFileContentRequest{}
}

func (t *GetFileContentTool) Execute(ctx context.Context, input any) (tool.Result, error) {
	req, ok := input.(*GetFileContentRequest)
	if !ok {
		return tool.Result{}, fmt.Errorf("invalid request type: %T", input)
	}

	text, err := t.Read(ctx, req.FilePath)
	switch {
	case errors.Is(err, path.ErrOutsideWorkspace):
		return tool.Failure(fmt.Sprintf("Cannot read %q as it is outside the permitted working directory", req.FilePath)), nil
	case errors.Is(err, ErrNotRegularFile):
		return tool.Failure(fmt.Sprintf("File not found or is not a regular file: %q", req.FilePath)), nil
	case err != nil && ctx.Err() != nil:
		return tool.Result{}, ctx.Err()
	case err != nil:
		return tool.Failure(err.Error()), nil
	}
	return tool.Success(text), nil
}

// Read returns the file content. Content over the cap is cut to exactly cap
// characters and followed by a marker naming the file and the cap.
//
// At most cap*4+4 bytes are read: a UTF-8 character is at most four bytes,
// so that prefix always holds more than cap characters when the file does.
func (t *GetFileContentTool) Read(ctx context.Context, filePath string) (string, error) {
	abs, err := t.pathResolver.Abs(filePath)
	if err != nil {
		return "", err
	}

	info, err := t.fileOps.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotRegularFile
		}
		return "", &ReadError{Path: filePath, Cause: err}
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegularFile
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	maxChars := t.config.Tools.MaxReadChars
	data, _, err := t.fileOps.ReadFileHead(abs, int64(maxChars)*4+4)
	if err != nil {
		return "", &ReadError{Path: filePath, Cause: err}
	}

	text, truncated := content.TruncateChars(data, maxChars)
	if truncated {
		text += fmt.Sprintf("[...File %q truncated at %d characters]", filePath, maxChars)
	}
	return text, nil
}
