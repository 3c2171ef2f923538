package file

import (
	"fmt"
	"unicode/utf8"
)

// GetFileContentRequest is the decoded argument set of get_file_content.
type GetFileContentRequest struct {
	FilePath string `mapstructure:"file_path"`
}

func (r GetFileContentRequest) String() string {
	return fmt.Sprintf("Reading %s", r.FilePath)
}

// WriteFileRequest is the decoded argument set of write_file.
type WriteFileRequest struct {
	FilePath string `mapstructure:"file_path"`
	Content  string `mapstructure:"content"`
}

func (r WriteFileRequest) String() string {
	return fmt.Sprintf("Writing %s (%d characters)", r.FilePath, utf8.RuneCountInString(r.Content))
}
