package directory

import "fmt"

// GetFilesInfoRequest is the decoded argument set of get_files_info.
type GetFilesInfoRequest struct {
	Directory string `mapstructure:"directory"`
}

func (r GetFilesInfoRequest) String() string {
	return fmt.Sprintf("Listing %s", displayDir(r.Directory))
}

// Entry describes one directory entry.
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}

func (e Entry) String() string {
	return fmt.Sprintf("- %s: file_size=%d bytes, is_dir=%t", e.Name, e.Size, e.IsDir)
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
