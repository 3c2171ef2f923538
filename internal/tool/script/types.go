package script

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// RunPythonFileRequest is the decoded argument set of run_python_file.
type RunPythonFileRequest struct {
	FilePath string   `mapstructure:"file_path"`
	Args     []string `mapstructure:"args"`
}

func (r RunPythonFileRequest) String() string {
	if len(r.Args) == 0 {
		return fmt.Sprintf("Running %s", r.FilePath)
	}
	return fmt.Sprintf("Running %s %s", r.FilePath, shellescape.QuoteCommand(r.Args))
}

// formatStreams renders captured output the way the model sees it.
// Empty streams are omitted.
func formatStreams(stdout, stderr string) string {
	var parts []string
	if stdout != "" {
		parts = append(parts, "STDOUT:\n"+stdout)
	}
	if stderr != "" {
		parts = append(parts, "STDERR:\n"+stderr)
	}
	return strings.Join(parts, "\n")
}
