package script

import (
	"context"
	"os"
	"time"

	"github.com/Cyclone1070/aiagent/internal/tool/service/executor"
)

// pathResolver defines workspace path resolution operations.
type pathResolver interface {
	Abs(path string) (string, error)
	Root() string
}

type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
}

// commandExecutor runs a child process with a hard timeout.
type commandExecutor interface {
	RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}
