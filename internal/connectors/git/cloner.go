package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/patternscout/patternscout-cli/internal/core/domain"
	"github.com/patternscout/patternscout-cli/internal/core/ports/driven"
)

// Ensure Cloner implements the driven port.
var _ driven.Cloner = (*Cloner)(nil)

// Cloner clones repositories with depth 1 and deferred blobs, which
// keeps clone time and disk usage proportional to tree size rather
// than history size.
type Cloner struct{}

// NewCloner creates a git cloner.
func NewCloner() *Cloner {
	return &Cloner{}
}

// Clone implements driven.Cloner. An existing destination directory
// is treated as already cloned and left untouched so an interrupted
// run can resume. A failed or cancelled clone removes its partial
// destination.
func (c *Cloner) Clone(ctx context.Context, candidate domain.RepoCandidate, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create clone parent: %w", err)
	}

	url := candidate.HTMLURL
	if url == "" {
		url = "https://github.com/" + candidate.FullName
	}

	cmd := exec.CommandContext(ctx, "git", "clone",
		"--depth", "1",
		"--filter=blob:none",
		"--single-branch",
		"--quiet",
		url, dest,
	)
	// Never prompt for credentials; a private or deleted repository
	// must fail fast instead of hanging the worker.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(dest)
		if ctx.Err() != nil {
			return fmt.Errorf("clone %s: %w", candidate.FullName, ctx.Err())
		}
		return fmt.Errorf("clone %s: %w (output: %s)", candidate.FullName, err, string(output))
	}

	return nil
}
