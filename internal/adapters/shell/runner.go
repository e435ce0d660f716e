// Package shell runs external commands such as the media probe.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner using os/exec with captured output.
type Runner struct {
	environ func() []string
}

// NewRunner creates a Runner that inherits the process environment.
func NewRunner() *Runner {
	return &Runner{environ: os.Environ}
}

// Run executes cmd and waits for it. Stdout and stderr are buffered in full.
func (r *Runner) Run(ctx context.Context, c ports.Command) (ports.CommandResult, error) {
	env := r.environ()

	executable, err := resolveExecutable(c.Name, env)
	if err != nil {
		return ports.CommandResult{}, zerr.With(zerr.Wrap(domain.ErrCommandNotFound, c.Name), "command", c.Name)
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // command comes from project config
	// Keep the name as invoked in argv[0].
	cmd.Args[0] = c.Name
	cmd.Env = env
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := ports.CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if runErr == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
		return result, zerr.With(zerr.Wrap(domain.ErrCommandNotFound, c.Name), "command", c.Name)
	}
	return result, zerr.With(errors.Join(domain.ErrCommandStartFailed, runErr), "command", c.Name)
}

func resolveExecutable(name string, env []string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		if err := findExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}
	return lookPath(name, env)
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
