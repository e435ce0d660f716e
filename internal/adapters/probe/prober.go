// Package probe implements the Prober port.
//
// Raster images and SVG documents are measured from their headers in memory. Videos, and
// anything whose header is inconclusive, are handed to an ffprobe-compatible command.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
	"go.trai.ch/zerr"
)

// stdinInput tells the probe command to read the asset from standard input.
const stdinInput = "pipe:0"

// probeOutput matches "WxH", tolerating one stray trailing character such as the
// separator ffprobe prints for side data ("640x360x").
var probeOutput = regexp.MustCompile(`^(\d+)x(\d+)[^\d]?$`)

// Prober implements ports.Prober.
type Prober struct {
	runner  ports.CommandRunner
	command string
}

// New creates a Prober that falls back to command, run through runner.
func New(runner ports.CommandRunner, command string) *Prober {
	if command == "" {
		command = domain.DefaultProbeCommand
	}
	return &Prober{runner: runner, command: command}
}

// Probe returns the pixel dimensions of asset.
func (p *Prober) Probe(ctx context.Context, asset *domain.Asset) (domain.Dimension, error) {
	var headerErr error
	if asset.Kind.HeaderDecodable() && asset.Data != nil {
		dim, err := decodeHeader(asset.Kind, asset.Data)
		if err == nil {
			return dim, nil
		}
		headerErr = err
	}

	dim, err := p.probeCommand(ctx, asset)
	if err == nil {
		return dim, nil
	}
	if asset.Kind == domain.MediaVideo || ctx.Err() != nil {
		return domain.Dimension{}, err
	}

	unsupported := zerr.With(errors.Join(domain.ErrUnsupportedFileType, headerErr, err), "asset", asset.Target.Location)
	return domain.Dimension{}, zerr.With(unsupported, "kind", asset.Kind.String())
}

func (p *Prober) probeCommand(ctx context.Context, asset *domain.Asset) (domain.Dimension, error) {
	cmd := ports.Command{
		Name: p.command,
		Args: []string{
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=width,height",
			"-of", "csv=s=x:p=0",
		},
	}

	switch {
	case !asset.Target.IsRemote():
		cmd.Args = append(cmd.Args, asset.Target.Location)
	case asset.Data != nil:
		cmd.Args = append(cmd.Args, stdinInput)
		cmd.Stdin = bytes.NewReader(asset.Data)
	default:
		cmd.Args = append(cmd.Args, asset.Target.Location)
	}

	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrCommandNotFound) {
			notFound := zerr.Wrap(domain.ErrProbeCommandNotFound, fmt.Sprintf("%s is not installed or not on PATH", p.command))
			return domain.Dimension{}, zerr.With(notFound, "command", p.command)
		}
		return domain.Dimension{}, err
	}

	if res.ExitCode != 0 {
		stderr := strings.TrimSpace(string(res.Stderr))
		failed := zerr.Wrap(domain.ErrProbeFailed, fmt.Sprintf("%s exited with status %d: %s", p.command, res.ExitCode, stderr))
		failed = zerr.With(failed, "asset", asset.Target.Location)
		return domain.Dimension{}, zerr.With(failed, "exit_code", res.ExitCode)
	}

	return parseProbeOutput(p.command, res.Stdout)
}

func parseProbeOutput(command string, stdout []byte) (domain.Dimension, error) {
	raw := string(stdout)
	invalid := func() error {
		return zerr.With(zerr.Wrap(domain.ErrProbeOutputInvalid, fmt.Sprintf("%s printed %q", command, raw)), "output", raw)
	}

	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	m := probeOutput.FindStringSubmatch(line)
	if m == nil {
		return domain.Dimension{}, invalid()
	}
	w, werr := strconv.Atoi(m[1])
	h, herr := strconv.Atoi(m[2])
	if werr != nil || herr != nil {
		return domain.Dimension{}, invalid()
	}
	dim, err := domain.NewDimension(w, h)
	if err != nil {
		return domain.Dimension{}, errors.Join(invalid(), err)
	}
	return dim, nil
}
