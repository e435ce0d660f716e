// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/sitedims/internal/core/domain"
	"go.trai.ch/sitedims/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu   sync.Mutex
	open map[*Vertex]struct{}
}

// New creates a new Recorder that prints finished pages to w.
func New(w io.Writer) ports.Telemetry {
	return NewRecorder(NewPrinter(w))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:    w,
		rec:  progrock.NewRecorder(w),
		open: make(map[*Vertex]struct{}),
	}
}

// Record starts recording a new vertex. The digest is derived from name, so recording the
// same page twice shows up as one vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	vertex := &Vertex{vertex: r.rec.Vertex(digest.FromString(name), name)}
	vertex.done = func() { r.release(vertex) }

	r.mu.Lock()
	r.open[vertex] = struct{}{}
	r.mu.Unlock()

	return ports.ContextWithVertex(ctx, vertex), vertex
}

func (r *Recorder) release(v *Vertex) {
	r.mu.Lock()
	delete(r.open, v)
	r.mu.Unlock()
}

// Close completes every vertex that is still open as interrupted and closes the writer.
func (r *Recorder) Close() error {
	r.mu.Lock()
	pending := make([]*Vertex, 0, len(r.open))
	for v := range r.open {
		pending = append(pending, v)
	}
	r.mu.Unlock()

	for _, v := range pending {
		v.Complete(domain.ErrBuildInterrupted)
	}

	return r.w.Close()
}
