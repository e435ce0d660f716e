package progrock

import (
	"io"

	"github.com/muesli/termenv"
)

// OpenVertices reports how many vertices have not completed yet.
func (r *Recorder) OpenVertices() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// PlainPrinter returns a Printer that renders without colors.
func PlainPrinter(w io.Writer) *Printer {
	p := NewPrinter(w)
	p.renderer.SetColorProfile(termenv.Ascii)
	p.styles = newPrinterStyles(p.renderer)
	return p
}
