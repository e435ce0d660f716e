package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
)

type printerStyles struct {
	done   lipgloss.Style
	cached lipgloss.Style
	failed lipgloss.Style
	log    lipgloss.Style
}

func newPrinterStyles(r *lipgloss.Renderer) printerStyles {
	return printerStyles{
		done:   r.NewStyle().Foreground(lipgloss.Color("42")), // Green
		cached: r.NewStyle().Foreground(lipgloss.Color("#667085")).Faint(true),
		failed: r.NewStyle().Foreground(lipgloss.Color("196")), // Red
		log:    r.NewStyle().Foreground(lipgloss.Color("#667085")),
	}
}

// Printer is a progrock.Writer that prints one line per finished page,
// followed by the lines the page logged.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	styles   printerStyles
	logs     map[string][]string
	finished map[string]bool
}

// NewPrinter creates a Printer writing to w. Colors follow the capabilities of w.
func NewPrinter(w io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(w)
	return &Printer{
		out:      w,
		renderer: renderer,
		styles:   newPrinterStyles(renderer),
		logs:     make(map[string][]string),
		finished: make(map[string]bool),
	}
}

// WriteStatus implements progrock.Writer.
func (p *Printer) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, l := range update.Logs {
		for _, line := range strings.Split(string(l.Data), "\n") {
			if line = strings.TrimRight(line, "\r"); line != "" {
				p.logs[l.Vertex] = append(p.logs[l.Vertex], line)
			}
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil || p.finished[v.Id] {
			continue
		}
		p.finished[v.Id] = true
		if err := p.printVertex(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printVertex(v *progrock.Vertex) error {
	icon, style := "✓", p.styles.done
	switch {
	case v.Error != nil:
		icon, style = "✗", p.styles.failed
	case v.Cached:
		icon, style = "•", p.styles.cached
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style.Render(icon), v.Name)
	for _, line := range p.logs[v.Id] {
		fmt.Fprintf(&b, "    %s\n", p.styles.log.Render(line))
	}
	if v.Error != nil {
		fmt.Fprintf(&b, "    %s\n", p.styles.failed.Render(*v.Error))
	}
	delete(p.logs, v.Id)

	_, err := io.WriteString(p.out, b.String())
	return err
}

// Close implements progrock.Writer. The underlying writer is left open.
func (p *Printer) Close() error {
	return nil
}
