package panel

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/fatih/color"

	"github.com/jetsetgo/taller-orders/internal/status"
	"github.com/jetsetgo/taller-orders/internal/suggest"
)

var orderHeaders = []string{"ID", "Descripción", "Tiempo", "Prioridad", "Taller", "Estado"}

// Renderer draws page state as text.
type Renderer struct {
	out io.Writer

	title  *color.Color
	header *color.Color
	dim    *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// NewRenderer writes to out. With noColor set, no escape codes are emitted;
// otherwise color follows the terminal.
func NewRenderer(out io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		out:    out,
		title:  color.New(color.FgCyan, color.Bold),
		header: color.New(color.Bold),
		dim:    color.New(color.Faint),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		cyan:   color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{r.title, r.header, r.dim, r.green, r.yellow, r.red, r.cyan} {
			c.DisableColor()
		}
	}
	return r
}

// Render draws the whole page.
func (r *Renderer) Render(s State) {
	r.title.Fprintln(r.out, "━━━ Taller de autos ━━━")

	r.header.Fprintln(r.out, "Nueva orden")
	fmt.Fprintf(r.out, "  Descripción: %s\n", sanitize(s.Description))
	if s.SuggestionsVisible {
		r.Suggestions(s.Suggestions)
	}
	fmt.Fprintf(r.out, "  Tiempo:      %s\n", sanitize(s.PrepTime))
	fmt.Fprintf(r.out, "  Prioridad:   %s\n", sanitize(s.Priority))

	r.header.Fprintln(r.out, "Órdenes")
	r.orders(s.Rows)
	if s.RefreshVisible {
		r.cyan.Fprintln(r.out, "  [Actualizar] (refresh)")
	}

	r.header.Fprintf(r.out, "Bitácora (%d)\n", s.LogTotal)
	if s.LogScroll > 0 {
		r.dim.Fprintf(r.out, "  ... %d líneas anteriores\n", s.LogScroll)
	}
	for _, line := range s.Logs {
		fmt.Fprintf(r.out, "  %s\n", sanitize(line))
	}
}

// Connection draws the status feed's link to the server.
func (r *Renderer) Connection(cs status.ConnectionStatus) {
	switch {
	case cs.Connected:
		seen := "-"
		if !cs.LastSeen.IsZero() {
			seen = cs.LastSeen.Format(time.TimeOnly)
		}
		r.green.Fprintf(r.out, "● Conectado · última actualización %s\n", seen)
	case cs.Reconnecting:
		r.yellow.Fprintln(r.out, "● Reconectando…")
	case cs.LastError != "":
		r.red.Fprintf(r.out, "● Sin conexión: %s\n", sanitize(cs.LastError))
	default:
		r.dim.Fprintln(r.out, "● Sin conexión")
	}
}

// Suggestions draws the dropdown entries, numbered from 1 for the pick command.
func (r *Renderer) Suggestions(l suggest.Listing) {
	for i, e := range l.Entries {
		if e.Disabled {
			r.dim.Fprintf(r.out, "    %s\n", e.Label)
			continue
		}
		fmt.Fprintf(r.out, "    %2d) %s\n", i+1, sanitize(e.Label))
	}
}

// Alert shows a blocking message.
func (r *Renderer) Alert(message string) {
	r.red.Fprintf(r.out, "⚠ %s\n", message)
}

// Info prints a one-line notice.
func (r *Renderer) Info(message string) {
	r.green.Fprintf(r.out, "✓ %s\n", message)
}

func (r *Renderer) orders(rows [][]string) {
	if len(rows) == 0 {
		r.dim.Fprintln(r.out, "  (sin órdenes)")
		return
	}

	widths := make([]int, len(orderHeaders))
	for i, h := range orderHeaders {
		widths[i] = len([]rune(h))
	}
	clean := make([][]string, len(rows))
	for i, row := range rows {
		clean[i] = make([]string, len(orderHeaders))
		for j := range orderHeaders {
			if j < len(row) {
				clean[i][j] = sanitize(row[j])
			}
			widths[j] = max(widths[j], len([]rune(clean[i][j])))
		}
	}

	r.dim.Fprintln(r.out, "  "+joinPadded(orderHeaders, widths))
	for _, row := range clean {
		line := joinPadded(row[:5], widths[:5])
		fmt.Fprintf(r.out, "  %s  ", line)
		r.statusColor(row[5]).Fprintln(r.out, row[5])
	}
}

func (r *Renderer) statusColor(status string) *color.Color {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completada":
		return r.green
	case "en proceso":
		return r.yellow
	default:
		return r.dim
	}
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c + strings.Repeat(" ", widths[i]-len([]rune(c)))
	}
	return strings.Join(parts, "  ")
}

// sanitize drops control characters so server text is shown, never interpreted.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
