package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes UI components to a writer. Styling is dropped when the
// writer is not a terminal so output can be piped.
type Printer struct {
	out    io.Writer
	width  int
	styled bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		styled: IsTerminal(w),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Styled reports whether the printer renders lipgloss components
func (p *Printer) Styled() bool {
	return p.styled
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	if !p.styled {
		return
	}
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Field) {
	if !p.styled {
		p.Println(title)
		p.printPlainFields(details)
		return
	}
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Field) {
	if !p.styled {
		p.Println("warning: " + title)
		p.printPlainFields(details)
		return
	}
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error) {
	if !p.styled {
		_, _ = fmt.Fprintf(p.out, "%s: %v\n", title, err)
		return
	}
	p.Println(NewFailureResult(title, err).SetWidth(p.width).Render())
}

// PrintFields prints an aligned key/value list
func (p *Printer) PrintFields(fields ...Field) {
	if !p.styled {
		p.printPlainFields(fields)
		return
	}
	for _, f := range fields {
		p.Println(ResultKeyStyle.Render("  "+f.Key+":") + " " + ResultValueStyle.Render(f.Value))
	}
}

func (p *Printer) printPlainFields(fields []Field) {
	for _, f := range fields {
		_, _ = fmt.Fprintf(p.out, "%s: %s\n", f.Key, f.Value)
	}
}

// PrintTable prints rows under column titles, padding every column to its
// widest cell
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	p.Println(p.tableLine(headers, widths, true))
	for _, row := range rows {
		p.Println(p.tableLine(row, widths, false))
	}
}

func (p *Printer) tableLine(cells []string, widths []int, header bool) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if header && p.styled {
			padded = TableHeaderStyle.Render(padded)
		}
		parts[i] = padded
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// PrintJSON pretty-prints raw JSON, falling back to the raw bytes when they
// are not valid JSON
func (p *Printer) PrintJSON(raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, _ = p.out.Write(raw)
		p.Newline()
		return
	}
	p.Println(buf.String())
}

// PrintValue marshals v as indented JSON
func (p *Printer) PrintValue(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	p.Println(string(data))
	return nil
}
