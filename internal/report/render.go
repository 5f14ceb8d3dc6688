package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Printer writes markdown sections to a terminal, styled unless Plain is set.
type Printer struct {
	Out   io.Writer
	Plain bool
	Width int
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, plain bool) *Printer {
	return &Printer{Out: out, Plain: plain, Width: 100}
}

// Print renders md and writes it.
func (p *Printer) Print(md string) error {
	if md == "" {
		return nil
	}
	if p.Plain {
		_, err := fmt.Fprintln(p.Out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(p.Width))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = io.WriteString(p.Out, out)
	return err
}
