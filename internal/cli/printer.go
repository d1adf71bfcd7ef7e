package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type printer struct {
	out    io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

func newPrinter(cmd *cobra.Command, opts *globalOptions) *printer {
	p := &printer{
		out:    cmd.OutOrStdout(),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	if opts.noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) success(format string, a ...any) {
	p.green.Fprintf(p.out, "✓ "+format+"\n", a...)
}

func (p *printer) warning(format string, a ...any) {
	p.yellow.Fprintf(p.out, "⚠️  "+format+"\n", a...)
}

func (p *printer) failure(format string, a ...any) {
	p.red.Fprintf(p.out, "✗ "+format+"\n", a...)
}

func (p *printer) step(format string, a ...any) {
	p.cyan.Fprintf(p.out, "→ "+format+"\n", a...)
}

func (p *printer) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (p *printer) table(header []any, rows [][]string) error {
	table := tablewriter.NewWriter(p.out)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// byScore picks the colour for a score: green from 90, yellow from 70, else red.
func (p *printer) byScore(score int) *color.Color {
	switch {
	case score >= 90:
		return p.green
	case score >= 70:
		return p.yellow
	default:
		return p.red
	}
}
