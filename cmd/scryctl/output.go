package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// printer writes colored status lines.
type printer struct {
	out io.Writer
	err io.Writer
}

func (p *printer) Info(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Success(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(p.out, format+"\n", args...)
}

// Warn goes to the error stream so piped output stays clean.
func (p *printer) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.err, format+"\n", args...)
}

func (p *printer) Header(title string) {
	color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
}

func (p *printer) Text(s string) {
	fmt.Fprintln(p.out, s)
}

// Table renders rows under header.
func (p *printer) Table(header []string, rows [][]string) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNormal},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
