package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tesh254/axmd/internal/markdown"
	"github.com/tesh254/axmd/internal/storage"
)

// writeOutput writes md to path, or to w when path is empty.
func writeOutput(w io.Writer, path, md string) error {
	if path == "" {
		_, err := fmt.Fprintln(w, md)
		return err
	}
	if err := os.WriteFile(path, []byte(md+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, s markdown.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Element", "Count"})
	t.AppendRow(table.Row{"Headings", len(s.Headings)})
	t.AppendRow(table.Row{"Links", s.Links})
	t.AppendRow(table.Row{"Images", s.Images})
	t.AppendRow(table.Row{"List Items", s.ListItems})
	t.AppendRow(table.Row{"Rules", s.Rules})
	t.AppendRow(table.Row{"Words", s.Words})
	t.Render()

	if len(s.Headings) == 0 {
		return
	}
	o := table.NewWriter()
	o.SetOutputMirror(w)
	o.SetStyle(table.StyleLight)
	o.Style().Format.Header = text.FormatDefault
	o.AppendHeader(table.Row{"Outline"})
	o.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignLeft, WidthMax: 80}})
	for _, h := range s.Headings {
		o.AppendRow(table.Row{strings.Repeat("  ", h.Level-1) + h.Text})
	}
	o.Render()
}

func printPages(w io.Writer, pages []*storage.Page) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"URL", "Title", "Source", "Length", "Fetched"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, WidthMax: 60},
		{Number: 2, Align: text.AlignLeft, WidthMax: 40},
	})
	for _, p := range pages {
		t.AppendRow(table.Row{p.URL, p.Title, string(p.Source), strconv.Itoa(len(p.Markdown)), p.FetchedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
}
