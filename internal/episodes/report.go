package episodes

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Report formats.
const (
	FormatTSV   = "tsv"
	FormatTable = "table"
)

// WriteReport renders the result in the requested format and writes it to w.
// Nothing is written if rendering fails.
func WriteReport(w io.Writer, res *Result, format string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Found %d ES episodes\n\n", res.Count())

	switch format {
	case "", FormatTSV:
		for _, ep := range res.Sorted() {
			fmt.Fprintf(&buf, "%s\t%d\t%s\n", ep.Slug, ep.Timestamp, ep.Title)
		}
	case FormatTable:
		if res.Count() > 0 {
			buf.WriteString(renderTable(res))
			buf.WriteByte('\n')
		}
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func renderTable(res *Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"SLUG", "TIME", "TITLE"})
	for _, ep := range res.Sorted() {
		tw.AppendRow(table.Row{ep.Slug, strconv.FormatInt(ep.Timestamp, 10), ep.Title})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
