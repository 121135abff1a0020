package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatXLSX:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", eris.Errorf("report: unknown format %q (valid: table, csv, xlsx)", s)
	}
}

// Render writes a tab as a terminal table.
func Render(w io.Writer, t *Tab) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	if t.Title != "" {
		tw.SetTitle(t.Title)
	}

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

// WriteCSV writes tabs as CSV. Multiple tabs are separated by a blank
// record with the next tab's title on its own line.
func WriteCSV(w io.Writer, tabs ...*Tab) error {
	cw := csv.NewWriter(w)
	for i, t := range tabs {
		if len(tabs) > 1 {
			if i > 0 {
				if err := cw.Write([]string{}); err != nil {
					return eris.Wrap(err, "report: write csv")
				}
			}
			if err := cw.Write([]string{t.Title}); err != nil {
				return eris.Wrap(err, "report: write csv")
			}
		}
		if err := cw.Write(t.Header); err != nil {
			return eris.Wrap(err, "report: write csv")
		}
		for _, row := range t.Rows {
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "report: write csv")
			}
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteXLSX writes tabs as an XLSX workbook, one sheet per tab. Sheet
// names come from tab titles, truncated to the 31-character limit.
func WriteXLSX(path string, tabs ...*Tab) error {
	wb := xlsx.NewFile()
	for _, t := range tabs {
		sheet, err := wb.AddSheet(sheetName(t.Title))
		if err != nil {
			return eris.Wrapf(err, "report: add sheet %q", t.Title)
		}

		hdr := sheet.AddRow()
		for _, h := range t.Header {
			hdr.AddCell().SetString(h)
		}
		for _, row := range t.Rows {
			r := sheet.AddRow()
			for _, cell := range row {
				r.AddCell().SetString(cell)
			}
		}
	}
	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func sheetName(title string) string {
	if title == "" {
		return "Sheet1"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

// Write renders tabs in the requested format. Table and CSV go to w
// (or a file when out is set); XLSX always needs an output path.
func Write(w io.Writer, tabs []*Tab, format Format, out string) error {
	if out != "" && format != FormatXLSX {
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", out)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case FormatCSV:
		return WriteCSV(w, tabs...)
	case FormatXLSX:
		if out == "" {
			return eris.New("report: xlsx output requires --out")
		}
		return WriteXLSX(out, tabs...)
	default:
		for _, t := range tabs {
			Render(w, t)
		}
		return nil
	}
}
