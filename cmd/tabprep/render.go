package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ajitpratap0/tabprep/internal/pipeline"
	"github.com/ajitpratap0/tabprep/pkg/formats/columnar"
	"github.com/ajitpratap0/tabprep/pkg/json"
	tab "github.com/ajitpratap0/tabprep/pkg/table"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	// formatArrow prints the Arrow schema of the result and its row count
	formatArrow = "arrow"
)

// render writes a run summary followed by the first n rows of the result.
func render(w io.Writer, res *pipeline.Result, format string, n int) error {
	switch format {
	case formatJSON:
		return renderJSON(w, res.Table, n)
	case formatArrow:
		return renderArrow(w, res.Table)
	}

	fmt.Fprintf(w, "run %s: %d rows read, %d duplicates dropped, %s\n",
		res.RunID, res.RowsRead, res.DuplicatesDropped, res.Table)

	steps := table.NewWriter()
	steps.SetOutputMirror(w)
	steps.SetStyle(table.StyleLight)
	steps.AppendHeader(table.Row{"#", "step", "rows", "columns", "duration"})
	for i, s := range res.Steps {
		steps.AppendRow(table.Row{i + 1, s.Name, s.Rows, s.Columns, s.Duration.String()})
	}
	if len(res.Steps) > 0 {
		steps.Render()
	}

	return renderTable(w, res.Table, n)
}

func renderTable(w io.Writer, t *tab.Table, n int) error {
	rows := previewRows(t, n)
	if rows == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, t.Width())
	for j, c := range t.Columns() {
		header[j] = c
	}
	tw.AppendHeader(header)

	for i := 0; i < rows; i++ {
		row := make(table.Row, t.Width())
		for j := range row {
			row[j] = tab.FormatValue(t.At(i, j))
		}
		tw.AppendRow(row)
	}

	tw.Render()
	fmt.Fprintf(w, "(%d of %d rows)\n", rows, t.Len())
	return nil
}

func renderJSON(w io.Writer, t *tab.Table, n int) error {
	rows := previewRows(t, n)
	if rows == t.Len() {
		return json.MarshalToWriter(w, t)
	}
	head, err := tab.New(t.Columns(), t.Rows()[:rows])
	if err != nil {
		return err
	}
	return json.MarshalToWriter(w, head)
}

func renderArrow(w io.Writer, t *tab.Table) error {
	rec, err := columnar.ToArrow(t, nil)
	if err != nil {
		return err
	}
	defer rec.Release()

	fmt.Fprintln(w, rec.Schema())
	fmt.Fprintf(w, "(%d rows, %d columns)\n", rec.NumRows(), rec.NumCols())
	return nil
}

func previewRows(t *tab.Table, n int) int {
	if n < 0 || n > t.Len() {
		return t.Len()
	}
	return n
}
