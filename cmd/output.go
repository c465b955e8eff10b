package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
)

// table prints rows of columns. On a terminal the columns are aligned,
// otherwise they are tab separated so the output is easy to process.
type table struct {
	w  io.Writer
	tw *tabwriter.Writer
}

func newTable(out io.Writer) *table {
	t := &table{w: out}
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		t.tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		t.w = t.tw
	}
	return t
}

func (t *table) row(cols ...string) {
	_, _ = fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	if t.tw == nil {
		return nil
	}
	return t.tw.Flush()
}
