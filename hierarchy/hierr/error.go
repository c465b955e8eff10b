package hierr

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// Errors collects the problems found while loading declarations, possibly
// from several files. A nil *Errors is empty.
type Errors struct {
	errs []DeclError
}

func (r *Errors) With(err ...DeclError) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil || len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

// Errors returns every problem, warnings included, in the order they were found
func (r *Errors) Errors() []DeclError {
	if r == nil {
		return nil
	}
	return r.errs
}

// Failures are the problems that make the declarations unusable
func (r *Errors) Failures() []DeclError {
	return r.filter(false)
}

// Warnings are the problems the declarations were loaded despite
func (r *Errors) Warnings() []DeclError {
	return r.filter(true)
}

func (r *Errors) filter(warning bool) []DeclError {
	var res []DeclError
	for _, err := range r.Errors() {
		if err.IsWarning() == warning {
			res = append(res, err)
		}
	}
	return res
}

// HasError ignores warnings
func (r *Errors) HasError() bool {
	return len(r.Failures()) > 0
}

// Files lists the files problems were found in, sorted
func (r *Errors) Files() []string {
	return slices.Sorted(maps.Keys(r.ByFile()))
}

// ByFile groups problems by file, each group ordered by position
func (r *Errors) ByFile() map[string][]DeclError {
	files := map[string][]DeclError{}
	for _, err := range r.Errors() {
		file := err.At().File
		files[file] = append(files[file], err)
	}
	for _, errs := range files {
		slices.SortStableFunc(errs, comparePositions)
	}
	return files
}

func comparePositions(a, b DeclError) int {
	return cmp.Or(
		cmp.Compare(a.At().Line, b.At().Line),
		cmp.Compare(a.At().Column, b.At().Column),
	)
}

// Summary counts failures and warnings, like "2 errors, 1 warning"
func (r *Errors) Summary() string {
	return plural(len(r.Failures()), "error") + ", " + plural(len(r.Warnings()), "warning")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// LogValue groups the formatted problems by file
func (r *Errors) LogValue() slog.Value {
	byFile := r.ByFile()
	var files []slog.Attr
	for _, file := range r.Files() {
		var vals []slog.Attr
		for i, v := range byFile[file] {
			vals = append(vals, slog.String(fmt.Sprint("e", i), FormatWithCode(v)))
		}
		files = append(files, slog.Attr{Key: file, Value: slog.GroupValue(vals...)})
	}
	return slog.GroupValue(files...)
}
