package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/joefazee/visaguide/models"
)

// WriteReport prints one line per row followed by the totals.
func WriteReport(w io.Writer, report *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tACTION\tSLUG\tNAME\tDETAIL")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.Line, row.Action, row.Slug, row.Name, describe(row.Err))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	mode := "import"
	if report.DryRun {
		mode = "dry run"
	}
	_, err := fmt.Fprintf(w, "\n%s: %d created, %d updated, %d failed\n", mode,
		report.Count(ActionCreate), report.Count(ActionUpdate), report.Count(ActionFailed))
	return err
}

// describe flattens field errors into a single cell.
func describe(err error) string {
	if err == nil {
		return ""
	}

	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		fields := verrs.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+fields[k])
		}
		return strings.Join(parts, "; ")
	}

	var incomplete *models.IncompleteRecordError
	if errors.As(err, &incomplete) {
		return "missing " + strings.Join(incomplete.Missing, ", ")
	}
	return err.Error()
}
