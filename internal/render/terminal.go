package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/womenmatters/internal/chart"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/utils"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	heading    = color.New(color.FgCyan, color.Bold)
	subheading = color.New(color.FgYellow)
	insight    = color.New(color.FgMagenta)
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// Terminal writes r as coloured headings and ASCII tables.
func Terminal(w io.Writer, r Report) error {
	heading.Fprintf(w, "=== %s ===\n", chart.DashboardTitle)
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	writeCleaning(w, r.Cleaning)
	writeParams(w, r)

	for _, p := range r.Panels {
		subheading.Fprintf(w, "\n%s\n", p.Title)
		header, rows := panelTable(p)
		if len(rows) == 0 {
			fmt.Fprintln(w, "(no records)")
		} else {
			table := newTable(w, header)
			table.AppendBulk(rows)
			table.Render()
		}
		insight.Fprintf(w, "Insight: %s\n", p.Insight)
	}

	heading.Fprintln(w, "\nKey Insights")
	for _, in := range r.Insights {
		fmt.Fprintf(w, "- %s: %s\n", in.Title, in.Text)
	}
	return nil
}

func writeCleaning(w io.Writer, c dataset.CleanReport) {
	subheading.Fprintln(w, "\nPreprocessing Steps")
	if c.MedianDefined {
		fmt.Fprintf(w, "✓ Filled %d missing Value entries with median %s\n", c.Imputed, num(c.Median))
	} else {
		fmt.Fprintln(w, "⚠ Median undefined: no Value entries to impute from")
	}
	fmt.Fprintf(w, "✓ Converted Survey Year to dates (%d unparseable)\n", c.InvalidDates)
	fmt.Fprintf(w, "✓ Dropped rows with missing critical fields (%d of %d rows)\n", c.Dropped(), c.RawRows)
}

func writeParams(w io.Writer, r Report) {
	subheading.Fprintln(w, "\nFilters")
	if !r.Applied {
		fmt.Fprintln(w, "No filters applied; showing the full cleaned dataset.")
	} else {
		p := r.Params
		fmt.Fprintf(w, "Years: %d-%d\n", p.YearMin, p.YearMax)
		fmt.Fprintf(w, "Countries: %s\n", joinOrNone(p.Countries))
		fmt.Fprintf(w, "Genders: %s\n", joinOrNone(p.Genders))
		fmt.Fprintf(w, "Demographics Questions: %s\n", joinOrNone(p.DemographicsQuestions))
		color.New(color.FgGreen).Fprintf(w, "✓ %s\n", r.Message)
	}
	fmt.Fprintf(w, "Records Shown: %s\n", utils.GroupThousands(r.Records))
}

func joinOrNone(vals []string) string {
	if len(vals) == 0 {
		return "(none)"
	}
	return strings.Join(vals, ", ")
}

// PreviewTerminal writes the raw and cleaned preview tables.
func PreviewTerminal(w io.Writer, p Preview) error {
	subheading.Fprintf(w, "First %d Rows: Raw Data\n", len(p.Raw))
	table := newTable(w, previewHeader)
	table.AppendBulk(previewRows(p.Raw, false))
	table.Render()

	subheading.Fprintf(w, "\nFirst %d Rows: Cleaned Data\n", len(p.Cleaned))
	if len(p.Cleaned) == 0 {
		fmt.Fprintln(w, "(no records)")
		return nil
	}
	table = newTable(w, previewHeader)
	table.AppendBulk(previewRows(p.Cleaned, true))
	table.Render()
	return nil
}

// OptionsTerminal lists the selectable filter values and the defaults.
func OptionsTerminal(w io.Writer, opt filter.Options, defaults filter.Params) error {
	heading.Fprintln(w, "Interactive Filters")
	fmt.Fprintf(w, "Year range: %d-%d\n", opt.YearMin, opt.YearMax)

	table := newTable(w, []string{"Filter", "Options", "Default"})
	table.Append([]string{"Countries", strconv.Itoa(len(opt.Countries)), joinOrNone(defaults.Countries)})
	table.Append([]string{"Genders", strconv.Itoa(len(opt.Genders)), joinOrNone(defaults.Genders)})
	table.Append([]string{"Demographics Questions", strconv.Itoa(len(opt.DemographicsQuestions)), joinOrNone(defaults.DemographicsQuestions)})
	table.Render()

	for _, sec := range []struct {
		name string
		vals []string
	}{
		{"Countries", opt.Countries},
		{"Genders", opt.Genders},
		{"Demographics Questions", opt.DemographicsQuestions},
	} {
		subheading.Fprintf(w, "\n%s\n", sec.name)
		for _, v := range sec.vals {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	return nil
}
