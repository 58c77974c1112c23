package render

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/womenmatters/internal/chart"
	"github.com/KaramelBytes/womenmatters/internal/utils"
)

// Markdown renders r as a Markdown document with one table per chart.
func Markdown(r Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", chart.DashboardTitle))
	b.WriteString(chart.Overview + "\n\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: `%s`\n\n", r.Source))
	}

	c := r.Cleaning
	b.WriteString("## Preprocessing Steps\n\n")
	if c.MedianDefined {
		b.WriteString(fmt.Sprintf("- Filled %d missing **Value** entries with median %s\n", c.Imputed, num(c.Median)))
	} else {
		b.WriteString("- Median undefined: no **Value** entries to impute from\n")
	}
	b.WriteString(fmt.Sprintf("- Converted **Survey Year** to dates (%d unparseable)\n", c.InvalidDates))
	b.WriteString(fmt.Sprintf("- Dropped rows with missing critical fields (%d of %d rows)\n\n", c.Dropped(), c.RawRows))

	b.WriteString("## Filters\n\n")
	if r.Applied {
		p := r.Params
		b.WriteString(fmt.Sprintf("- Years: %d-%d\n", p.YearMin, p.YearMax))
		b.WriteString(fmt.Sprintf("- Countries: %s\n", safeVal(joinOrNone(p.Countries))))
		b.WriteString(fmt.Sprintf("- Genders: %s\n", safeVal(joinOrNone(p.Genders))))
		b.WriteString(fmt.Sprintf("- Demographics Questions: %s\n", safeVal(joinOrNone(p.DemographicsQuestions))))
		b.WriteString(fmt.Sprintf("\n%s\n", r.Message))
	} else {
		b.WriteString("No filters applied; showing the full cleaned dataset.\n")
	}
	b.WriteString(fmt.Sprintf("\n**Records Shown:** %s\n", utils.GroupThousands(r.Records)))

	for _, p := range r.Panels {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", p.Title))
		b.WriteString(fmt.Sprintf("_Chart: %s_\n\n", p.Kind))
		header, rows := panelTable(p)
		if len(rows) == 0 {
			b.WriteString("(no records)\n")
		} else {
			writeMarkdownTable(&b, header, rows)
		}
		b.WriteString(fmt.Sprintf("\n> **Insight:** %s\n", p.Insight))
	}

	b.WriteString("\n## Key Insights\n\n")
	for _, in := range r.Insights {
		b.WriteString(fmt.Sprintf("- **%s:** %s\n", in.Title, in.Text))
	}
	b.WriteString("\n## Conclusion\n\n")
	b.WriteString(chart.Conclusion + "\n")
	return b.String()
}

// PreviewMarkdown renders the raw and cleaned preview tables.
func PreviewMarkdown(p Preview) string {
	var b strings.Builder
	b.WriteString("## Data Preview\n\n")
	b.WriteString(fmt.Sprintf("**First %d Rows: Raw Data**\n\n", len(p.Raw)))
	writeMarkdownTable(&b, previewHeader, previewRows(p.Raw, false))
	b.WriteString(fmt.Sprintf("\n**First %d Rows: Cleaned Data**\n\n", len(p.Cleaned)))
	if len(p.Cleaned) == 0 {
		b.WriteString("(no records)\n")
	} else {
		writeMarkdownTable(&b, previewHeader, previewRows(p.Cleaned, true))
	}
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(escapeAll(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(escapeAll(row), " | ") + " |\n")
	}
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = safeVal(c)
	}
	return out
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
