// Package render presents dashboard snapshots as terminal tables, Markdown or
// JSON. Chart drawing is left to whatever consumes the chart specs.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/womenmatters/internal/aggregate"
	"github.com/KaramelBytes/womenmatters/internal/chart"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"github.com/KaramelBytes/womenmatters/internal/utils"
)

// Format selects an output renderer.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "terminal", "table", "text":
		return FormatTerminal, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (use terminal, markdown or json)", s)
}

// Report is one rendered dashboard: the cleaning summary, the params behind
// the active snapshot and every chart panel.
type Report struct {
	Source   string              `json:"source"`
	Cleaning dataset.CleanReport `json:"cleaning"`
	Params   filter.Params       `json:"params"`
	Applied  bool                `json:"applied"`
	Records  int                 `json:"records"`
	Message  string              `json:"message,omitempty"`
	Panels   []chart.Panel       `json:"panels"`
	Insights []chart.Insight     `json:"key_insights"`
}

// NewReport captures the current state of s.
func NewReport(s *session.Session) Report {
	d := s.Dashboard()
	r := Report{
		Source:   s.Cleaned().Name,
		Cleaning: s.CleanReport(),
		Params:   s.Params(),
		Applied:  s.Applied(),
		Records:  d.Records,
		Panels:   chart.Panels(d),
		Insights: chart.KeyInsights(),
	}
	if r.Applied {
		r.Message = session.Result{Records: d.Records, Empty: d.Empty()}.Message()
	}
	return r
}

// Write renders r in the given format.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatJSON:
		b, err := utils.PrettyJSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	default:
		return Terminal(w, r)
	}
}

// Preview holds the first rows of the raw and cleaned datasets.
type Preview struct {
	Source  string           `json:"source"`
	Raw     []dataset.Record `json:"raw"`
	Cleaned []dataset.Record `json:"cleaned"`
}

// NewPreview takes the first n rows of raw and cleaned.
func NewPreview(raw, cleaned *dataset.Dataset, n int) Preview {
	return Preview{Source: raw.Name, Raw: raw.Head(n), Cleaned: cleaned.Head(n)}
}

var previewHeader = []string{
	dataset.ColCountry, dataset.ColGender, dataset.ColDemographicsQuestion,
	dataset.ColDemographicsResponse, dataset.ColQuestion, dataset.ColSurveyYear, dataset.ColValue,
}

// previewRows formats records for display. Cleaned rows print their parsed
// date as YYYY-MM-DD; raw rows keep the source text.
func previewRows(recs []dataset.Record, cleaned bool) [][]string {
	out := make([][]string, 0, len(recs))
	for _, r := range recs {
		date := r.SurveyYear
		if cleaned && !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		val := "NaN"
		if r.HasValue {
			val = strconv.FormatFloat(r.Value, 'f', -1, 64)
		}
		out = append(out, []string{r.Country, r.Gender, r.DemographicsQuestion, r.DemographicsResponse, r.Question, date, val})
	}
	return out
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// panelTable flattens a panel payload into a header and rows.
func panelTable(p chart.Panel) ([]string, [][]string) {
	var rows [][]string
	switch data := p.Data.(type) {
	case []aggregate.Distribution:
		for _, d := range data {
			s := d.Summary
			rows = append(rows, []string{d.Key, strconv.Itoa(s.Count), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max), num(s.Mean)})
		}
		return []string{p.X, "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"}, rows
	case []aggregate.CategoryCount:
		for _, c := range data {
			rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
		}
		return []string{p.X, p.Y}, rows
	case []aggregate.WordCount:
		for _, c := range data {
			rows = append(rows, []string{c.Word, strconv.Itoa(c.Count)})
		}
		return []string{p.X, p.Y}, rows
	case []aggregate.GroupMean:
		for _, g := range data {
			rows = append(rows, []string{g.Key, num(g.Mean), strconv.Itoa(g.Count)})
		}
		return []string{p.X, "Mean " + p.Y, "N"}, rows
	case []aggregate.YearMean:
		for _, y := range data {
			rows = append(rows, []string{strconv.Itoa(y.Year), num(y.Mean), strconv.Itoa(y.Count)})
		}
		return []string{p.X, "Mean " + p.Y, "N"}, rows
	case aggregate.Tree:
		for _, n := range data.Nodes {
			parent := n.Parent
			if parent == "" {
				parent = "-"
			}
			rows = append(rows, []string{parent, n.Label, num(n.Value)})
		}
		return []string{"Parent", "Sector", p.Y}, rows
	case aggregate.Matrix:
		header := append([]string{p.Y}, data.Cols...)
		for i, rk := range data.Rows {
			row := []string{rk}
			for _, c := range data.Cells[i] {
				if c == nil {
					row = append(row, "-")
				} else {
					row = append(row, num(*c))
				}
			}
			rows = append(rows, row)
		}
		return header, rows
	case []aggregate.PairMean:
		for _, pm := range data {
			rows = append(rows, []string{pm.Parent, pm.Child, num(pm.Mean), strconv.Itoa(pm.Count)})
		}
		return []string{p.X, p.Color, "Mean " + p.Y, "N"}, rows
	case []aggregate.PairCount:
		for _, pc := range data {
			rows = append(rows, []string{pc.Parent, pc.Child, strconv.Itoa(pc.Count)})
		}
		return []string{p.X, p.Color, p.Y}, rows
	}
	return nil, nil
}
