package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/session"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { color.NoColor = true }

func newSession(t *testing.T) *session.Session {
	t.Helper()
	lines := []string{
		"RecordID,Country,Gender,Demographics Question,Demographics Response,Question,Survey Year,Value",
		"1,Afghanistan,F,Age,15-24,... if she burns the food,01/01/2015,10",
		"2,Afghanistan,M,Age,15-24,... if she burns the food,01/01/2015,",
		"3,Benin,F,Education,Higher,... if she argues with him,01/01/2012,30",
		"4,Chad,M,Education,None,... if she argues with him,bad-date,40",
	}
	p := filepath.Join(t.TempDir(), "women_violence.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	s, err := session.New(dataset.NewSource(p, nil), session.DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTerminal, "md": FormatMarkdown, "JSON": FormatJSON, "table": FormatTerminal} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestMarkdown_ContainsEveryPanel(t *testing.T) {
	r := NewReport(newSession(t))
	md := Markdown(r)

	assert.Contains(t, md, "# WomenMatters: Analyzing Global Issue")
	assert.Contains(t, md, "Filled 1 missing **Value** entries with median 30.00")
	assert.Contains(t, md, "(1 unparseable)")
	assert.Contains(t, md, "No filters applied")
	assert.Contains(t, md, "**Records Shown:** 3")
	for _, p := range r.Panels {
		assert.Contains(t, md, "## "+p.Title)
		assert.Contains(t, md, p.Insight)
	}
	assert.Contains(t, md, "| Demographics Question | N | Min | Q1 | Median | Q3 | Max | Mean |")
	assert.Contains(t, md, "| Age | 2 | 10.00 |")
	assert.Contains(t, md, "## Key Insights")
	assert.Contains(t, md, "- **Gender Gap:**")
}

func TestMarkdown_EmptyResult(t *testing.T) {
	s := newSession(t)
	p := filter.All(s.Options())
	p.Countries = nil
	_, err := s.Apply(p)
	require.NoError(t, err)

	md := Markdown(NewReport(s))
	assert.Contains(t, md, "Filters applied! Showing 0 records.")
	assert.Contains(t, md, "Countries: (none)")
	assert.Equal(t, 10, strings.Count(md, "(no records)"))
}

func TestMarkdown_HeatmapMissingCells(t *testing.T) {
	md := Markdown(NewReport(newSession(t)))
	assert.Contains(t, md, "| Age | - | 20.00 |")
}

func TestTerminal_WritesTables(t *testing.T) {
	s := newSession(t)
	p := filter.All(s.Options())
	p.Countries = []string{"Afghanistan"}
	_, err := s.Apply(p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTerminal, NewReport(s)))
	out := buf.String()
	assert.Contains(t, out, "=== WomenMatters: Analyzing Global Issue ===")
	assert.Contains(t, out, "✓ Filters applied! Showing 2 records.")
	assert.Contains(t, out, "Records Shown: 2")
	assert.Contains(t, out, "Distribution of Gender")
	assert.Contains(t, out, "| Gender | Count |")
	assert.Contains(t, out, "Key Insights")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, NewReport(newSession(t))))
	var got struct {
		Records int `json:"records"`
		Panels  []struct {
			ID   string          `json:"id"`
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"panels"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Records)
	require.Len(t, got.Panels, 10)
	assert.Equal(t, "box", got.Panels[0].Kind)
	assert.NotEqual(t, "null", string(got.Panels[1].Data))
}

func TestPreview(t *testing.T) {
	s := newSession(t)
	raw := &dataset.Dataset{Name: "women_violence.csv", Records: []dataset.Record{
		{Country: "Afghanistan", SurveyYear: "01/01/2015"},
	}}
	pv := NewPreview(raw, s.Cleaned(), 5)
	require.Len(t, pv.Cleaned, 3)

	md := PreviewMarkdown(pv)
	assert.Contains(t, md, "**First 1 Rows: Raw Data**")
	assert.Contains(t, md, "| Afghanistan |  |  |  |  | 01/01/2015 | NaN |")
	assert.Contains(t, md, "2015-01-01")
	assert.Contains(t, md, "**First 3 Rows: Cleaned Data**")

	var buf bytes.Buffer
	require.NoError(t, PreviewTerminal(&buf, pv))
	assert.Contains(t, buf.String(), "First 3 Rows: Cleaned Data")
	assert.Contains(t, buf.String(), "2012-01-01")
}

func TestOptionsTerminal(t *testing.T) {
	s := newSession(t)
	var buf bytes.Buffer
	require.NoError(t, OptionsTerminal(&buf, s.Options(), s.Params()))
	out := buf.String()
	assert.Contains(t, out, "Year range: 2012-2015")
	assert.Contains(t, out, "  Benin\n")
	assert.Contains(t, out, "Afghanistan, Benin")
}
