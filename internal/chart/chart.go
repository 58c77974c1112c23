// Package chart describes the dashboard panels handed to presentation
// adapters: what each chart shows, which fields it reads and the insight text
// printed beside it. Nothing here draws.
package chart

import (
	"github.com/KaramelBytes/womenmatters/internal/aggregate"
)

// Kind names the chart type a presentation layer should draw.
type Kind string

const (
	Box        Kind = "box"
	Pie        Kind = "pie"
	WordCloud  Kind = "word-cloud"
	Bar        Kind = "bar"
	Line       Kind = "line"
	Sunburst   Kind = "sunburst"
	Heatmap    Kind = "heatmap"
	Violin     Kind = "violin"
	GroupedBar Kind = "grouped-bar"
	StackedBar Kind = "stacked-bar"
)

// Spec describes one chart. X, Y and Color name the fields of the bound
// payload; Path lists the hierarchy levels of a sunburst.
type Spec struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Kind    Kind     `json:"kind"`
	X       string   `json:"x,omitempty"`
	Y       string   `json:"y,omitempty"`
	Color   string   `json:"color,omitempty"`
	Path    []string `json:"path,omitempty"`
	Insight string   `json:"insight"`
}

// Panel is a Spec bound to its aggregated table.
type Panel struct {
	Spec
	Data any `json:"data"`
}

// Chart identifiers, in dashboard order.
const (
	IDValueByDemographics   = "value-by-demographics"
	IDGenderDistribution    = "gender-distribution"
	IDQuestionWords         = "question-words"
	IDMeanByQuestion        = "mean-by-question"
	IDMeanByYear            = "mean-by-year"
	IDDemographicsHierarchy = "demographics-hierarchy"
	IDDemographicsHeatmap   = "demographics-heatmap"
	IDValueByCountry        = "value-by-country"
	IDGenderByDemographics  = "gender-by-demographics"
	IDResponseComposition   = "response-composition"
)

var catalog = []Spec{
	{
		ID:      IDValueByDemographics,
		Kind:    Box,
		Title:   "Distribution of Value by Demographics Question",
		X:       "Demographics Question",
		Y:       "Value",
		Insight: "Value distributions vary widely across demographic categories, highlighting key areas for intervention.",
	},
	{
		ID:      IDGenderDistribution,
		Kind:    Pie,
		Title:   "Distribution of Gender",
		X:       "Gender",
		Y:       "Count",
		Insight: "The dataset contains responses from both genders, enabling comparative analysis.",
	},
	{
		ID:      IDQuestionWords,
		Kind:    WordCloud,
		Title:   "Common Survey Questions",
		X:       "Word",
		Y:       "Count",
		Insight: "Frequently asked questions focus on specific justifications for violence.",
	},
	{
		ID:      IDMeanByQuestion,
		Kind:    Bar,
		Title:   "Average Value by Question",
		X:       "Question",
		Y:       "Value",
		Insight: "Some questions elicit higher justification rates than others.",
	},
	{
		ID:      IDMeanByYear,
		Kind:    Line,
		Title:   "Average Value Over Years",
		X:       "Survey Year",
		Y:       "Value",
		Insight: "Trends over time reveal changes in societal attitudes.",
	},
	{
		ID:      IDDemographicsHierarchy,
		Kind:    Sunburst,
		Title:   "Average Value by Demographics Hierarchy",
		Y:       "Value",
		Path:    []string{"Demographics Question", "Demographics Response"},
		Insight: "Sunburst chart shows how justification rates differ across demographic hierarchies.",
	},
	{
		ID:      IDDemographicsHeatmap,
		Kind:    Heatmap,
		Title:   "Average Value by Demographics Question and Question",
		X:       "Question",
		Y:       "Demographics Question",
		Color:   "Average Value",
		Insight: "Heatmap highlights which questions are most justified by different demographic groups.",
	},
	{
		ID:      IDValueByCountry,
		Kind:    Violin,
		Title:   "Distribution of Value by Country",
		X:       "Country",
		Y:       "Value",
		Insight: "Country-wise distributions reveal regional differences in attitudes.",
	},
	{
		ID:      IDGenderByDemographics,
		Kind:    GroupedBar,
		Title:   "Average Value by Demographics Question and Gender",
		X:       "Demographics Question",
		Y:       "Value",
		Color:   "Gender",
		Insight: "Gender-based analysis uncovers differences in justification rates.",
	},
	{
		ID:      IDResponseComposition,
		Kind:    StackedBar,
		Title:   "Distribution of Demographics Responses within Demographics Questions",
		X:       "Demographics Question",
		Y:       "Count",
		Color:   "Demographics Response",
		Insight: "Stacked bar chart shows the composition of responses within each demographic category.",
	},
}

// Catalog returns the ten dashboard charts in display order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	for i, s := range catalog {
		s.Path = append([]string(nil), s.Path...)
		out[i] = s
	}
	return out
}

// Lookup returns the Spec with the given ID.
func Lookup(id string) (Spec, bool) {
	for _, s := range Catalog() {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

// Panels binds every chart of the catalog to its table in d.
func Panels(d aggregate.Dashboard) []Panel {
	specs := Catalog()
	out := make([]Panel, 0, len(specs))
	for _, s := range specs {
		out = append(out, Panel{Spec: s, Data: dataFor(d, s.ID)})
	}
	return out
}

// PanelFor binds a single chart. ok is false for an unknown ID.
func PanelFor(d aggregate.Dashboard, id string) (Panel, bool) {
	s, ok := Lookup(id)
	if !ok {
		return Panel{}, false
	}
	return Panel{Spec: s, Data: dataFor(d, id)}, true
}

func dataFor(d aggregate.Dashboard, id string) any {
	switch id {
	case IDValueByDemographics:
		return d.ValueByDemographicsQuestion
	case IDGenderDistribution:
		return d.GenderCounts
	case IDQuestionWords:
		return d.Words
	case IDMeanByQuestion:
		return d.MeanByQuestion
	case IDMeanByYear:
		return d.MeanByYear
	case IDDemographicsHierarchy:
		return d.Sunburst
	case IDDemographicsHeatmap:
		return d.DemographicsQuestionMatrix
	case IDValueByCountry:
		return d.ValueByCountry
	case IDGenderByDemographics:
		return d.MeanByDemographicsAndGender
	case IDResponseComposition:
		return d.CountByDemographics
	}
	return nil
}
