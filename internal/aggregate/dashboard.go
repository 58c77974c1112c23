package aggregate

import (
	"github.com/KaramelBytes/womenmatters/internal/dataset"
)

// DefaultWordCloudTop bounds the word list of a Dashboard built with Build.
const DefaultWordCloudTop = 100

// Dashboard is every chart table for one dataset snapshot.
type Dashboard struct {
	Records                     int             `json:"records"`
	ValueByDemographicsQuestion []Distribution  `json:"value_by_demographics_question"`
	GenderCounts                []CategoryCount `json:"gender_counts"`
	Words                       []WordCount     `json:"words"`
	MeanByQuestion              []GroupMean     `json:"mean_by_question"`
	MeanByYear                  []YearMean      `json:"mean_by_year"`
	DemographicsHierarchy       []PairMean      `json:"demographics_hierarchy"`
	Sunburst                    Tree            `json:"sunburst"`
	DemographicsQuestionMatrix  Matrix          `json:"demographics_question_matrix"`
	ValueByCountry              []Distribution  `json:"value_by_country"`
	MeanByDemographicsAndGender []PairMean      `json:"mean_by_demographics_and_gender"`
	CountByDemographics         []PairCount     `json:"count_by_demographics"`
}

// Empty reports whether the snapshot had no records.
func (d Dashboard) Empty() bool { return d.Records == 0 }

// Build computes every chart table for ds using DefaultWordCloudTop.
func Build(ds *dataset.Dataset) Dashboard {
	return BuildTop(ds, DefaultWordCloudTop)
}

// BuildTop is Build with an explicit word-cloud size. wordTop <= 0 keeps every
// word.
func BuildTop(ds *dataset.Dataset, wordTop int) Dashboard {
	hier := DemographicsHierarchy(ds)
	return Dashboard{
		Records:                     ds.Len(),
		ValueByDemographicsQuestion: ValueByDemographicsQuestion(ds),
		GenderCounts:                GenderCounts(ds),
		Words:                       WordFrequencies(QuestionText(ds), wordTop),
		MeanByQuestion:              MeanByQuestion(ds),
		MeanByYear:                  MeanByYear(ds),
		DemographicsHierarchy:       hier,
		Sunburst:                    HierarchyTree(hier),
		DemographicsQuestionMatrix:  DemographicsQuestionMatrix(ds),
		ValueByCountry:              ValueByCountry(ds),
		MeanByDemographicsAndGender: MeanByDemographicsAndGender(ds),
		CountByDemographics:         CountByDemographics(ds),
	}
}
