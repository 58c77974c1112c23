package aggregate

import (
	"testing"
	"time"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(country, gender, demoQ, demoR, q string, year int, v float64) dataset.Record {
	return dataset.Record{
		Country:              country,
		Gender:               gender,
		DemographicsQuestion: demoQ,
		DemographicsResponse: demoR,
		Question:             q,
		Date:                 time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		Value:                v,
		HasValue:             true,
	}
}

func fixture() *dataset.Dataset {
	return &dataset.Dataset{Name: "fixture", Records: []dataset.Record{
		row("Benin", "F", "Age", "15-24", "... if she burns the food", 2015, 10),
		row("Benin", "M", "Age", "25-34", "... if she burns the food", 2015, 20),
		row("Chad", "F", "Education", "Higher", "... if she argues with him", 2012, 30),
		row("Chad", "F", "Education", "Higher", "... if she burns the food", 2018, 40),
		row("Angola", "M", "Age", "15-24", "... if she argues with him", 2012, 50),
	}}
}

func TestValueByDemographicsQuestion(t *testing.T) {
	got := ValueByDemographicsQuestion(fixture())
	require.Len(t, got, 2)
	assert.Equal(t, "Age", got[0].Key)
	assert.Equal(t, []float64{10, 20, 50}, got[0].Values)
	want := Summary{Count: 3, Min: 10, Q1: 15, Median: 20, Q3: 35, Max: 50, Mean: 80.0 / 3}
	if diff := cmp.Diff(want, got[0].Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Education", got[1].Key)
	assert.Equal(t, 35.0, got[1].Summary.Mean)
}

func TestValueByCountry_SkipsEmptyKeys(t *testing.T) {
	ds := fixture()
	ds.Records = append(ds.Records, row("", "F", "Age", "15-24", "q", 2015, 99))
	got := ValueByCountry(ds)
	keys := make([]string, 0, len(got))
	for _, d := range got {
		keys = append(keys, d.Key)
	}
	assert.Equal(t, []string{"Angola", "Benin", "Chad"}, keys)
}

func TestGenderCounts_SumEqualsRecords(t *testing.T) {
	ds := fixture()
	got := GenderCounts(ds)
	assert.Equal(t, []CategoryCount{{Value: "F", Count: 3}, {Value: "M", Count: 2}}, got)
	total := 0
	for _, c := range got {
		total += c.Count
	}
	assert.Equal(t, ds.Len(), total)
}

func TestMeanByYear_AscendingUnique(t *testing.T) {
	got := MeanByYear(fixture())
	want := []YearMean{
		{Year: 2012, Mean: 40, Count: 2},
		{Year: 2015, Mean: 15, Count: 2},
		{Year: 2018, Mean: 40, Count: 1},
	}
	assert.Equal(t, want, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Year, got[i].Year)
	}
}

func TestMeanByQuestion(t *testing.T) {
	got := MeanByQuestion(fixture())
	assert.Equal(t, []GroupMean{
		{Key: "... if she argues with him", Mean: 40, Count: 2},
		{Key: "... if she burns the food", Mean: 70.0 / 3, Count: 3},
	}, got)
}

func TestDemographicsHierarchyAndTree(t *testing.T) {
	pairs := DemographicsHierarchy(fixture())
	assert.Equal(t, []PairMean{
		{Parent: "Age", Child: "15-24", Mean: 30, Count: 2},
		{Parent: "Age", Child: "25-34", Mean: 20, Count: 1},
		{Parent: "Education", Child: "Higher", Mean: 35, Count: 2},
	}, pairs)

	tree := HierarchyTree(pairs)
	want := []Node{
		{ID: "Age", Label: "Age", Value: 50},
		{ID: "Age/15-24", Label: "15-24", Parent: "Age", Value: 30},
		{ID: "Age/25-34", Label: "25-34", Parent: "Age", Value: 20},
		{ID: "Education", Label: "Education", Value: 35},
		{ID: "Education/Higher", Label: "Higher", Parent: "Education", Value: 35},
	}
	if diff := cmp.Diff(want, tree.Nodes); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDemographicsQuestionMatrix_MissingCellsNil(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		row("A", "F", "Age", "15-24", "q1", 2015, 10),
		row("A", "F", "Age", "15-24", "q1", 2015, 20),
		row("A", "F", "Education", "None", "q2", 2015, 5),
	}}
	m := DemographicsQuestionMatrix(ds)
	assert.Equal(t, []string{"Age", "Education"}, m.Rows)
	assert.Equal(t, []string{"q1", "q2"}, m.Cols)
	require.NotNil(t, m.At("Age", "q1"))
	assert.Equal(t, 15.0, *m.At("Age", "q1"))
	assert.Nil(t, m.At("Age", "q2"))
	assert.Nil(t, m.At("Education", "q1"))
	assert.Equal(t, 5.0, *m.At("Education", "q2"))
	assert.Nil(t, m.At("Region", "q1"))
}

func TestMeanByDemographicsAndGender(t *testing.T) {
	got := MeanByDemographicsAndGender(fixture())
	assert.Equal(t, []PairMean{
		{Parent: "Age", Child: "F", Mean: 10, Count: 1},
		{Parent: "Age", Child: "M", Mean: 35, Count: 2},
		{Parent: "Education", Child: "F", Mean: 35, Count: 2},
	}, got)
}

func TestCountByDemographics(t *testing.T) {
	got := CountByDemographics(fixture())
	assert.Equal(t, []PairCount{
		{Parent: "Age", Child: "15-24", Count: 2},
		{Parent: "Age", Child: "25-34", Count: 1},
		{Parent: "Education", Child: "Higher", Count: 2},
	}, got)
}

func TestQuestionTextAndWords(t *testing.T) {
	text := QuestionText(fixture())
	assert.Equal(t, "... if she burns the food ... if she burns the food ... if she argues with him ... if she burns the food ... if she argues with him", text)

	words := WordFrequencies(text, 0)
	assert.Equal(t, []WordCount{
		{Word: "burns", Count: 3},
		{Word: "food", Count: 3},
		{Word: "argues", Count: 2},
	}, words)

	assert.Len(t, WordFrequencies(text, 1), 1)
}

func TestWordFrequencies_FoldsCaseAndDropsNumbers(t *testing.T) {
	got := WordFrequencies("Husband's HUSBAND husband 2015 wife’s Wife", 0)
	assert.Equal(t, []WordCount{
		{Word: "husband", Count: 3},
		{Word: "wife", Count: 2},
	}, got)
}

func TestWordFrequencies_StripsPossessiveBeforeStopWords(t *testing.T) {
	got := WordFrequencies("Let's she's He's partner's 2015's", 0)
	assert.Equal(t, []WordCount{
		{Word: "let", Count: 1},
		{Word: "partner", Count: 1},
	}, got)
}

func TestEmptyDatasetYieldsEmptyResults(t *testing.T) {
	for name, ds := range map[string]*dataset.Dataset{"empty": {}, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			d := Build(ds)
			assert.True(t, d.Empty())
			assert.Empty(t, d.ValueByDemographicsQuestion)
			assert.Empty(t, d.GenderCounts)
			assert.Empty(t, d.Words)
			assert.Empty(t, d.MeanByQuestion)
			assert.Empty(t, d.MeanByYear)
			assert.Empty(t, d.DemographicsHierarchy)
			assert.Empty(t, d.Sunburst.Nodes)
			assert.Empty(t, d.DemographicsQuestionMatrix.Rows)
			assert.Empty(t, d.DemographicsQuestionMatrix.Cells)
			assert.Empty(t, d.ValueByCountry)
			assert.Empty(t, d.MeanByDemographicsAndGender)
			assert.Empty(t, d.CountByDemographics)
			assert.Equal(t, "", QuestionText(ds))
		})
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	ds := fixture()
	before := append([]dataset.Record(nil), ds.Records...)
	d := Build(ds)
	assert.Equal(t, 5, d.Records)
	if diff := cmp.Diff(before, ds.Records); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}
