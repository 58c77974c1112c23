package aggregate

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
)

// ValueByDemographicsQuestion returns the Value distribution per demographics
// question.
func ValueByDemographicsQuestion(ds *dataset.Dataset) []Distribution {
	return distributions(ds, demographicsQuestion)
}

// ValueByCountry returns the Value distribution per country.
func ValueByCountry(ds *dataset.Dataset) []Distribution {
	return distributions(ds, country)
}

// GenderCounts counts rows per gender, ordered by gender. Rows without a
// gender are not counted.
func GenderCounts(ds *dataset.Dataset) []CategoryCount {
	counts := map[string]int{}
	if ds != nil {
		for _, r := range ds.Records {
			if r.Gender != "" {
				counts[r.Gender]++
			}
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for _, g := range sortedKeys(counts) {
		out = append(out, CategoryCount{Value: g, Count: counts[g]})
	}
	return out
}

// QuestionText joins every non-empty question with a single space.
func QuestionText(ds *dataset.Dataset) string {
	if ds == nil {
		return ""
	}
	var b strings.Builder
	for _, r := range ds.Records {
		if r.Question == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.Question)
	}
	return b.String()
}

// MeanByQuestion returns the mean Value per question.
func MeanByQuestion(ds *dataset.Dataset) []GroupMean {
	acc := map[string]*meanAcc{}
	if ds != nil {
		for _, r := range ds.Records {
			if r.Question == "" {
				continue
			}
			a, ok := acc[r.Question]
			if !ok {
				a = &meanAcc{}
				acc[r.Question] = a
			}
			a.add(r.Value)
		}
	}
	out := make([]GroupMean, 0, len(acc))
	for _, q := range sortedKeys(acc) {
		out = append(out, GroupMean{Key: q, Mean: acc[q].mean(), Count: acc[q].n})
	}
	return out
}

// MeanByYear returns the mean Value per survey year, oldest first.
func MeanByYear(ds *dataset.Dataset) []YearMean {
	acc := map[int]*meanAcc{}
	if ds != nil {
		for _, r := range ds.Records {
			y := r.Year()
			a, ok := acc[y]
			if !ok {
				a = &meanAcc{}
				acc[y] = a
			}
			a.add(r.Value)
		}
	}
	years := make([]int, 0, len(acc))
	for y := range acc {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]YearMean, 0, len(years))
	for _, y := range years {
		out = append(out, YearMean{Year: y, Mean: acc[y].mean(), Count: acc[y].n})
	}
	return out
}

// DemographicsHierarchy returns the mean Value per demographics question and
// response.
func DemographicsHierarchy(ds *dataset.Dataset) []PairMean {
	return pairMeans(ds, demographicsQuestion, demographicsResponse)
}

// MeanByDemographicsAndGender returns the mean Value per demographics question
// and gender.
func MeanByDemographicsAndGender(ds *dataset.Dataset) []PairMean {
	return pairMeans(ds, demographicsQuestion, gender)
}

// CountByDemographics counts rows per demographics question and response.
func CountByDemographics(ds *dataset.Dataset) []PairCount {
	counts := map[pairKey]int{}
	if ds != nil {
		for _, r := range ds.Records {
			k := pairKey{r.DemographicsQuestion, r.DemographicsResponse}
			if k.parent == "" || k.child == "" {
				continue
			}
			counts[k]++
		}
	}
	out := make([]PairCount, 0, len(counts))
	for _, k := range sortedPairs(counts) {
		out = append(out, PairCount{Parent: k.parent, Child: k.child, Count: counts[k]})
	}
	return out
}
