// Package aggregate turns a survey dataset snapshot into the tables behind the
// dashboard charts. Every function is pure: the dataset is never modified and
// an empty dataset yields empty results.
package aggregate

import (
	"sort"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
)

// Summary holds the five-number summary and mean of a group of values.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Distribution is the value spread of one group, as drawn by a box or violin.
type Distribution struct {
	Key     string    `json:"key"`
	Values  []float64 `json:"values"`
	Summary Summary   `json:"summary"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type GroupMean struct {
	Key   string  `json:"key"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type YearMean struct {
	Year  int     `json:"year"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// PairMean is the mean Value for one (Parent, Child) key pair.
type PairMean struct {
	Parent string  `json:"parent"`
	Child  string  `json:"child"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

type PairCount struct {
	Parent string `json:"parent"`
	Child  string `json:"child"`
	Count  int    `json:"count"`
}

// summarize computes the summary of vals. vals is sorted in place.
func summarize(vals []float64) Summary {
	sort.Float64s(vals)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return Summary{
		Count:  len(vals),
		Min:    vals[0],
		Q1:     dataset.Quantile(vals, 0.25),
		Median: dataset.Quantile(vals, 0.5),
		Q3:     dataset.Quantile(vals, 0.75),
		Max:    vals[len(vals)-1],
		Mean:   sum / float64(len(vals)),
	}
}

// distributions groups Value by key. Rows with an empty key are skipped and
// groups come back sorted by key.
func distributions(ds *dataset.Dataset, key func(dataset.Record) string) []Distribution {
	groups := map[string][]float64{}
	if ds != nil {
		for _, r := range ds.Records {
			k := key(r)
			if k == "" {
				continue
			}
			groups[k] = append(groups[k], r.Value)
		}
	}
	out := make([]Distribution, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		vals := groups[k]
		s := summarize(vals)
		out = append(out, Distribution{Key: k, Values: vals, Summary: s})
	}
	return out
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) { a.sum += v; a.n++ }

func (a meanAcc) mean() float64 { return a.sum / float64(a.n) }

type pairKey struct{ parent, child string }

func pairMeans(ds *dataset.Dataset, parent, child func(dataset.Record) string) []PairMean {
	acc := map[pairKey]*meanAcc{}
	if ds != nil {
		for _, r := range ds.Records {
			k := pairKey{parent(r), child(r)}
			if k.parent == "" || k.child == "" {
				continue
			}
			a, ok := acc[k]
			if !ok {
				a = &meanAcc{}
				acc[k] = a
			}
			a.add(r.Value)
		}
	}
	out := make([]PairMean, 0, len(acc))
	for _, k := range sortedPairs(acc) {
		a := acc[k]
		out = append(out, PairMean{Parent: k.parent, Child: k.child, Mean: a.mean(), Count: a.n})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPairs[V any](m map[pairKey]V) []pairKey {
	keys := make([]pairKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].parent != keys[j].parent {
			return keys[i].parent < keys[j].parent
		}
		return keys[i].child < keys[j].child
	})
	return keys
}

func demographicsQuestion(r dataset.Record) string { return r.DemographicsQuestion }
func demographicsResponse(r dataset.Record) string { return r.DemographicsResponse }
func question(r dataset.Record) string             { return r.Question }
func country(r dataset.Record) string              { return r.Country }
func gender(r dataset.Record) string               { return r.Gender }
