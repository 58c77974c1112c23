// Package filter derives the active subset of the cleaned survey dataset from
// the sidebar selections.
package filter

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRange is returned when YearMin is greater than YearMax.
var ErrInvalidRange = errors.New("invalid year range")

// Params is one set of sidebar selections. A row passes only if every
// predicate holds; an empty selection list matches nothing.
type Params struct {
	YearMin               int      `json:"year_min" yaml:"year_min"`
	YearMax               int      `json:"year_max" yaml:"year_max"`
	Countries             []string `json:"countries" yaml:"countries"`
	Genders               []string `json:"genders" yaml:"genders"`
	DemographicsQuestions []string `json:"demographics_questions" yaml:"demographics_questions"`
}

// Validate checks the year bounds.
func (p Params) Validate() error {
	if p.YearMin > p.YearMax {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, p.YearMin, p.YearMax)
	}
	return nil
}

type set map[string]struct{}

func toSet(vals []string) set {
	s := make(set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

// Apply returns the records of cleaned matching p. cleaned is not modified.
func Apply(cleaned *dataset.Dataset, p Params) *dataset.Dataset {
	countries := toSet(p.Countries)
	genders := toSet(p.Genders)
	demo := toSet(p.DemographicsQuestions)

	out := make([]dataset.Record, 0)
	if cleaned == nil {
		return cleaned.Derive(out)
	}
	for _, r := range cleaned.Records {
		y := r.Year()
		if y < p.YearMin || y > p.YearMax {
			continue
		}
		if !countries.has(r.Country) || !genders.has(r.Gender) || !demo.has(r.DemographicsQuestion) {
			continue
		}
		out = append(out, r)
	}
	return cleaned.Derive(out)
}

// Options lists the selectable values offered for a cleaned dataset.
type Options struct {
	YearMin               int      `json:"year_min"`
	YearMax               int      `json:"year_max"`
	Countries             []string `json:"countries"`
	Genders               []string `json:"genders"`
	DemographicsQuestions []string `json:"demographics_questions"`
}

// OptionsFor collects the sorted distinct non-empty categories and the year
// bounds of cleaned. An empty dataset yields empty lists and a zero range.
func OptionsFor(cleaned *dataset.Dataset) Options {
	opt := Options{Countries: []string{}, Genders: []string{}, DemographicsQuestions: []string{}}
	if cleaned.Len() == 0 {
		return opt
	}
	countries, genders, demo := set{}, set{}, set{}
	opt.YearMin = cleaned.Records[0].Year()
	opt.YearMax = opt.YearMin
	for _, r := range cleaned.Records {
		if y := r.Year(); y < opt.YearMin {
			opt.YearMin = y
		} else if y > opt.YearMax {
			opt.YearMax = y
		}
		if r.Country != "" {
			countries[r.Country] = struct{}{}
		}
		if r.Gender != "" {
			genders[r.Gender] = struct{}{}
		}
		if r.DemographicsQuestion != "" {
			demo[r.DemographicsQuestion] = struct{}{}
		}
	}
	opt.Countries = sortedKeys(countries)
	opt.Genders = sortedKeys(genders)
	opt.DemographicsQuestions = sortedKeys(demo)
	return opt
}

func sortedKeys(s set) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Defaults returns the initial sidebar state: the full year range, the first
// countryCount countries and every gender and demographics question.
func Defaults(opt Options, countryCount int) Params {
	if countryCount < 0 || countryCount > len(opt.Countries) {
		countryCount = len(opt.Countries)
	}
	return Params{
		YearMin:               opt.YearMin,
		YearMax:               opt.YearMax,
		Countries:             append([]string{}, opt.Countries[:countryCount]...),
		Genders:               append([]string{}, opt.Genders...),
		DemographicsQuestions: append([]string{}, opt.DemographicsQuestions...),
	}
}

// All returns params selecting every listed option. Rows with an empty
// country, gender or demographics question are still excluded.
func All(opt Options) Params {
	return Defaults(opt, -1)
}

// LoadParams reads selections from a YAML file. Lists left out of the file
// are empty and therefore match nothing.
func LoadParams(path string) (Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params: %w", err)
	}
	var p Params
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
