package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// CleanReport summarises what Clean changed.
type CleanReport struct {
	RawRows   int `json:"raw_rows"`
	CleanRows int `json:"clean_rows"`
	// Imputed counts rows whose missing Value was replaced by Median.
	Imputed       int     `json:"imputed"`
	Median        float64 `json:"median"`
	MedianDefined bool    `json:"median_defined"`
	// InvalidDates counts rows dropped because Survey Year did not parse.
	InvalidDates int `json:"invalid_dates"`
	// MissingValues counts rows dropped because Value stayed missing.
	MissingValues int      `json:"missing_values"`
	Notes         []string `json:"notes,omitempty"`
}

// Dropped returns how many raw rows did not survive cleaning.
func (r CleanReport) Dropped() int { return r.RawRows - r.CleanRows }

// Clean fills missing values with the median of the present ones, parses the
// survey dates and drops rows that still lack a value or a valid date.
// raw is left untouched.
func Clean(raw *Dataset) (*Dataset, CleanReport) {
	rep := CleanReport{RawRows: raw.Len()}
	if raw.Len() == 0 {
		return raw.Derive(nil), rep
	}

	present := make([]float64, 0, raw.Len())
	for _, r := range raw.Records {
		if r.HasValue {
			present = append(present, r.Value)
		}
	}
	if len(present) > 0 {
		rep.Median = Median(present)
		rep.MedianDefined = true
	} else {
		rep.Notes = append(rep.Notes, "UndefinedAggregate: Value column has no numeric entries; median imputation skipped")
	}

	out := make([]Record, 0, raw.Len())
	for _, r := range raw.Records {
		if !r.HasValue && rep.MedianDefined {
			r.Value = rep.Median
			r.HasValue = true
			rep.Imputed++
		}
		d, ok := ParseSurveyDate(r.SurveyYear)
		if !ok {
			rep.InvalidDates++
			continue
		}
		r.Date = d
		if !r.HasValue {
			rep.MissingValues++
			continue
		}
		out = append(out, r)
	}
	rep.CleanRows = len(out)

	if rep.Imputed > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("filled %d missing Value entries with median %.4g", rep.Imputed, rep.Median))
	}
	if rep.InvalidDates > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("dropped %d rows with unparseable Survey Year", rep.InvalidDates))
	}
	if rep.MissingValues > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("dropped %d rows still missing Value", rep.MissingValues))
	}
	return raw.Derive(out), rep
}

// surveyDateLayouts are tried in order. Single-digit layout fields also
// accept zero-padded input, and fractional seconds are accepted after any
// seconds field.
var surveyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01",
	"2006",
}

// ParseSurveyDate parses a Survey Year cell. Slash dates are month first.
func ParseSurveyDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range surveyDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Median returns the middle value of vals, interpolating between the two
// middle values for even counts. It returns NaN for an empty slice.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return Quantile(cp, 0.5)
}

// Quantile returns the q-th quantile of an ascending slice using linear
// interpolation.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
