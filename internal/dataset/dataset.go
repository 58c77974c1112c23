// Package dataset loads the survey CSV and derives the cleaned snapshot that
// every filter and aggregation works from.
package dataset

import "time"

// Column names required in the CSV header.
const (
	ColCountry              = "Country"
	ColGender               = "Gender"
	ColSurveyYear           = "Survey Year"
	ColDemographicsQuestion = "Demographics Question"
	ColDemographicsResponse = "Demographics Response"
	ColQuestion             = "Question"
	ColValue                = "Value"
)

// RequiredColumns lists the header fields a survey file must provide.
var RequiredColumns = []string{
	ColCountry,
	ColGender,
	ColSurveyYear,
	ColDemographicsQuestion,
	ColDemographicsResponse,
	ColQuestion,
	ColValue,
}

// Record is one survey-response row. Missing categorical cells are empty strings.
type Record struct {
	Country    string `json:"country"`
	Gender     string `json:"gender"`
	SurveyYear string `json:"survey_year"`
	// Date is the parsed SurveyYear; zero on raw records.
	Date                 time.Time `json:"date"`
	DemographicsQuestion string    `json:"demographics_question"`
	DemographicsResponse string    `json:"demographics_response"`
	Question             string    `json:"question"`
	Value                float64   `json:"value"`
	HasValue             bool      `json:"has_value"`
}

// Year returns the calendar year of the parsed survey date.
func (r Record) Year() int { return r.Date.Year() }

// Dataset is an ordered, uniform collection of records. Datasets are treated
// as immutable snapshots: every pipeline stage returns a new one.
type Dataset struct {
	Name    string
	Header  []string
	Records []Record
}

// Len returns the number of records; a nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Head returns up to n leading records.
func (d *Dataset) Head(n int) []Record {
	if d == nil || n <= 0 {
		return nil
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	out := make([]Record, n)
	copy(out, d.Records[:n])
	return out
}

// Derive returns a new dataset sharing this dataset's name and header but
// holding recs.
func (d *Dataset) Derive(recs []Record) *Dataset {
	out := &Dataset{Records: recs}
	if d != nil {
		out.Name = d.Name
		out.Header = append([]string(nil), d.Header...)
	}
	if out.Records == nil {
		out.Records = []Record{}
	}
	return out
}
