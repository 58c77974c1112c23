package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// missingTokens mirrors the NA markers pandas recognises by default.
var missingTokens = map[string]struct{}{
	"":         {},
	"na":       {},
	"n/a":      {},
	"nan":      {},
	"-nan":     {},
	"null":     {},
	"none":     {},
	"#n/a":     {},
	"<na>":     {},
	"#n/a n/a": {},
	"1.#ind":   {},
	"-1.#ind":  {},
	"1.#qnan":  {},
	"-1.#qnan": {},
}

// Load reads a comma-separated survey file with a header row. Any failure is
// reported as an *UnavailableError.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, "open csv", err)
	}
	defer f.Close()
	ds, err := Read(f, filepath.Base(path))
	if err != nil {
		var ue *UnavailableError
		if errors.As(err, &ue) && ue.Path == "" {
			ue.Path = path
		}
		return nil, err
	}
	return ds, nil
}

// Read parses survey CSV content from r. name labels the resulting dataset.
func Read(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unavailable("", "empty file: no header row", nil)
		}
		return nil, unavailable("", "read header", err)
	}
	header = append([]string(nil), header...)
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Name: name, Header: header, Records: []Record{}}
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, unavailable("", fmt.Sprintf("read row %d", line+1), err)
		}
		line++
		if len(rec) > len(header) {
			return nil, unavailable("", fmt.Sprintf("row %d: expected %d fields, saw %d", line, len(header), len(rec)), nil)
		}
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		ds.Records = append(ds.Records, recordFrom(rec, idx))
	}
	return ds, nil
}

type columnIndex struct {
	country, gender, year, demoQ, demoR, question, value int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	var missing []string
	lookup := func(name string) int {
		i, ok := pos[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		country:  lookup(ColCountry),
		gender:   lookup(ColGender),
		year:     lookup(ColSurveyYear),
		demoQ:    lookup(ColDemographicsQuestion),
		demoR:    lookup(ColDemographicsResponse),
		question: lookup(ColQuestion),
		value:    lookup(ColValue),
	}
	if len(missing) > 0 {
		return idx, unavailable("", "missing required columns: "+strings.Join(missing, ", "), nil)
	}
	return idx, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func recordFrom(rec []string, idx columnIndex) Record {
	r := Record{
		Country:              category(rec[idx.country]),
		Gender:               category(rec[idx.gender]),
		SurveyYear:           category(rec[idx.year]),
		DemographicsQuestion: category(rec[idx.demoQ]),
		DemographicsResponse: category(rec[idx.demoR]),
		Question:             category(rec[idx.question]),
	}
	r.Value, r.HasValue = parseValue(rec[idx.value])
	return r
}

func isMissing(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func category(s string) string {
	if isMissing(s) {
		return ""
	}
	return s
}

// parseValue treats NA markers and non-numeric text as missing.
func parseValue(s string) (float64, bool) {
	if isMissing(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
