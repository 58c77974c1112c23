package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSurvey(t *testing.T) string {
	t.Helper()
	lines := []string{
		"RecordID,Country,Gender,Demographics Question,Demographics Response,Question,Survey Year,Value",
		"1,Afghanistan,F,Age,15-24,... if she burns the food,01/01/2015,10",
		"2,Afghanistan,M,Age,15-24,... if she burns the food,01/01/2015,20",
		"3,Benin,F,Education,Higher,... if she argues with him,01/01/2012,",
		"4,Chad,M,Education,None,... if she argues with him,01/01/2018,40",
	}
	p := filepath.Join(t.TempDir(), "women_violence.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestNew_StartsWithCleanedDataset(t *testing.T) {
	s, err := New(dataset.NewSource(writeSurvey(t), nil), DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Applied())
	assert.Same(t, s.Cleaned(), s.Active())
	assert.Equal(t, 4, s.Active().Len())
	assert.Equal(t, 1, s.CleanReport().Imputed)
	assert.Equal(t, []string{"Afghanistan", "Benin", "Chad"}, s.Params().Countries)
	assert.Equal(t, 2012, s.Options().YearMin)
	assert.Equal(t, 4, s.Dashboard().Records)
}

func TestNew_PropagatesUnavailable(t *testing.T) {
	_, err := New(dataset.NewSource(filepath.Join(t.TempDir(), "nope.csv"), nil), DefaultOptions())
	require.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestApply_ReplacesActiveSnapshot(t *testing.T) {
	s, err := New(dataset.NewSource(writeSurvey(t), nil), DefaultOptions())
	require.NoError(t, err)

	p := filter.All(s.Options())
	p.Countries = []string{"Afghanistan"}
	res, err := s.Apply(p)
	require.NoError(t, err)
	assert.Equal(t, Result{Records: 2, Empty: false}, res)
	assert.True(t, s.Applied())
	assert.Equal(t, 2, s.Active().Len())
	assert.Equal(t, p, s.Params())
	assert.Equal(t, 4, s.Cleaned().Len(), "cleaned dataset is never filtered in place")

	d := s.Dashboard()
	assert.Equal(t, 2, d.Records)
	require.Len(t, d.GenderCounts, 2)

	p.Countries = nil
	res, err = s.Apply(p)
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Equal(t, 0, s.Active().Len())
	assert.True(t, s.Dashboard().Empty())
}

func TestApply_InvalidRangeKeepsState(t *testing.T) {
	s, err := New(dataset.NewSource(writeSurvey(t), nil), DefaultOptions())
	require.NoError(t, err)
	before := s.Active()

	_, err = s.Apply(filter.Params{YearMin: 2020, YearMax: 2010})
	require.ErrorIs(t, err, filter.ErrInvalidRange)
	assert.Same(t, before, s.Active())
	assert.False(t, s.Applied())
}

func TestResultMessage(t *testing.T) {
	assert.Equal(t, "Filters applied! Showing 0 records.", Result{}.Message())
	assert.Equal(t, "Filters applied! Showing 1,234,567 records.", Result{Records: 1234567}.Message())
}
