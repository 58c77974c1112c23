package dataset

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source owns the survey file for the lifetime of a run. The file is read at
// most once; later calls return the same snapshot (or the same error).
type Source struct {
	path   string
	logger *zap.Logger

	rawOnce sync.Once
	raw     *Dataset
	rawErr  error

	cleanOnce sync.Once
	cleaned   *Dataset
	report    CleanReport
}

// NewSource prepares a Source for path. Nothing is read until Raw or Cleaned
// is called.
func NewSource(path string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{path: path, logger: logger.Named("loader")}
}

// Path returns the file path this Source reads.
func (s *Source) Path() string { return s.path }

// Raw returns the dataset as loaded from disk.
func (s *Source) Raw() (*Dataset, error) {
	s.rawOnce.Do(func() {
		start := time.Now()
		s.raw, s.rawErr = Load(s.path)
		if s.rawErr != nil {
			s.logger.Error("load failed", zap.String("path", s.path), zap.Error(s.rawErr))
			return
		}
		s.logger.Info("dataset loaded",
			zap.String("path", s.path),
			zap.Int("rows", s.raw.Len()),
			zap.Duration("took", time.Since(start)))
	})
	return s.raw, s.rawErr
}

// Cleaned returns Clean(Raw()) together with its report, computed once.
func (s *Source) Cleaned() (*Dataset, CleanReport, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, CleanReport{}, err
	}
	s.cleanOnce.Do(func() {
		s.cleaned, s.report = Clean(raw)
		s.logger.Info("dataset cleaned",
			zap.Int("raw_rows", s.report.RawRows),
			zap.Int("clean_rows", s.report.CleanRows),
			zap.Int("imputed", s.report.Imputed),
			zap.Int("invalid_dates", s.report.InvalidDates))
		if !s.report.MedianDefined && s.report.RawRows > 0 {
			s.logger.Warn("median undefined; no values imputed")
		}
	})
	return s.cleaned, s.report, nil
}
