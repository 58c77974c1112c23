// Package session holds the per-user dashboard state: the cleaned dataset,
// the last applied filter parameters and the active filtered snapshot.
package session

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/womenmatters/internal/aggregate"
	"github.com/KaramelBytes/womenmatters/internal/dataset"
	"github.com/KaramelBytes/womenmatters/internal/filter"
	"github.com/KaramelBytes/womenmatters/internal/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Session.
type Options struct {
	// DefaultCountryCount is how many countries the initial params select.
	DefaultCountryCount int
	// WordCloudTop bounds the dashboard word list; 0 keeps every word.
	WordCloudTop int
	Logger       *zap.Logger
}

// DefaultOptions mirrors the dashboard's initial sidebar.
func DefaultOptions() Options {
	return Options{DefaultCountryCount: 5, WordCloudTop: aggregate.DefaultWordCloudTop}
}

// Result describes the outcome of Apply.
type Result struct {
	Records int  `json:"records"`
	Empty   bool `json:"empty"`
}

// Message is the confirmation shown after an apply.
func (r Result) Message() string {
	return fmt.Sprintf("Filters applied! Showing %s records.", utils.GroupThousands(r.Records))
}

// Session is the state of one dashboard viewer. It is not safe for
// concurrent use.
type Session struct {
	ID string

	opts    Options
	logger  *zap.Logger
	cleaned *dataset.Dataset
	report  dataset.CleanReport
	options filter.Options

	params  filter.Params
	applied bool
	active  *dataset.Dataset
}

// New loads and cleans the dataset through src and starts a Session showing
// the whole cleaned dataset. Load failures are returned unchanged.
func New(src *dataset.Source, opts Options) (*Session, error) {
	cleaned, rep, err := src.Cleaned()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ID:      uuid.NewString(),
		opts:    opts,
		cleaned: cleaned,
		report:  rep,
		options: filter.OptionsFor(cleaned),
		active:  cleaned,
	}
	s.logger = logger.Named("session").With(zap.String("session", s.ID))
	s.params = filter.Defaults(s.options, opts.DefaultCountryCount)
	s.logger.Debug("session started", zap.Int("records", cleaned.Len()))
	return s, nil
}

// Apply filters the cleaned dataset with p and makes the result the active
// snapshot. Invalid params leave the session unchanged.
func (s *Session) Apply(p filter.Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	s.active = filter.Apply(s.cleaned, p)
	s.params = p
	s.applied = true
	res := Result{Records: s.active.Len(), Empty: s.active.Len() == 0}
	s.logger.Info("filters applied",
		zap.Int("records", res.Records),
		zap.Bool("empty", res.Empty),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// Active returns the snapshot every chart reads from.
func (s *Session) Active() *dataset.Dataset { return s.active }

// Cleaned returns the full cleaned dataset every apply filters from.
func (s *Session) Cleaned() *dataset.Dataset { return s.cleaned }

// CleanReport describes what cleaning changed in the raw file.
func (s *Session) CleanReport() dataset.CleanReport { return s.report }

// Options returns the selectable filter values.
func (s *Session) Options() filter.Options { return s.options }

// Params returns the last applied params, or the sidebar defaults before the
// first apply.
func (s *Session) Params() filter.Params { return s.params }

// Applied reports whether Apply has succeeded at least once.
func (s *Session) Applied() bool { return s.applied }

// Dashboard aggregates the active snapshot.
func (s *Session) Dashboard() aggregate.Dashboard {
	return aggregate.BuildTop(s.active, s.opts.WordCloudTop)
}
