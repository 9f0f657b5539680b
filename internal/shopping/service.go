package shopping

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/cesta/internal/grocery"
	"github.com/dukerupert/cesta/internal/store"
)

// Recorder counts operation outcomes. The metrics package provides one.
type Recorder interface {
	RecordOperation(op, outcome string)
}

// Service owns the catalog, the price ledger, the lists and the receipt
// tickets, and exposes every change to them as a named operation.
//
// All operations run under one mutex, so each one observes and leaves a
// consistent state. Values returned are copies.
type Service struct {
	mu sync.Mutex

	catalog *store.CatalogStore
	prices  *store.PriceStore
	lists   *store.ListStore
	tickets *store.TicketStore

	matcher  grocery.Matcher
	now      func() time.Time
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Service)

// WithClock replaces time.Now, used for pick stamps and default price dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMatcher replaces the name matching strategy used to resolve product
// and store names in commands.
func WithMatcher(m grocery.Matcher) Option {
	return func(s *Service) { s.matcher = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// New returns a Service whose catalog holds the default categories.
func New(opts ...Option) *Service {
	s := &Service{
		catalog: store.NewCatalogStore(),
		prices:  store.NewPriceStore(),
		lists:   store.NewListStore(),
		tickets: store.NewTicketStore(),
		matcher: grocery.SubstringMatcher{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, name := range grocery.DefaultCategories {
		s.catalog.CreateCategory(name)
	}
	return s
}

// record reports the outcome of op and passes err through.
func (s *Service) record(op string, err error) error {
	if s.recorder != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
		}
		s.recorder.RecordOperation(op, outcome)
	}
	if err != nil {
		s.logger.Debug("operation rejected", "op", op, "error", err)
	} else {
		s.logger.Debug("operation applied", "op", op)
	}
	return err
}

// today is the current date at midnight UTC.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
