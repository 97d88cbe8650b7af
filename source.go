package citydistance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrNoUsableCandidate is returned when sampling could not find a record
	// with a name and coordinates within the attempt bound.
	ErrNoUsableCandidate = errors.New("no usable candidate city")
	// ErrUnusablePlace is returned when a specific record lacks a name or
	// coordinates.
	ErrUnusablePlace = errors.New("place has no name or coordinates")
)

// DefaultMaxAttempts bounds the records sampled per Next call.
const DefaultMaxAttempts = 10

// DefaultResolveTimeout bounds a single country lookup.
const DefaultResolveTimeout = 10 * time.Second

// maxFindQueryLen limits Find input so the edit-distance scan stays cheap.
const maxFindQueryLen = 256

// CitySource yields the next city to guess.
type CitySource interface {
	Next(ctx context.Context) (Candidate, error)
}

// Source samples candidates uniformly, with replacement, from a dataset.
// It is not safe for concurrent use.
type Source struct {
	places         []PlaceRecord
	rng            *rand.Rand
	maxAttempts    int
	resolver       CountryResolver
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithMaxAttempts sets how many records Next samples before giving up.
// Values below 1 are ignored.
func WithMaxAttempts(n int) SourceOption {
	return func(s *Source) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithSeed makes sampling deterministic.
func WithSeed(seed uint64) SourceOption {
	return func(s *Source) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithCountryResolver fills in missing countries using r, each lookup
// bounded by timeout. A failed lookup makes the sampled record count as
// unusable.
func WithCountryResolver(r CountryResolver, timeout time.Duration) SourceOption {
	return func(s *Source) {
		s.resolver = r
		if timeout > 0 {
			s.resolveTimeout = timeout
		}
	}
}

// WithSourceLogger sets the logger for skipped records.
func WithSourceLogger(l *slog.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSource creates a Source over places.
func NewSource(places []PlaceRecord, opts ...SourceOption) (*Source, error) {
	if len(places) == 0 {
		return nil, ErrEmptyDataset
	}
	s := &Source{
		places:         places,
		maxAttempts:    DefaultMaxAttempts,
		resolveTimeout: DefaultResolveTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s, nil
}

// Len returns the dataset size.
func (s *Source) Len() int { return len(s.places) }

// Next samples records until one is usable, up to the attempt bound.
func (s *Source) Next(ctx context.Context) (Candidate, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}
		idx := s.rng.IntN(len(s.places))
		c, err := s.Candidate(ctx, s.places[idx])
		if err != nil {
			s.logger.Debug("skipping place", "index", idx, "attempt", attempt, "error", err)
			continue
		}
		return c, nil
	}
	return Candidate{}, fmt.Errorf("%w after %d attempts", ErrNoUsableCandidate, s.maxAttempts)
}

// Candidate builds the candidate for a specific record, resolving a missing
// country when a resolver is configured.
func (s *Source) Candidate(ctx context.Context, p PlaceRecord) (Candidate, error) {
	if !p.Usable() {
		return Candidate{}, ErrUnusablePlace
	}
	if p.Country == "" && s.resolver != nil {
		rctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
		country, err := s.resolver.ResolveCountry(rctx, *p.Coordinates)
		cancel()
		if err != nil {
			return Candidate{}, fmt.Errorf("resolving country for %s: %w", p.Name, err)
		}
		p.Country = country
	}
	return Candidate{
		Label:       p.Label(),
		Coordinates: *p.Coordinates,
		Place:       p,
	}, nil
}

// Find returns the usable record best matching query. An exact,
// case-insensitive match on the name or the display label wins; otherwise the
// closest name within maxDist edits is returned.
func (s *Source) Find(query string, maxDist int) (PlaceRecord, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(query) > maxFindQueryLen {
		return PlaceRecord{}, false
	}
	lq := strings.ToLower(query)

	best, bestDist := -1, maxDist+1
	for i, p := range s.places {
		if !p.Usable() {
			continue
		}
		if strings.EqualFold(p.Name, query) || strings.EqualFold(p.Label(), query) {
			return p, true
		}
		if maxDist <= 0 {
			continue
		}
		d := levenshtein.ComputeDistance(lq, strings.ToLower(p.Name))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return PlaceRecord{}, false
	}
	return s.places[best], true
}

// PinnedSource yields a fixed candidate first and then defers to Source.
type PinnedSource struct {
	first  *Candidate
	source CitySource
}

// NewPinnedSource returns a source whose first Next returns first.
func NewPinnedSource(first Candidate, source CitySource) *PinnedSource {
	return &PinnedSource{first: &first, source: source}
}

// Next returns the pinned candidate once, then samples from the wrapped source.
func (p *PinnedSource) Next(ctx context.Context) (Candidate, error) {
	if p.first != nil {
		c := *p.first
		p.first = nil
		return c, nil
	}
	return p.source.Next(ctx)
}
