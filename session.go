package citydistance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidGuess is returned when the input is neither a 32-bit integer
	// nor the termination keyword. The same city stays current.
	ErrInvalidGuess = errors.New("guess is not a valid integer")
	// ErrDistanceFailure is returned when the distance provider fails. The
	// same city stays current.
	ErrDistanceFailure = errors.New("distance computation failed")
	// ErrSessionEnded is returned for any guess after the session ended.
	ErrSessionEnded = errors.New("session has ended")
	// ErrNoCurrentCity is returned when a guess arrives while no city is
	// current, after a failed advance. Call Advance to retry.
	ErrNoCurrentCity = errors.New("no current city")
	// ErrNoGuesses is returned when statistics are requested for an empty
	// history.
	ErrNoGuesses = errors.New("no guesses recorded")
)

// DefaultReference is the default reference point, in Copenhagen.
var DefaultReference = Coordinates{Latitude: 55.68004068027785, Longitude: 12.574885137312116}

// DefaultKeyword ends a session when submitted as a guess.
const DefaultKeyword = "break"

// State is the session state.
type State int

const (
	StateAwaitingGuess State = iota
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingGuess:
		return "awaiting-guess"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// GuessRecord is one scored guess. Records are immutable once appended.
type GuessRecord struct {
	Turn         int
	CityLabel    string
	City         Coordinates
	ActualKm     int
	GuessKm      int
	AbsErrorKm   int
	PercentError float64
}

// TurnResult reports the outcome of a Submit call.
type TurnResult struct {
	Ended       bool        // the termination keyword was entered
	Record      GuessRecord // the scored guess, unless Ended
	RunningMean float64     // mean percent error over all guesses so far
	Next        Candidate   // the new current city; zero if advancing failed
}

// SessionConfig holds the tunables of a Session.
type SessionConfig struct {
	Reference    Coordinates
	Keyword      string
	Logger       *slog.Logger
	MapCacheSize int
	MapWidth     int
	MapHeight    int
}

// Option configures a Session.
type Option func(*SessionConfig)

// WithReference sets the point distances are measured from.
func WithReference(c Coordinates) Option {
	return func(cfg *SessionConfig) {
		cfg.Reference = c
	}
}

// WithKeyword sets the termination keyword. Empty values are ignored.
func WithKeyword(k string) Option {
	return func(cfg *SessionConfig) {
		if k = strings.TrimSpace(k); k != "" {
			cfg.Keyword = k
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *SessionConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithMapCache sets the capacity of the rendered map cache.
func WithMapCache(size int) Option {
	return func(cfg *SessionConfig) {
		if size > 0 {
			cfg.MapCacheSize = size
		}
	}
}

// WithMapSize sets the width and height of rendered maps, in cells.
func WithMapSize(w, h int) Option {
	return func(cfg *SessionConfig) {
		if w > 0 && h > 0 {
			cfg.MapWidth, cfg.MapHeight = w, h
		}
	}
}

func defaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		Reference:    DefaultReference,
		Keyword:      DefaultKeyword,
		Logger:       slog.Default(),
		MapCacheSize: DefaultMapCacheSize,
		MapWidth:     DefaultMapWidth,
		MapHeight:    DefaultMapHeight,
	}
}

// Session owns the state of one game: the current city, the guess history
// and the map cache. A Session is driven from a single goroutine.
type Session struct {
	id       string
	cfg      *SessionConfig
	source   CitySource
	provider DistanceProvider
	logger   *slog.Logger
	maps     *MapCache

	state   State
	current *Candidate
	history []GuessRecord
}

// NewSession creates a session and draws its first city.
//
//	src, _ := citydistance.NewSource(places)
//	s, err := citydistance.NewSession(ctx, src, citydistance.GreatCircle{})
func NewSession(ctx context.Context, source CitySource, provider DistanceProvider, opts ...Option) (*Session, error) {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.Reference.Valid() {
		return nil, fmt.Errorf("reference point: %w", ErrInvalidCoordinates)
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		source:   source,
		provider: provider,
		maps:     NewMapCache(cfg.MapCacheSize),
	}
	s.logger = cfg.Logger.With("session", s.id)

	if _, err := s.Advance(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("session started", "reference", cfg.Reference.String(), "keyword", cfg.Keyword)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Reference returns the point distances are measured from.
func (s *Session) Reference() Coordinates { return s.cfg.Reference }

// Keyword returns the termination keyword.
func (s *Session) Keyword() string { return s.cfg.Keyword }

// Current returns the city awaiting a guess.
func (s *Session) Current() (Candidate, bool) {
	if s.current == nil {
		return Candidate{}, false
	}
	return *s.current, true
}

// History returns a copy of the recorded guesses in turn order.
func (s *Session) History() []GuessRecord {
	out := make([]GuessRecord, len(s.history))
	copy(out, s.history)
	return out
}

// RunningMeanPercent returns the mean percent error over all guesses, or 0
// when there are none.
func (s *Session) RunningMeanPercent() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return meanPercent(s.history)
}

// Advance replaces the current city with a new candidate. It is called by
// NewSession and Submit, and by callers recovering from ErrNoUsableCandidate.
func (s *Session) Advance(ctx context.Context) (Candidate, error) {
	if s.state == StateEnded {
		return Candidate{}, ErrSessionEnded
	}
	next, err := s.source.Next(ctx)
	if err != nil {
		s.current = nil
		s.logger.Warn("no candidate city", "error", err)
		return Candidate{}, err
	}
	s.current = &next
	s.logger.Debug("new city", "label", next.Label, "coordinates", next.Coordinates.String())
	return next, nil
}

// Submit processes one raw input from the player.
func (s *Session) Submit(ctx context.Context, raw string) (TurnResult, error) {
	if s.state == StateEnded {
		return TurnResult{}, ErrSessionEnded
	}

	input := strings.TrimSpace(raw)
	if strings.EqualFold(input, s.cfg.Keyword) {
		s.state = StateEnded
		s.logger.Info("session ended by keyword", "guesses", len(s.history))
		return TurnResult{Ended: true, RunningMean: s.RunningMeanPercent()}, nil
	}
	if s.current == nil {
		return TurnResult{}, ErrNoCurrentCity
	}

	n, err := strconv.ParseInt(input, 10, 32)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %q", ErrInvalidGuess, input)
	}
	guess := int(n)

	city := *s.current
	dist, err := s.provider.DistanceKm(ctx, s.cfg.Reference, city.Coordinates)
	if err != nil {
		s.logger.Warn("distance provider failed", "city", city.Label, "error", err)
		return TurnResult{}, fmt.Errorf("%w: %w", ErrDistanceFailure, err)
	}
	if math.IsNaN(dist) || math.IsInf(dist, 0) || dist < 0 {
		return TurnResult{}, fmt.Errorf("%w: provider returned %v", ErrDistanceFailure, dist)
	}

	actual := int(math.Floor(dist))
	absErr, pct := Score(actual, guess)
	rec := GuessRecord{
		Turn:         len(s.history) + 1,
		CityLabel:    city.Label,
		City:         city.Coordinates,
		ActualKm:     actual,
		GuessKm:      guess,
		AbsErrorKm:   absErr,
		PercentError: pct,
	}
	s.history = append(s.history, rec)

	res := TurnResult{Record: rec, RunningMean: s.RunningMeanPercent()}
	s.logger.Info("guess scored",
		"turn", rec.Turn,
		"city", rec.CityLabel,
		"actual_km", rec.ActualKm,
		"guess_km", rec.GuessKm,
		"abs_error_km", rec.AbsErrorKm,
		"percent_error", rec.PercentError,
		"running_mean", res.RunningMean,
	)

	next, err := s.Advance(ctx)
	if err != nil {
		return res, fmt.Errorf("advancing after turn %d: %w", rec.Turn, err)
	}
	res.Next = next
	return res, nil
}

// End ends the session and summarises it. The session is ended even when
// ErrNoGuesses is returned.
func (s *Session) End() (Summary, error) {
	if s.state != StateEnded {
		s.state = StateEnded
		s.logger.Info("session ended", "guesses", len(s.history))
	}
	sum, err := Summarize(s.history)
	if err != nil {
		return Summary{}, err
	}
	s.logger.Info("session summary",
		"guesses", sum.Guesses,
		"mean_abs_error_km", sum.MeanAbsErrorKm,
		"mean_percent_error", sum.MeanPercentError,
		"best_km", sum.Best.AbsErrorKm,
		"worst_km", sum.Worst.AbsErrorKm,
	)
	return sum, nil
}

// Map returns the rendered map of a recorded turn, reusing the cached
// artifact when there is one.
func (s *Session) Map(turn int) (MapArtifact, error) {
	if turn < 1 || turn > len(s.history) {
		return MapArtifact{}, fmt.Errorf("%w: turn %d", ErrUnknownTurn, turn)
	}
	rec := s.history[turn-1]
	key := MapKey(rec.CityLabel, rec.City)
	if art, ok := s.maps.Get(key); ok {
		return art, nil
	}
	art := RenderMap(rec.CityLabel, s.cfg.Reference, rec.City, s.cfg.MapWidth, s.cfg.MapHeight)
	s.maps.Put(key, art)
	return art, nil
}

// Score returns the absolute error and the percent error of guess against
// actual. The percent error of a zero actual distance is 0. An absolute error
// beyond math.MaxInt is reported as math.MaxInt.
func Score(actualKm, guessKm int) (absErrorKm int, percentError float64) {
	// The magnitude of the difference of two ints always fits in a uint.
	var diff uint
	if guessKm >= actualKm {
		diff = uint(guessKm) - uint(actualKm)
	} else {
		diff = uint(actualKm) - uint(guessKm)
	}
	absErrorKm = math.MaxInt
	if diff <= math.MaxInt {
		absErrorKm = int(diff)
	}
	if actualKm == 0 {
		return absErrorKm, 0
	}
	return absErrorKm, float64(diff) / float64(actualKm) * 100
}
