package citydistance

import (
	"context"
	"errors"
	"time"

	. "gopkg.in/check.v1"
)

func coords(lat, lng float64) *Coordinates {
	return &Coordinates{Latitude: lat, Longitude: lng}
}

type SourceSuite struct {
	places []PlaceRecord
}

var _ = Suite(&SourceSuite{})

func (s *SourceSuite) SetUpSuite(c *C) {
	s.places = []PlaceRecord{
		{Name: "Austin", Country: "United States", RegionCode: "TX", Coordinates: coords(30.26715, -97.74306)},
		{Name: "Glasgow", Country: "United Kingdom", RegionCode: "SCT", Coordinates: coords(55.86515, -4.25763)},
		{Name: "Paris", Country: "France", RegionCode: "11", Coordinates: coords(48.85341, 2.3488)},
		{Name: "", Country: "Nowhere", Coordinates: coords(1, 1)},
		{Name: "Lost", Country: "Nowhere"},
	}
}

func (s *SourceSuite) TestNewSourceRejectsEmptyDataset(c *C) {
	_, err := NewSource(nil)
	c.Assert(errors.Is(err, ErrEmptyDataset), Equals, true)
}

func (s *SourceSuite) TestNextOnlyReturnsUsablePlaces(c *C) {
	src, err := NewSource(s.places, WithSeed(7), WithMaxAttempts(50), WithSourceLogger(quietLogger))
	c.Assert(err, IsNil)
	c.Assert(src.Len(), Equals, 5)

	want := map[string]bool{"Austin, Texas": true, "Glasgow, Scotland": true, "Paris, France": true}
	for i := 0; i < 200; i++ {
		cand, err := src.Next(context.Background())
		c.Assert(err, IsNil)
		c.Assert(want[cand.Label], Equals, true, Commentf("label %q", cand.Label))
		c.Assert(cand.Coordinates, Equals, *cand.Place.Coordinates)
	}
}

func (s *SourceSuite) TestNextIsDeterministicForASeed(c *C) {
	a, _ := NewSource(s.places, WithSeed(42), WithMaxAttempts(50))
	b, _ := NewSource(s.places, WithSeed(42), WithMaxAttempts(50))
	for i := 0; i < 20; i++ {
		ca, errA := a.Next(context.Background())
		cb, errB := b.Next(context.Background())
		c.Assert(errA, IsNil)
		c.Assert(errB, IsNil)
		c.Assert(ca.Label, Equals, cb.Label)
	}
}

func (s *SourceSuite) TestNextExhaustsAttempts(c *C) {
	unusable := []PlaceRecord{{Name: "Lost"}, {Coordinates: coords(1, 2)}}
	src, err := NewSource(unusable, WithMaxAttempts(3), WithSourceLogger(quietLogger))
	c.Assert(err, IsNil)

	_, err = src.Next(context.Background())
	c.Assert(errors.Is(err, ErrNoUsableCandidate), Equals, true)
	c.Assert(err, ErrorMatches, ".*after 3 attempts")
}

func (s *SourceSuite) TestNextHonoursCancellation(c *C) {
	src, _ := NewSource(s.places)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Next(ctx)
	c.Assert(errors.Is(err, context.Canceled), Equals, true)
}

func (s *SourceSuite) TestCandidateUsesResolverForMissingCountry(c *C) {
	resolver := NewCellResolver(s.places)
	src, _ := NewSource(s.places, WithCountryResolver(resolver, time.Second))

	cand, err := src.Candidate(context.Background(), PlaceRecord{Name: "Hyde Park", RegionCode: "TX", Coordinates: coords(30.305, -97.73)})
	c.Assert(err, IsNil)
	c.Assert(cand.Label, Equals, "Hyde Park, Texas")
	c.Assert(cand.Place.Country, Equals, "United States")

	_, err = src.Candidate(context.Background(), PlaceRecord{Name: "Middle of the Pacific", Coordinates: coords(-20, -140)})
	c.Assert(errors.Is(err, ErrNoNearbyPlace), Equals, true)
}

func (s *SourceSuite) TestCandidateWithoutResolverUsesUnknown(c *C) {
	src, _ := NewSource(s.places)
	cand, err := src.Candidate(context.Background(), PlaceRecord{Name: "Atlantis", Coordinates: coords(0, -30)})
	c.Assert(err, IsNil)
	c.Assert(cand.Label, Equals, "Atlantis, Unknown")

	_, err = src.Candidate(context.Background(), PlaceRecord{Name: "Lost"})
	c.Assert(errors.Is(err, ErrUnusablePlace), Equals, true)
}

func (s *SourceSuite) TestFailedResolutionCountsAsAttempt(c *C) {
	places := []PlaceRecord{{Name: "Drift", Coordinates: coords(-40, -120)}}
	failing := resolverFunc(func(ctx context.Context, _ Coordinates) (string, error) {
		return "", errors.New("lookup failed")
	})
	src, _ := NewSource(places, WithCountryResolver(failing, time.Second), WithMaxAttempts(4), WithSourceLogger(quietLogger))
	_, err := src.Next(context.Background())
	c.Assert(errors.Is(err, ErrNoUsableCandidate), Equals, true)
}

func (s *SourceSuite) TestResolverLookupIsBounded(c *C) {
	places := []PlaceRecord{{Name: "Slow", Coordinates: coords(10, 10)}}
	slow := resolverFunc(func(ctx context.Context, _ Coordinates) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	src, _ := NewSource(places, WithCountryResolver(slow, 10*time.Millisecond))
	_, err := src.Candidate(context.Background(), places[0])
	c.Assert(errors.Is(err, context.DeadlineExceeded), Equals, true)
}

func (s *SourceSuite) TestFind(c *C) {
	src, _ := NewSource(s.places)

	p, ok := src.Find("paris", 0)
	c.Assert(ok, Equals, true)
	c.Assert(p.Name, Equals, "Paris")

	p, ok = src.Find("Glasgow, Scotland", 0)
	c.Assert(ok, Equals, true)
	c.Assert(p.Name, Equals, "Glasgow")

	p, ok = src.Find("Austn", 2)
	c.Assert(ok, Equals, true)
	c.Assert(p.Name, Equals, "Austin")

	_, ok = src.Find("Austn", 0)
	c.Assert(ok, Equals, false)
	_, ok = src.Find("Lost", 2)
	c.Assert(ok, Equals, false)
	_, ok = src.Find("   ", 2)
	c.Assert(ok, Equals, false)
}

func (s *SourceSuite) TestPinnedSource(c *C) {
	src, _ := NewSource(s.places, WithSeed(1), WithMaxAttempts(50))
	p, _ := src.Find("Glasgow", 0)
	first, err := src.Candidate(context.Background(), p)
	c.Assert(err, IsNil)

	pinned := NewPinnedSource(first, src)
	got, err := pinned.Next(context.Background())
	c.Assert(err, IsNil)
	c.Assert(got.Label, Equals, "Glasgow, Scotland")

	_, err = pinned.Next(context.Background())
	c.Assert(err, IsNil)
}

type resolverFunc func(ctx context.Context, c Coordinates) (string, error)

func (f resolverFunc) ResolveCountry(ctx context.Context, c Coordinates) (string, error) {
	return f(ctx, c)
}
