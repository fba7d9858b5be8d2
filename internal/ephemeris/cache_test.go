package ephemeris

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// countingProvider is a deterministic Provider that records call counts.
type countingProvider struct {
	positionCalls int
	houseCalls    int
}

func (p *countingProvider) BodyPosition(_ context.Context, utc time.Time, _ Coordinates, body Body) (RawPosition, error) {
	p.positionCalls++
	return RawPosition{
		Longitude: float64(int(body)*30) + float64(utc.Hour()),
		Latitude:  0.5,
		Distance:  1.0,
		Speed:     0.98,
	}, nil
}

func (p *countingProvider) Houses(_ context.Context, _ time.Time, at Coordinates, _ HouseSystem) (RawHouses, error) {
	p.houseCalls++
	var h RawHouses
	for i := range h.Cusps {
		h.Cusps[i] = float64(i * 30)
	}
	h.Ascendant = at.Latitude
	h.Midheaven = at.Longitude
	return h, nil
}

func newTestCache(t *testing.T) (*Cache, *countingProvider) {
	t.Helper()
	inner := &countingProvider{}
	c, err := OpenCache(context.Background(), filepath.Join(t.TempDir(), "cache.db"), inner)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, inner
}

func TestCache_PositionHit(t *testing.T) {
	t.Parallel()

	c, inner := newTestCache(t)
	ctx := context.Background()
	utc := time.Date(1990, 3, 10, 7, 25, 0, 0, time.UTC)
	at := Coordinates{Latitude: 15.83, Longitude: 78.04}

	first, err := c.BodyPosition(ctx, utc, at, Mars)
	if err != nil {
		t.Fatalf("first BodyPosition: %v", err)
	}
	second, err := c.BodyPosition(ctx, utc, at, Mars)
	if err != nil {
		t.Fatalf("second BodyPosition: %v", err)
	}

	if first != second {
		t.Errorf("cache returned different position: %+v vs %+v", first, second)
	}
	if inner.positionCalls != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.positionCalls)
	}
}

func TestCache_DistinctKeys(t *testing.T) {
	t.Parallel()

	c, inner := newTestCache(t)
	ctx := context.Background()
	at := Coordinates{Latitude: 15.83, Longitude: 78.04}
	t1 := time.Date(1990, 3, 10, 7, 25, 0, 0, time.UTC)
	t2 := t1.Add(500 * time.Millisecond) // sub-second instants must not collide

	if _, err := c.BodyPosition(ctx, t1, at, Sun); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BodyPosition(ctx, t2, at, Sun); err != nil {
		t.Fatal(err)
	}
	if _, err := c.BodyPosition(ctx, t1, at, Moon); err != nil {
		t.Fatal(err)
	}

	if inner.positionCalls != 3 {
		t.Errorf("inner provider called %d times, want 3", inner.positionCalls)
	}
}

func TestCache_HousesHit(t *testing.T) {
	t.Parallel()

	c, inner := newTestCache(t)
	ctx := context.Background()
	utc := time.Date(1990, 3, 10, 7, 25, 0, 0, time.UTC)
	at := Coordinates{Latitude: 15.83, Longitude: 78.04}

	first, err := c.Houses(ctx, utc, at, Placidus)
	if err != nil {
		t.Fatalf("first Houses: %v", err)
	}
	second, err := c.Houses(ctx, utc, at, Placidus)
	if err != nil {
		t.Fatalf("second Houses: %v", err)
	}
	if first != second {
		t.Errorf("cache returned different houses: %+v vs %+v", first, second)
	}

	// Different system is a different key.
	if _, err := c.Houses(ctx, utc, at, WholeSign); err != nil {
		t.Fatal(err)
	}
	if inner.houseCalls != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.houseCalls)
	}
}
