package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func iv(t *testing.T, startHour, endHour int) TimeInterval {
	t.Helper()
	interval, err := NewTimeInterval(at(startHour, 0), at(endHour, 0))
	require.NoError(t, err)
	return interval
}

func TestNewTimeInterval_RejectsInvertedAndEmpty(t *testing.T) {
	_, err := NewTimeInterval(at(10, 0), at(9, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewTimeInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps_HalfOpenSemantics(t *testing.T) {
	a := iv(t, 9, 10)
	b := iv(t, 10, 11)

	// Touching intervals share no instant.
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	c := iv(t, 9, 11)
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}

// TestOverlaps_RandomizedAgainstReference checks the overlap predicate
// a < d && c < b against a brute-force instant scan for random interval pairs.
func TestOverlaps_RandomizedAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	randomInterval := func() TimeInterval {
		start := rng.Intn(48)
		length := 1 + rng.Intn(24)
		return TimeInterval{Start: at(0, 30*start), End: at(0, 30*(start+length))}
	}

	for i := 0; i < 500; i++ {
		a, b := randomInterval(), randomInterval()

		shared := false
		for m := 0; m < 48*2; m++ {
			instant := at(0, 30*m)
			inA := !instant.Before(a.Start) && instant.Before(a.End)
			inB := !instant.Before(b.Start) && instant.Before(b.End)
			if inA && inB {
				shared = true
				break
			}
		}

		assert.Equalf(t, shared, a.Overlaps(b), "a=%s b=%s", a, b)
		assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric")
	}
}

func TestIntersect(t *testing.T) {
	got, ok := iv(t, 9, 12).Intersect(iv(t, 10, 14))
	require.True(t, ok)
	assert.True(t, got.Equal(iv(t, 10, 12)))

	_, ok = iv(t, 9, 10).Intersect(iv(t, 11, 12))
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []TimeInterval
		want []TimeInterval
	}{
		{
			name: "unsorted input is sorted",
			in:   []TimeInterval{iv(t, 14, 16), iv(t, 9, 12)},
			want: []TimeInterval{iv(t, 9, 12), iv(t, 14, 16)},
		},
		{
			name: "overlapping intervals merge",
			in:   []TimeInterval{iv(t, 9, 11), iv(t, 10, 12)},
			want: []TimeInterval{iv(t, 9, 12)},
		},
		{
			name: "adjacent intervals merge",
			in:   []TimeInterval{iv(t, 9, 10), iv(t, 10, 11)},
			want: []TimeInterval{iv(t, 9, 11)},
		},
		{
			name: "inverted intervals are dropped",
			in:   []TimeInterval{{Start: at(12, 0), End: at(9, 0)}, iv(t, 14, 15)},
			want: []TimeInterval{iv(t, 14, 15)},
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIntersectSets(t *testing.T) {
	a := []TimeInterval{iv(t, 9, 12), iv(t, 14, 16)}
	b := []TimeInterval{iv(t, 10, 15)}

	got := IntersectSets(a, b)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(iv(t, 10, 12)))
	assert.True(t, got[1].Equal(iv(t, 14, 15)))

	// Commutative: arrival order of participant results must not matter.
	assert.Equal(t, got, IntersectSets(b, a))

	assert.Empty(t, IntersectSets(a, []TimeInterval{iv(t, 12, 14)}))
	assert.Empty(t, IntersectSets(nil, a))
}

// Every intersected interval must be contained in both operands (soundness).
func TestIntersectSets_Soundness(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	randomSet := func() []TimeInterval {
		var set []TimeInterval
		for i := 0; i < 1+rng.Intn(4); i++ {
			start := rng.Intn(40)
			set = append(set, TimeInterval{Start: at(0, 30*start), End: at(0, 30*(start+1+rng.Intn(12)))})
		}
		return Normalize(set)
	}

	containedInSet := func(iv TimeInterval, set []TimeInterval) bool {
		for _, s := range set {
			if s.Contains(iv) {
				return true
			}
		}
		return false
	}

	for i := 0; i < 200; i++ {
		a, b := randomSet(), randomSet()
		for _, got := range IntersectSets(a, b) {
			assert.True(t, containedInSet(got, a))
			assert.True(t, containedInSet(got, b))
		}
	}
}

func TestSubtract(t *testing.T) {
	set := []TimeInterval{iv(t, 9, 12), iv(t, 14, 16)}

	// Carving the middle splits the first interval.
	got := Subtract(set, iv(t, 10, 11))
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(iv(t, 9, 10)))
	assert.True(t, got[1].Equal(iv(t, 11, 12)))
	assert.True(t, got[2].Equal(iv(t, 14, 16)))

	// Removing a whole interval leaves the rest untouched.
	got = Subtract(set, iv(t, 14, 16))
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(iv(t, 9, 12)))

	// Disjoint subtraction is a no-op.
	assert.Equal(t, set, Subtract(set, iv(t, 12, 14)))
}

func TestContains(t *testing.T) {
	outer := iv(t, 9, 12)
	assert.True(t, outer.Contains(iv(t, 9, 12)))
	assert.True(t, outer.Contains(iv(t, 10, 11)))
	assert.False(t, outer.Contains(iv(t, 8, 10)))
	assert.False(t, outer.Contains(iv(t, 11, 13)))
}
