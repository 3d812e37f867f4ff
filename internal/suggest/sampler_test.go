package suggest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler() *Sampler {
	return NewSampler(rand.New(rand.NewSource(1)))
}

func TestSampleDrawsDistinctFromInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	s := newTestSampler()

	for i := 0; i < 50; i++ {
		got := s.Sample(ids, 3)
		require.Len(t, got, 3)

		seen := map[string]bool{}
		for _, id := range got {
			assert.Contains(t, ids, id)
			assert.False(t, seen[id], "duplicate draw %s", id)
			seen[id] = true
		}
	}
}

func TestSampleExactPoolSize(t *testing.T) {
	ids := []string{"a", "b", "c"}
	got := newTestSampler().Sample(ids, 3)
	assert.ElementsMatch(t, ids, got)
}

func TestSampleSmallPoolYieldsNothing(t *testing.T) {
	s := newTestSampler()
	assert.Empty(t, s.Sample(nil, 3))
	assert.Empty(t, s.Sample([]string{}, 3))
	assert.Empty(t, s.Sample([]string{"a"}, 3))
	assert.Empty(t, s.Sample([]string{"a", "b"}, 3))
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	_ = newTestSampler().Sample(ids, 3)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	first := NewSampler(rand.New(rand.NewSource(42))).Sample(ids, 3)
	second := NewSampler(rand.New(rand.NewSource(42))).Sample(ids, 3)
	assert.Equal(t, first, second)
}
