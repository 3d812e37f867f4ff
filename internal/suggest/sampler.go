// Package suggest picks which candidates get enriched and delivered.
package suggest

import "math/rand"

// SuggestionCount is how many restaurants one result contains.
const SuggestionCount = 3

// Sampler draws candidates from a seedable source so tests can pin the
// sampled set.
type Sampler struct {
	r *rand.Rand
}

// NewSampler wraps the given source.
func NewSampler(r *rand.Rand) *Sampler {
	return &Sampler{r: r}
}

// Sample draws k distinct candidates uniformly without replacement. A pool
// smaller than k yields nothing: the result then renders with zero
// suggestions rather than a short, unrepresentative list.
func (s *Sampler) Sample(ids []string, k int) []string {
	if len(ids) < k {
		return nil
	}
	picked := make([]string, len(ids))
	copy(picked, ids)
	s.r.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:k]
}
