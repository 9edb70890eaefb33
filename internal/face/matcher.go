package face

import (
	"math"

	"github.com/harentsoaR/waitingroom-api/internal/models"
)

// Match is a candidate registration that cleared the threshold.
type Match struct {
	Registration models.WaitingRegistration
	Similarity   float64
}

// CosineSimilarity computes the normalized dot product of two vectors.
// ok is false for mismatched lengths and zero-norm vectors, where the
// similarity is undefined.
func CosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp to [-1, 1] to handle floating point errors
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}

	return similarity, true
}

// FirstOverThreshold scans candidates in the order given and returns the
// first one whose similarity to the probe reaches the threshold. This is
// deliberately not a best-of-all search: with candidates enumerated
// oldest-first, the earliest qualifying registration wins even if a later
// one would score higher. The boundary is inclusive. Candidates with an
// undefined similarity (zero norm, wrong dimensionality) never match.
func FirstOverThreshold(probe []float64, candidates []models.WaitingRegistration, threshold float64) (*Match, bool) {
	for _, candidate := range candidates {
		score, ok := CosineSimilarity(probe, candidate.Embedding)
		if !ok {
			continue
		}
		if score >= threshold {
			return &Match{Registration: candidate, Similarity: score}, true
		}
	}
	return nil, false
}
