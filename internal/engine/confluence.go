// Package engine combines the six timeframe-aggregated family scores into
// the final confluence score with its consensus, disagreement and confidence
// metrics, and orchestrates the per-symbol scoring pass.
package engine

import (
	"math"

	"Confluence/internal/domain/models"
	"Confluence/internal/kernel"
	"Confluence/pkg/config"
)

// nonNeutralEps is how far a family score must sit from 50 to count as
// directional evidence.
const nonNeutralEps = 1e-9

// Consensus holds the consensus-engine outputs for one set of family scores.
type Consensus struct {
	Direction    float64 // weighted direction in [-1, 1]
	Disagreement float64 // variance of the normalized family scores
	Consensus    float64 // agreement measure in (0, 1]
	Confidence   float64 // |direction| * consensus, in [0, 1]
	Score        float64 // clip(direction*100 + 50, 0, 100)
}

// familyWeights flattens the configured weights into the map the consensus
// computation consumes.
func familyWeights(w config.FamilyWeights) map[models.Family]float64 {
	return map[models.Family]float64{
		models.FamilyTechnical: w.Technical,
		models.FamilyVolume:    w.Volume,
		models.FamilyOrderflow: w.Orderflow,
		models.FamilyOrderbook: w.Orderbook,
		models.FamilySentiment: w.Sentiment,
		models.FamilyStructure: w.Structure,
	}
}

// ComputeConsensus runs the consensus algorithm over family scores (0-100
// scale) with their weights. decay tunes how fast consensus falls as the
// normalized scores spread out.
//
// Each score normalizes to [-1,1] via (s/100)*2-1. Direction is the weighted
// sum; disagreement is the variance of the normalized scores; consensus
// decays exponentially with their dispersion (the square root of the
// disagreement, keeping the decay argument in score units); confidence is
// direction strength scaled by consensus. When fewer than two families carry
// a non-neutral score there is no evidence of conflict and disagreement is
// defined as zero.
func ComputeConsensus(scores map[models.Family]float64, weights map[models.Family]float64, decay float64) Consensus {
	if decay <= 0 {
		decay = 2.0
	}

	// Fixed family order keeps the floating-point sums reproducible
	// across passes over identical inputs.
	normalized := make([]float64, 0, len(scores))
	var direction, weightSum float64
	nonNeutral := 0
	for _, family := range models.Families() {
		score, ok := scores[family]
		if !ok {
			continue
		}
		n := (score/100)*2 - 1
		normalized = append(normalized, n)
		direction += weights[family] * n
		weightSum += weights[family]
		if math.Abs(score-models.NeutralScore) > nonNeutralEps {
			nonNeutral++
		}
	}
	if weightSum > 0 {
		direction /= weightSum
	}
	direction = kernel.Clamp(direction, -1, 1)

	disagreement := 0.0
	if nonNeutral >= 2 {
		disagreement = kernel.Variance(normalized)
	}

	consensus := math.Exp(-decay * math.Sqrt(disagreement))
	confidence := kernel.Clamp(math.Abs(direction)*consensus, 0, 1)

	return Consensus{
		Direction:    direction,
		Disagreement: disagreement,
		Consensus:    consensus,
		Confidence:   confidence,
		Score:        kernel.Clamp(direction*100+50, 0, 100),
	}
}
