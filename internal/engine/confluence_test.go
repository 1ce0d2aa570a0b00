package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Confluence/internal/domain/models"
)

func testWeights() map[models.Family]float64 {
	return map[models.Family]float64{
		models.FamilyTechnical: 0.25,
		models.FamilyVolume:    0.20,
		models.FamilyOrderflow: 0.15,
		models.FamilyOrderbook: 0.11,
		models.FamilySentiment: 0.15,
		models.FamilyStructure: 0.14,
	}
}

func TestComputeConsensusAgreement(t *testing.T) {
	scores := map[models.Family]float64{
		models.FamilyTechnical: 80,
		models.FamilyVolume:    85,
		models.FamilyOrderflow: 82,
		models.FamilyOrderbook: 78,
		models.FamilySentiment: 83,
		models.FamilyStructure: 81,
	}
	c := ComputeConsensus(scores, testWeights(), 2.0)

	assert.Greater(t, c.Consensus, 0.9, "tightly clustered bullish scores agree")
	assert.Greater(t, c.Confidence, 0.5)
	assert.Greater(t, c.Score, 65.0)
	assert.InDelta(t, 0.6334, c.Direction, 1e-4)
	assert.InDelta(t, 0.9151, c.Consensus, 1e-3)
}

func TestComputeConsensusDivergent(t *testing.T) {
	scores := map[models.Family]float64{
		models.FamilyTechnical: 80,
		models.FamilyVolume:    20,
		models.FamilyOrderflow: 75,
		models.FamilyOrderbook: 30,
		models.FamilySentiment: 60,
		models.FamilyStructure: 25,
	}
	c := ComputeConsensus(scores, testWeights(), 2.0)

	assert.Less(t, c.Consensus, 0.5, "families pulling both ways cannot agree")
	assert.Less(t, c.Confidence, 0.1)
	assert.InDelta(t, 50, c.Score, 5, "conflicting evidence lands near neutral")
	assert.Greater(t, c.Disagreement, 0.2)
}

func TestComputeConsensusBoundaries(t *testing.T) {
	allMax := map[models.Family]float64{}
	allMin := map[models.Family]float64{}
	for _, f := range models.Families() {
		allMax[f] = 100
		allMin[f] = 0
	}

	up := ComputeConsensus(allMax, testWeights(), 2.0)
	require.InDelta(t, 1, up.Direction, 1e-12)
	require.InDelta(t, 100, up.Score, 1e-9)
	require.InDelta(t, 1, up.Consensus, 1e-12)
	require.InDelta(t, 1, up.Confidence, 1e-12)

	down := ComputeConsensus(allMin, testWeights(), 2.0)
	require.InDelta(t, -1, down.Direction, 1e-12)
	require.InDelta(t, 0, down.Score, 1e-9)
	require.InDelta(t, 1, down.Consensus, 1e-12)
	require.InDelta(t, 1, down.Confidence, 1e-12)
}

func TestComputeConsensusNeutral(t *testing.T) {
	scores := map[models.Family]float64{}
	for _, f := range models.Families() {
		scores[f] = models.NeutralScore
	}
	c := ComputeConsensus(scores, testWeights(), 2.0)

	assert.InDelta(t, 0, c.Direction, 1e-12)
	assert.InDelta(t, 50, c.Score, 1e-9)
	assert.Zero(t, c.Disagreement, "a wall of neutrals is not conflict")
	assert.InDelta(t, 1, c.Consensus, 1e-12)
	assert.InDelta(t, 0, c.Confidence, 1e-12)
}

func TestComputeConsensusSingleVoice(t *testing.T) {
	// One directional family among neutrals: no second opinion, so
	// disagreement stays zero.
	scores := map[models.Family]float64{}
	for _, f := range models.Families() {
		scores[f] = models.NeutralScore
	}
	scores[models.FamilyOrderflow] = 90
	c := ComputeConsensus(scores, testWeights(), 2.0)

	assert.Zero(t, c.Disagreement)
	assert.InDelta(t, 1, c.Consensus, 1e-12)
	assert.Greater(t, c.Score, 50.0)
}

func TestComputeConsensusMonotonic(t *testing.T) {
	scores := map[models.Family]float64{}
	for _, f := range models.Families() {
		scores[f] = 60
	}
	base := ComputeConsensus(scores, testWeights(), 2.0)

	scores[models.FamilyTechnical] = 80
	bumped := ComputeConsensus(scores, testWeights(), 2.0)

	assert.Greater(t, bumped.Direction, base.Direction, "raising a family score must not lower direction")
	assert.GreaterOrEqual(t, bumped.Score, base.Score)
}

func TestComputeConsensusDecaysWithDispersion(t *testing.T) {
	// Same weighted direction, widening spread: consensus must fall as the
	// families scatter while direction stays put.
	uniform := map[models.Family]float64{}
	for _, f := range models.Families() {
		uniform[f] = 1.0 / 6
	}
	build := func(technical, volume float64) map[models.Family]float64 {
		scores := map[models.Family]float64{}
		for _, f := range models.Families() {
			scores[f] = 60
		}
		scores[models.FamilyTechnical] = technical
		scores[models.FamilyVolume] = volume
		return scores
	}

	tight := ComputeConsensus(build(60, 60), uniform, 2.0)
	wide := ComputeConsensus(build(80, 40), uniform, 2.0)
	wider := ComputeConsensus(build(100, 20), uniform, 2.0)

	require.InDelta(t, tight.Direction, wide.Direction, 1e-12)
	require.InDelta(t, tight.Direction, wider.Direction, 1e-12)

	assert.Greater(t, tight.Consensus, wide.Consensus)
	assert.Greater(t, wide.Consensus, wider.Consensus)
	assert.Less(t, wide.Disagreement, wider.Disagreement)
}

func TestComputeConsensusDecayDefault(t *testing.T) {
	scores := map[models.Family]float64{
		models.FamilyTechnical: 80,
		models.FamilyVolume:    20,
	}
	bad := ComputeConsensus(scores, testWeights(), -1)
	good := ComputeConsensus(scores, testWeights(), 2.0)
	assert.InDelta(t, good.Consensus, bad.Consensus, 1e-12, "non-positive decay falls back to the default")
}
