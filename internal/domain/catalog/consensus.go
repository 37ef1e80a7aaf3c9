package catalog

import (
	"math"
	"sort"
)

// MinConsensusVotes is the anti-noise floor: a lone vote never wins.
const MinConsensusVotes = 2

// Consensus is the verdict for one SKU's proposal tallies.
type Consensus struct {
	Top          *ProposalTally
	Ratio        float64
	HasConsensus bool
	Ranked       []ProposalTally
}

// RankProposals orders tallies by count descending. The sort is stable, so
// ties keep first-encountered order within a single evaluation.
func RankProposals(proposals []ProposalTally) []ProposalTally {
	ranked := make([]ProposalTally, len(proposals))
	copy(ranked, proposals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// EvaluateConsensus ranks the proposals and decides whether the top one has
// a strict majority: at least MinConsensusVotes and strictly more votes than
// the runner-up. Ratio is top votes over total, rounded to two decimals.
func EvaluateConsensus(proposals []ProposalTally) Consensus {
	ranked := RankProposals(proposals)

	total := 0
	for _, p := range ranked {
		total += p.Count
	}

	if len(ranked) == 0 {
		return Consensus{Ranked: ranked}
	}

	top := ranked[0]
	second := 0
	if len(ranked) > 1 {
		second = ranked[1].Count
	}

	if total < 1 {
		total = 1
	}

	return Consensus{
		Top:          &top,
		Ratio:        round2(float64(top.Count) / float64(total)),
		HasConsensus: top.Count >= MinConsensusVotes && top.Count > second,
		Ranked:       ranked,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
