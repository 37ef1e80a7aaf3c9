package catalog

// DefaultMinBranches is the minimum number of distinct reporting branches a
// SKU needs before cross-branch conflict detection considers it.
const DefaultMinBranches = 2

// BranchMajority is one branch's winning proposal plus its runner-up variants.
type BranchMajority struct {
	Branch   string        `json:"branch"`
	Codes    CodeSet       `json:"codes"`
	Count    int           `json:"count"`
	LastSeen string        `json:"last_seen"`
	Users    []string      `json:"users,omitempty"`
	Variants []BranchTally `json:"variants,omitempty"`
}

// BranchConflict reports whether branches disagree about one SKU.
type BranchConflict struct {
	SKU                string           `json:"sku"`
	Conflict           bool             `json:"conflict"`
	Majorities         []BranchMajority `json:"majorities"`
	DistinctSignatures int              `json:"distinct_signatures"`
}

// DetectBranchConflict picks each branch's local majority (highest count,
// first-encountered tie-break) and counts distinct majority signatures.
// Returns false when fewer than minBranches branches reported.
func DetectBranchConflict(agg SKUAggregate, minBranches int) (BranchConflict, bool) {
	if minBranches < 1 {
		minBranches = 1
	}
	if len(agg.PerBranch) < minBranches {
		return BranchConflict{}, false
	}

	majorities := make([]BranchMajority, 0, len(agg.PerBranch))
	signatures := make(map[string]struct{}, len(agg.PerBranch))

	for _, group := range agg.PerBranch {
		if len(group.Tallies) == 0 {
			continue
		}

		ranked := rankBranchTallies(group.Tallies)
		top := ranked[0]
		majorities = append(majorities, BranchMajority{
			Branch:   group.Branch,
			Codes:    top.Codes,
			Count:    top.Count,
			LastSeen: top.LastSeen,
			Users:    top.Users,
			Variants: ranked[1:],
		})
		signatures[top.Codes.Signature()] = struct{}{}
	}

	if len(majorities) < minBranches {
		return BranchConflict{}, false
	}

	return BranchConflict{
		SKU:                agg.SKU,
		Conflict:           len(signatures) > 1,
		Majorities:         majorities,
		DistinctSignatures: len(signatures),
	}, true
}

func rankBranchTallies(tallies []BranchTally) []BranchTally {
	ranked := make([]BranchTally, len(tallies))
	copy(ranked, tallies)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Count > ranked[j-1].Count; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
