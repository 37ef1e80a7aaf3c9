package catalog

// ScanObservation is the slice of a scan event the aggregation cares about.
// Codes are the resolved (assumed) codes, already canonical; a zero CodeSet
// still counts as a distinct "unknown" proposal.
type ScanObservation struct {
	SKU       string
	Branch    string
	Submitter string
	Codes     CodeSet
	Timestamp string
}

// ProposalTally is the campaign-wide vote count for one distinct proposal.
type ProposalTally struct {
	Codes    CodeSet
	Count    int
	Users    []string
	Branches []string
}

// BranchTally is the vote count for one proposal within one branch.
type BranchTally struct {
	Codes    CodeSet  `json:"codes"`
	Count    int      `json:"count"`
	LastSeen string   `json:"last_seen"`
	Users    []string `json:"users,omitempty"`
}

// BranchGroup holds all proposals reported by one branch, in first-seen order.
type BranchGroup struct {
	Branch  string
	Tallies []BranchTally
}

// SKUAggregate is the full aggregation result for one SKU: global tallies,
// per-branch tallies, event total, last-seen timestamp and reporting branches.
type SKUAggregate struct {
	SKU       string
	Total     int
	LastSeen  string
	Branches  []string
	Proposals []ProposalTally
	PerBranch []BranchGroup
}

type skuAccumulator struct {
	agg            *SKUAggregate
	proposalIdx    map[string]int
	branchIdx      map[string]int
	branchTallyIdx map[string]map[string]int
	userSeen       map[string]map[string]struct{}
	branchSeen     map[string]map[string]struct{}
	branchUserSeen map[string]map[string]map[string]struct{}
}

// AggregateScans folds scan observations into per-SKU aggregates. Output
// order and all inner orderings follow first encounter, so a single call is
// deterministic for a given input slice. SKUs with no events never appear.
func AggregateScans(observations []ScanObservation) []SKUAggregate {
	order := make([]string, 0, 16)
	accs := make(map[string]*skuAccumulator, 16)

	for _, obs := range observations {
		if obs.SKU == "" {
			continue
		}

		acc, ok := accs[obs.SKU]
		if !ok {
			acc = &skuAccumulator{
				agg:            &SKUAggregate{SKU: obs.SKU},
				proposalIdx:    make(map[string]int, 4),
				branchIdx:      make(map[string]int, 4),
				branchTallyIdx: make(map[string]map[string]int, 4),
				userSeen:       make(map[string]map[string]struct{}, 4),
				branchSeen:     make(map[string]map[string]struct{}, 4),
				branchUserSeen: make(map[string]map[string]map[string]struct{}, 4),
			}
			accs[obs.SKU] = acc
			order = append(order, obs.SKU)
		}

		acc.observe(obs)
	}

	out := make([]SKUAggregate, 0, len(order))
	for _, sku := range order {
		out = append(out, *accs[sku].agg)
	}
	return out
}

func (a *skuAccumulator) observe(obs ScanObservation) {
	sig := obs.Codes.Signature()

	a.agg.Total++
	if obs.Timestamp > a.agg.LastSeen {
		a.agg.LastSeen = obs.Timestamp
	}

	idx, ok := a.proposalIdx[sig]
	if !ok {
		idx = len(a.agg.Proposals)
		a.proposalIdx[sig] = idx
		a.agg.Proposals = append(a.agg.Proposals, ProposalTally{Codes: obs.Codes})
		a.userSeen[sig] = make(map[string]struct{}, 2)
		a.branchSeen[sig] = make(map[string]struct{}, 2)
	}

	tally := &a.agg.Proposals[idx]
	tally.Count++
	if obs.Submitter != "" {
		if _, dup := a.userSeen[sig][obs.Submitter]; !dup {
			a.userSeen[sig][obs.Submitter] = struct{}{}
			tally.Users = append(tally.Users, obs.Submitter)
		}
	}
	if obs.Branch != "" {
		if _, dup := a.branchSeen[sig][obs.Branch]; !dup {
			a.branchSeen[sig][obs.Branch] = struct{}{}
			tally.Branches = append(tally.Branches, obs.Branch)
		}
	}

	if obs.Branch == "" {
		return
	}

	bIdx, ok := a.branchIdx[obs.Branch]
	if !ok {
		bIdx = len(a.agg.PerBranch)
		a.branchIdx[obs.Branch] = bIdx
		a.agg.PerBranch = append(a.agg.PerBranch, BranchGroup{Branch: obs.Branch})
		a.agg.Branches = append(a.agg.Branches, obs.Branch)
		a.branchTallyIdx[obs.Branch] = make(map[string]int, 4)
		a.branchUserSeen[obs.Branch] = make(map[string]map[string]struct{}, 4)
	}

	group := &a.agg.PerBranch[bIdx]
	tIdx, ok := a.branchTallyIdx[obs.Branch][sig]
	if !ok {
		tIdx = len(group.Tallies)
		a.branchTallyIdx[obs.Branch][sig] = tIdx
		group.Tallies = append(group.Tallies, BranchTally{Codes: obs.Codes})
		a.branchUserSeen[obs.Branch][sig] = make(map[string]struct{}, 2)
	}

	bt := &group.Tallies[tIdx]
	bt.Count++
	if obs.Timestamp > bt.LastSeen {
		bt.LastSeen = obs.Timestamp
	}
	if obs.Submitter != "" {
		if _, dup := a.branchUserSeen[obs.Branch][sig][obs.Submitter]; !dup {
			a.branchUserSeen[obs.Branch][sig][obs.Submitter] = struct{}{}
			bt.Users = append(bt.Users, obs.Submitter)
		}
	}
}
