package review

import (
	"context"
	"errors"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type ListInput struct {
	// CampaignID 0 means the active campaign.
	CampaignID uint64
	SKUFilter  string
	// Consensus nil returns all SKUs, true only consensus reached, false only
	// contested ones.
	Consensus *bool
	// OnlyDiffs drops scans whose assumed codes match the snapshot baseline
	// before aggregation.
	OnlyDiffs bool
}

// Proposal is one ranked candidate in a review item, annotated with the
// newest decision already taken on it, if any.
type Proposal struct {
	Codes    catalog.CodeSet       `json:"codes"`
	Count    int                   `json:"count"`
	Share    float64               `json:"share"`
	Users    []string              `json:"users,omitempty"`
	Branches []string              `json:"branches,omitempty"`
	Decision *ports.UpdateDecision `json:"decision,omitempty"`
}

// Item is one SKU's review line: the snapshot baseline, the ranked proposals
// and the consensus verdict.
type Item struct {
	SKU          string           `json:"sku"`
	CampaignID   uint64           `json:"campaign_id"`
	InMaster     bool             `json:"in_master"`
	Description  string           `json:"description"`
	Baseline     *catalog.CodeSet `json:"baseline,omitempty"`
	TotalVotes   int              `json:"total_votes"`
	LastSeen     string           `json:"last_seen"`
	Branches     []string         `json:"branches"`
	Proposals    []Proposal       `json:"proposals"`
	HasConsensus bool             `json:"has_consensus"`
	Ratio        float64          `json:"ratio"`
}

// ListReview builds the admin review queue: per-SKU ranked proposals with the
// consensus verdict and any decision already recorded per proposal.
func (s *Service) ListReview(ctx context.Context, input ListInput) ([]Item, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	campaignID, err := s.resolveCampaignID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	events, err := s.scans.ListByCampaign(ctx, campaignID, input.SKUFilter)
	if err != nil {
		return nil, err
	}

	index, err := s.snapshotIndex(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	observations := make([]catalog.ScanObservation, 0, len(events))
	for _, event := range events {
		obs := observation(event)
		if input.OnlyDiffs {
			snap, inMaster := index[event.SKU]
			if inMaster && obs.Codes == snapshotCodes(snap) {
				continue
			}
		}
		observations = append(observations, obs)
	}

	decisionIdx, err := s.decisionIndex(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	aggregates := catalog.AggregateScans(observations)
	items := make([]Item, 0, len(aggregates))
	for _, agg := range aggregates {
		consensus := catalog.EvaluateConsensus(agg.Proposals)
		if input.Consensus != nil && consensus.HasConsensus != *input.Consensus {
			continue
		}

		item := Item{
			SKU:          agg.SKU,
			CampaignID:   campaignID,
			TotalVotes:   agg.Total,
			LastSeen:     agg.LastSeen,
			Branches:     agg.Branches,
			HasConsensus: consensus.HasConsensus,
			Ratio:        consensus.Ratio,
		}
		if snap, inMaster := index[agg.SKU]; inMaster {
			baseline := snapshotCodes(snap)
			item.InMaster = true
			item.Description = snap.Description
			item.Baseline = &baseline
		}

		item.Proposals = make([]Proposal, 0, len(consensus.Ranked))
		for _, tally := range consensus.Ranked {
			proposal := Proposal{
				Codes:    tally.Codes,
				Count:    tally.Count,
				Share:    share(tally.Count, agg.Total),
				Users:    tally.Users,
				Branches: tally.Branches,
			}
			if dec, ok := decisionIdx[decisionKey(agg.SKU, tally.Codes)]; ok {
				proposal.Decision = dec
			}
			item.Proposals = append(item.Proposals, proposal)
		}

		items = append(items, item)
	}

	return items, nil
}

// decisionIndex keys the newest non-archived decision by SKU and proposed
// codes. The repository lists newest first, so the first hit wins.
func (s *Service) decisionIndex(ctx context.Context, campaignID uint64) (map[string]*ports.UpdateDecision, error) {
	notArchived := false
	decisions, err := s.decisions.List(ctx, ports.DecisionFilter{
		CampaignID: campaignID,
		Archived:   &notArchived,
	})
	if err != nil {
		return nil, err
	}

	index := make(map[string]*ports.UpdateDecision, len(decisions))
	for i := range decisions {
		dec := &decisions[i]
		key := decisionKey(dec.SKU, catalog.CodeSet{
			Category:       dec.NewCategoryCode,
			Type:           dec.NewTypeCode,
			Classification: dec.NewClassificationCode,
		})
		if _, seen := index[key]; !seen {
			index[key] = dec
		}
	}
	return index, nil
}

func decisionKey(sku string, codes catalog.CodeSet) string {
	return sku + "\x00" + codes.Signature()
}
