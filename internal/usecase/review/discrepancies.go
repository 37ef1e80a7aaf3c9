package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
)

type DiscrepanciesInput struct {
	CampaignID uint64
	SKUFilter  string
	// MinVotes drops SKUs whose leading proposal got fewer votes. Zero means
	// keep everything.
	MinVotes int
}

// Discrepancy is the audit view of one SKU whose field reports diverge from
// the snapshot baseline: the leading proposal, all variants and the
// per-branch majorities.
type Discrepancy struct {
	SKU         string                   `json:"sku"`
	CampaignID  uint64                   `json:"campaign_id"`
	InMaster    bool                     `json:"in_master"`
	Description string                   `json:"description"`
	Baseline    *catalog.CodeSet         `json:"baseline,omitempty"`
	TotalScans  int                      `json:"total_scans"`
	LastSeen    string                   `json:"last_seen"`
	Branches    []string                 `json:"branches"`
	Top         Proposal                 `json:"top"`
	Proposals   []Proposal               `json:"proposals"`
	PerBranch   []catalog.BranchMajority `json:"per_branch,omitempty"`
}

// Discrepancies lists SKUs where the leading proposal disagrees with the
// snapshot baseline, or where the SKU has no baseline at all.
func (s *Service) Discrepancies(ctx context.Context, input DiscrepanciesInput) ([]Discrepancy, error) {
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
		observations = append(observations, observation(event))
	}

	aggregates := catalog.AggregateScans(observations)
	out := make([]Discrepancy, 0, len(aggregates))
	for _, agg := range aggregates {
		ranked := catalog.RankProposals(agg.Proposals)
		if len(ranked) == 0 || ranked[0].Count < input.MinVotes {
			continue
		}

		snap, inMaster := index[agg.SKU]
		if inMaster && ranked[0].Codes == snapshotCodes(snap) {
			continue
		}

		disc := Discrepancy{
			SKU:        agg.SKU,
			CampaignID: campaignID,
			TotalScans: agg.Total,
			LastSeen:   agg.LastSeen,
			Branches:   agg.Branches,
		}
		if inMaster {
			baseline := snapshotCodes(snap)
			disc.InMaster = true
			disc.Description = snap.Description
			disc.Baseline = &baseline
		}

		disc.Proposals = make([]Proposal, 0, len(ranked))
		for _, tally := range ranked {
			disc.Proposals = append(disc.Proposals, Proposal{
				Codes:    tally.Codes,
				Count:    tally.Count,
				Share:    share(tally.Count, agg.Total),
				Users:    tally.Users,
				Branches: tally.Branches,
			})
		}
		disc.Top = disc.Proposals[0]

		if conflict, ok := catalog.DetectBranchConflict(agg, 1); ok {
			disc.PerBranch = conflict.Majorities
		}

		out = append(out, disc)
	}

	return out, nil
}

// DiscrepanciesCSV renders the discrepancy listing as spreadsheet rows, one
// row per SKU with the baseline, winner and vote spread.
func (s *Service) DiscrepanciesCSV(ctx context.Context, input DiscrepanciesInput) ([][]string, error) {
	discrepancies, err := s.Discrepancies(ctx, input)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(discrepancies)+1)
	rows = append(rows, []string{
		"sku", "description", "in_master",
		"base_category", "base_type", "base_classification",
		"top_category", "top_type", "top_classification",
		"top_votes", "total_scans", "share", "branches", "last_seen",
	})

	for _, d := range discrepancies {
		var baseline catalog.CodeSet
		if d.Baseline != nil {
			baseline = *d.Baseline
		}
		rows = append(rows, []string{
			d.SKU,
			d.Description,
			fmt.Sprintf("%t", d.InMaster),
			baseline.Category,
			baseline.Type,
			baseline.Classification,
			d.Top.Codes.Category,
			d.Top.Codes.Type,
			d.Top.Codes.Classification,
			fmt.Sprintf("%d", d.Top.Count),
			fmt.Sprintf("%d", d.TotalScans),
			fmt.Sprintf("%.2f", d.Top.Share),
			strings.Join(d.Branches, " "),
			d.LastSeen,
		})
	}

	return rows, nil
}
