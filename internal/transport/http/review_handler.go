package http

import (
	"net/http"

	"scanrecon/internal/usecase/masterdata"
	"scanrecon/internal/usecase/review"
)

func (h Handlers) listReview(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	consensus, err := queryBoolPtr(r, "consensus")
	if err != nil {
		writeError(w, r, err)
		return
	}
	onlyDiffs, err := queryBool(r, "only_diffs", true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.Reviews.ListReview(r.Context(), review.ListInput{
		CampaignID: campaignID,
		SKUFilter:  r.URL.Query().Get("sku"),
		Consensus:  consensus,
		OnlyDiffs:  onlyDiffs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h Handlers) discrepanciesInput(r *http.Request) (review.DiscrepanciesInput, error) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		return review.DiscrepanciesInput{}, err
	}
	minVotes, err := queryInt(r, "min_votes")
	if err != nil {
		return review.DiscrepanciesInput{}, err
	}
	return review.DiscrepanciesInput{
		CampaignID: campaignID,
		SKUFilter:  r.URL.Query().Get("sku"),
		MinVotes:   minVotes,
	}, nil
}

func (h Handlers) listDiscrepancies(w http.ResponseWriter, r *http.Request) {
	input, err := h.discrepanciesInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.Reviews.Discrepancies(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h Handlers) exportDiscrepanciesCSV(w http.ResponseWriter, r *http.Request) {
	input, err := h.discrepanciesInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := h.Reviews.DiscrepanciesCSV(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := masterdata.ToCSV(rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, "discrepancies.csv", data)
}

func (h Handlers) listBranchConflicts(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	minBranches, err := queryInt(r, "min_branches")
	if err != nil {
		writeError(w, r, err)
		return
	}

	conflicts, err := h.Reviews.BranchConflicts(r.Context(), review.ConflictsInput{
		CampaignID:  campaignID,
		SKUFilter:   r.URL.Query().Get("sku"),
		MinBranches: minBranches,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conflicts)
}
