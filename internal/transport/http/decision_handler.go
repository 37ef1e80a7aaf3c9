package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/ports"
	"scanrecon/internal/usecase/decision"
	"scanrecon/internal/usecase/masterdata"
)

type decideRequest struct {
	CampaignID     uint64 `json:"campaign_id"`
	SKU            string `json:"sku"`
	Category       string `json:"category"`
	Type           string `json:"type"`
	Classification string `json:"classification"`
	Decision       string `json:"decision"`
	DecidedBy      string `json:"decided_by"`
	ApplyNow       bool   `json:"apply_now"`
	Notes          string `json:"notes"`
}

type decisionBatchRequest struct {
	DecisionIDs []uint64 `json:"decision_ids"`
	Archived    *bool    `json:"archived,omitempty"`
	By          string   `json:"by"`
}

func (h Handlers) listDecisions(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	archived, err := queryBoolPtr(r, "archived")
	if err != nil {
		writeError(w, r, err)
		return
	}

	decisions, err := h.Decisions.List(r.Context(), ports.DecisionFilter{
		CampaignID: campaignID,
		SKU:        r.URL.Query().Get("sku"),
		Status:     r.URL.Query().Get("status"),
		Archived:   archived,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (h Handlers) postDecision(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.Decisions.Decide(r.Context(), decision.DecideInput{
		CampaignID: req.CampaignID,
		RawSKU:     req.SKU,
		Proposal: catalog.CodeSet{
			Category:       req.Category,
			Type:           req.Type,
			Classification: req.Classification,
		},
		Verdict:   req.Decision,
		DecidedBy: req.DecidedBy,
		ApplyNow:  req.ApplyNow,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h Handlers) applyDecisions(w http.ResponseWriter, r *http.Request) {
	var req decisionBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	applied, err := h.Decisions.ApplyBatch(r.Context(), decision.ApplyBatchInput{
		DecisionIDs: req.DecisionIDs,
		DecidedBy:   req.By,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"applied": applied})
}

func (h Handlers) archiveDecisions(w http.ResponseWriter, r *http.Request) {
	var req decisionBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	archived := true
	if req.Archived != nil {
		archived = *req.Archived
	}

	changed, err := h.Decisions.Archive(r.Context(), decision.ArchiveInput{
		DecisionIDs: req.DecisionIDs,
		Archived:    archived,
		ArchivedBy:  req.By,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"changed": changed})
}

func (h Handlers) undoDecision(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Decisions.Undo(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"undone": true})
}

func (h Handlers) revertDecision(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.Decisions.Revert(r.Context(), id, r.URL.Query().Get("by"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h Handlers) exportDecisionsCSV(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := h.Decisions.ExportCSV(r.Context(), campaignID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := masterdata.ToCSV(rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, "decisions.csv", data)
}

func (h Handlers) exportDecisionField(w http.ResponseWriter, r *http.Request) {
	campaignID, err := queryUint(r, "campaign_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	includeArchived, err := queryBool(r, "include_archived", false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := h.Decisions.ExportFieldTXT(r.Context(), decision.FieldExportInput{
		CampaignID:      campaignID,
		Field:           r.URL.Query().Get("field"),
		Status:          r.URL.Query().Get("status"),
		IncludeArchived: includeArchived,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTXT(w, "updates.txt", body)
}
