package http

import (
	"net/http"

	"scanrecon/internal/usecase/scan"
)

type submitScanRequest struct {
	CampaignID              uint64 `json:"campaign_id"`
	SKU                     string `json:"sku"`
	Branch                  string `json:"branch"`
	Email                   string `json:"email"`
	SuggestedCategory       string `json:"suggested_category"`
	SuggestedType           string `json:"suggested_type"`
	SuggestedClassification string `json:"suggested_classification"`
}

type submitScanResponse struct {
	ScanID      uint64 `json:"scan_id"`
	SKU         string `json:"sku"`
	Status      string `json:"status"`
	InMaster    bool   `json:"in_master"`
	Description string `json:"description,omitempty"`

	BaselineCategory       string `json:"baseline_category,omitempty"`
	BaselineType           string `json:"baseline_type,omitempty"`
	BaselineClassification string `json:"baseline_classification,omitempty"`

	AssumedCategory       string `json:"assumed_category"`
	AssumedType           string `json:"assumed_type"`
	AssumedClassification string `json:"assumed_classification"`
}

func (h Handlers) postScan(w http.ResponseWriter, r *http.Request) {
	var req submitScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Scans.Submit(r.Context(), scan.SubmitInput{
		CampaignID:              req.CampaignID,
		RawSKU:                  req.SKU,
		Branch:                  req.Branch,
		SubmitterEmail:          req.Email,
		SuggestedCategory:       req.SuggestedCategory,
		SuggestedType:           req.SuggestedType,
		SuggestedClassification: req.SuggestedClassification,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitScanResponse{
		ScanID:                 result.Event.ScanID,
		SKU:                    result.Event.SKU,
		Status:                 string(result.Status),
		InMaster:               result.InMaster,
		Description:            result.Description,
		BaselineCategory:       result.Baseline.Category,
		BaselineType:           result.Baseline.Type,
		BaselineClassification: result.Baseline.Classification,
		AssumedCategory:        result.Assumed.Category,
		AssumedType:            result.Assumed.Type,
		AssumedClassification:  result.Assumed.Classification,
	})
}
