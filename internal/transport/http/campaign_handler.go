package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scanrecon/internal/usecase/campaign"
)

type createCampaignRequest struct {
	Name                 string `json:"name"`
	StartsAt             string `json:"starts_at"`
	EndsAt               string `json:"ends_at"`
	CategoryTarget       string `json:"category_target"`
	TypeTarget           string `json:"type_target"`
	ClassificationTarget string `json:"classification_target"`
	Activate             bool   `json:"activate"`
}

func (h Handlers) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Campaigns.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h Handlers) createCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.Campaigns.Create(r.Context(), campaign.CreateInput{
		Name:                 req.Name,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		CategoryTarget:       req.CategoryTarget,
		TypeTarget:           req.TypeTarget,
		ClassificationTarget: req.ClassificationTarget,
		Activate:             req.Activate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h Handlers) activateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	activated, err := h.Campaigns.Activate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activated)
}

func (h Handlers) getActiveCampaign(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Campaigns.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, c := range campaigns {
		if c.Active {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorBody{Error: "no active campaign"})
}
