package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scanrecon/internal/bootstrap/config"
	"scanrecon/internal/usecase/campaign"
	"scanrecon/internal/usecase/decision"
	"scanrecon/internal/usecase/masterdata"
	"scanrecon/internal/usecase/review"
	"scanrecon/internal/usecase/scan"
)

// Handlers bundles the services the HTTP surface fronts.
type Handlers struct {
	Campaigns  *campaign.Service
	Scans      *scan.Service
	Reviews    *review.Service
	Decisions  *decision.Service
	MasterData *masterdata.Service
}

// NewRouter wires the public scanning surface and the token-guarded admin
// surface.
func NewRouter(cfg config.HTTPConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public surface used by the scanning devices.
	r.Route("/api", func(r chi.Router) {
		r.Get("/campaigns/active", h.getActiveCampaign)
		r.Post("/scans", h.postScan)
		r.Get("/master/{sku}", h.getMasterEntry)
		r.Get("/dictionaries", h.getDictionaries)
	})

	// Admin surface.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(adminAuth(cfg.AdminToken))

		r.Get("/campaigns", h.listCampaigns)
		r.Post("/campaigns", h.createCampaign)
		r.Post("/campaigns/{id}/activate", h.activateCampaign)

		r.Get("/review", h.listReview)
		r.Get("/review/discrepancies", h.listDiscrepancies)
		r.Get("/review/discrepancies.csv", h.exportDiscrepanciesCSV)
		r.Get("/review/conflicts", h.listBranchConflicts)

		r.Get("/decisions", h.listDecisions)
		r.Post("/decisions", h.postDecision)
		r.Post("/decisions/apply", h.applyDecisions)
		r.Post("/decisions/archive", h.archiveDecisions)
		r.Delete("/decisions/{id}", h.undoDecision)
		r.Post("/decisions/{id}/revert", h.revertDecision)
		r.Get("/decisions/export.csv", h.exportDecisionsCSV)
		r.Get("/decisions/export.txt", h.exportDecisionField)

		r.Post("/master/import", h.importMasterCSV)
		r.Get("/master/export.csv", h.exportMasterCSV)
		r.Post("/dictionaries/{kind}/import", h.importDictionaryCSV)
	})

	return r
}
