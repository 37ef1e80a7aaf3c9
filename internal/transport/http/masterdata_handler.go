package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/masterdata"
)

const maxUploadBytes = 32 << 20

func (h Handlers) getMasterEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.MasterData.GetMaster(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h Handlers) getDictionaries(w http.ResponseWriter, r *http.Request) {
	dictionaries, err := h.MasterData.Dictionaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dictionaries)
}

// uploadBytes accepts either a multipart form with a "file" part or a raw
// CSV body.
func uploadBytes(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errs.Validationf("invalid multipart form: %v", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errs.Validationf("multipart form needs a file part")
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxUploadBytes))
	}
	return io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
}

func (h Handlers) importMasterCSV(w http.ResponseWriter, r *http.Request) {
	raw, err := uploadBytes(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := masterdata.ParseMasterCSV(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	written, err := h.MasterData.UpsertMaster(r.Context(), items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rows": written})
}

func (h Handlers) exportMasterCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.MasterData.ExportMasterCSV(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := masterdata.ToCSV(rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, "master.csv", data)
}

func (h Handlers) importDictionaryCSV(w http.ResponseWriter, r *http.Request) {
	raw, err := uploadBytes(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := masterdata.ParseDictionaryCSV(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	written, err := h.MasterData.UpsertDictionary(r.Context(), chi.URLParam(r, "kind"), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rows": written})
}
