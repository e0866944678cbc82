package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pe-insights-go/internal/facet"
	"pe-insights-go/internal/report"
	"pe-insights-go/internal/store"
	"pe-insights-go/internal/types"
	"pe-insights-go/internal/view"
)

const maxUploadBytes = 32 << 20

func allowedUpload(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// handleUpload accepts the company spreadsheet, registers a Pending history
// entry, and kicks off the background analysis.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithRequest(r).WithField("handler", "upload")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no selected file")
		return
	}
	if !allowedUpload(header.Filename) {
		writeError(w, http.StatusBadRequest, "invalid file type, upload an Excel file (.xlsx or .xls)")
		return
	}

	// unique name so concurrent uploads never collide
	path := filepath.Join(s.store.UploadsDir(), fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(header.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		log.WithError(err).Error("saving upload failed")
		writeError(w, http.StatusInternalServerError, "could not save uploaded file")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		log.WithError(err).Error("writing upload failed")
		writeError(w, http.StatusInternalServerError, "could not save uploaded file")
		return
	}
	dst.Close()
	log.WithField("path", path).Info("file uploaded")

	names, err := report.LoadCompanyNames(path)
	if err != nil {
		log.WithError(err).Warn("unusable spreadsheet")
		writeError(w, http.StatusBadRequest, fmt.Sprintf("spreadsheet has no usable company names: %v", err))
		return
	}

	reportID := uuid.New().String()
	reportName := fmt.Sprintf("Analysis Report - %s", time.Now().Format("2006-01-02 15:04:05"))
	entry := types.HistoryEntry{
		ID:           reportID,
		Name:         reportName,
		Date:         time.Now().Format(time.RFC3339),
		Status:       types.StatusPending,
		NumCompanies: len(names),
	}
	if err := s.store.PrependHistory(entry); err != nil {
		log.WithError(err).Error("recording history failed")
		writeError(w, http.StatusInternalServerError, "could not record analysis history")
		return
	}

	go s.runner.Run(context.Background(), reportID, reportName, names)
	log.WithField("report_id", reportID).WithField("companies", len(names)).Info("analysis started")

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "File uploaded and analysis started. Check the history for status.",
		"report_id":   reportID,
		"report_name": reportName,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.History())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, e := range s.store.History() {
		if e.ID == id {
			writeJSON(w, http.StatusOK, map[string]string{"status": e.Status})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"status": "Unknown"})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.store.LoadReport(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.log.WithRequest(r).WithError(err).Error("loading report failed")
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.DeleteReport(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found or could not be deleted")
		return
	}
	if err != nil {
		s.log.WithRequest(r).WithError(err).Error("deleting report failed")
		writeError(w, http.StatusInternalServerError, "could not delete report")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted successfully"})
}

// handleView runs the exploration engine server-side: search and filter query
// params become a view state, and the response is the derived summary plus the
// visible record subset. Filters arrive as repeated filter=key:value params.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.store.LoadReport(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.log.WithRequest(r).WithError(err).Error("loading report failed")
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	st := view.NewState().SetSearchTerm(r.URL.Query().Get("search"))
	for _, raw := range r.URL.Query()["filter"] {
		keyStr, value, ok := strings.Cut(raw, ":")
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed filter %q, want key:value", raw))
			return
		}
		key, err := facet.ParseKey(keyStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		st = st.AddFilter(key, value)
	}

	writeJSON(w, http.StatusOK, view.Derive(rep, st))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := s.log.WithRequest(r).WithField("handler", "download")

	rep, err := s.store.LoadReport(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("loading report failed")
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	tmp, err := os.CreateTemp("", "report-*.xlsx")
	if err != nil {
		log.WithError(err).Error("temp file failed")
		writeError(w, http.StatusInternalServerError, "could not generate report file")
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := report.ExportXLSX(rep, tmp.Name()); err != nil {
		log.WithError(err).Error("export failed")
		writeError(w, http.StatusInternalServerError, "could not generate report file")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Analysis_Report_%s.xlsx"`, id))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, tmp.Name())
}

type settingsPayload struct {
	LLMAPIKey string   `json:"llm_api_key"`
	PEFirms   []string `json:"pe_firms,omitempty"`
}

// Settings GET includes the API key; the service is intended for local
// operation only (no authentication by design).
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.store.Settings()
	writeJSON(w, http.StatusOK, settingsPayload{
		LLMAPIKey: settings.LLMAPIKey,
		PEFirms:   s.store.PEFirms(),
	})
}

func (s *Server) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := decodeJSONBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "no settings data provided")
		return
	}
	if err := s.store.SaveSettings(types.Settings{LLMAPIKey: payload.LLMAPIKey}); err != nil {
		s.log.WithRequest(r).WithError(err).Error("saving settings failed")
		writeError(w, http.StatusInternalServerError, "could not save settings")
		return
	}
	if payload.PEFirms != nil {
		if err := s.store.SavePEFirms(payload.PEFirms); err != nil {
			s.log.WithRequest(r).WithError(err).Error("saving PE firms failed")
			writeError(w, http.StatusInternalServerError, "could not save PE firms list")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Settings updated successfully"})
}

func (s *Server) handleGetPEFirms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.PEFirms())
}

func (s *Server) handlePostPEFirms(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PEFirms []string `json:"pe_firms"`
	}
	if err := decodeJSONBody(r, &payload); err != nil || payload.PEFirms == nil {
		writeError(w, http.StatusBadRequest, "invalid format for PE firms, must be a list")
		return
	}
	if err := s.store.SavePEFirms(payload.PEFirms); err != nil {
		s.log.WithRequest(r).WithError(err).Error("saving PE firms failed")
		writeError(w, http.StatusInternalServerError, "could not save PE firms list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Private equity firms list updated successfully"})
}

func decodeJSONBody(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
