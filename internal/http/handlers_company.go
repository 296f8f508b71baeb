package http

import (
	"log/slog"
	"net/http"
	"strings"

	"truckbooks/internal/core"
)

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	profile, err := s.repo.GetCompanyProfile(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read company profile", "error", err)
		writeError(w, http.StatusInternalServerError, "error reading company profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handlePutCompany overwrites the whole profile; there is no partial update.
func (s *Server) handlePutCompany(w http.ResponseWriter, r *http.Request) {
	var req core.CompanyProfile
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.CarrierID = strings.TrimSpace(req.CarrierID)
	req.NotificationEmail = strings.TrimSpace(req.NotificationEmail)

	if err := s.repo.SetCompanyProfile(r.Context(), req); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save company profile", "error", err)
		writeError(w, http.StatusInternalServerError, "error saving company profile")
		return
	}
	writeJSON(w, http.StatusOK, req)
}
