package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"charforge-server/internal/middleware"
	"charforge-server/pkg/archive"
)

// filenameToken reduces an owner id to a header-safe filename fragment.
// Owner ids are caller-supplied and may hold quotes, spaces or separators
// that would break the Content-Disposition header.
func filenameToken(s string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, s)
	if token == "" {
		return "owner"
	}
	return token
}

// ExportJobs bundles the requesting owner's completed artifacts into a zip
// download.
func (a *App) ExportJobs(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	artifacts, err := a.Orch.Export(r.Context(), ownerID, 200)
	if err != nil {
		a.Logger.Error().Err(err).Msg("export failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export jobs")
		return
	}
	if len(artifacts) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no completed jobs to export")
		return
	}

	bundle, err := archive.Bundle(artifacts)
	if err != nil {
		a.Logger.Error().Err(err).Msg("bundle assembly failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filenameToken(ownerID)+"-jobs.zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bundle)
}
