package handlers

import (
	"net/http"
	"transport-report-service/internal/api/dto"
	"transport-report-service/internal/ports"
)

// SiteHandler lists the configured sites.
type SiteHandler struct {
	Sites ports.SiteCatalog
}

func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	sites := h.Sites.All()

	res := dto.ListSitesResponse{Sites: make([]dto.SiteResponse, 0, len(sites))}
	for _, s := range sites {
		shifts := make([]string, 0, len(s.Shifts))
		for _, sh := range s.Shifts {
			shifts = append(shifts, sh.Name)
		}
		res.Sites = append(res.Sites, dto.SiteResponse{Key: s.Key, Name: s.Name, Shifts: shifts})
	}

	writeJSON(w, r, http.StatusOK, res)
}
