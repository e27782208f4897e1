package web

// handlers_enums.go exposes the closed enum vocabularies for client
// dropdowns.

import (
	"net/http"

	"github.com/covermaker/covermaker/internal/catalog"
)

func (s *Server) handleHandleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.HandleLocations())
}

func (s *Server) handleAngleTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.AngleTypes())
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Carriers())
}

func (s *Server) handleMarketplaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Marketplaces())
}
