package web

// handlers_catalog.go serves the manufacturer/series/equipment type/model
// hierarchy.

import (
	"net/http"

	"github.com/covermaker/covermaker/internal/catalog"
)

type nameRequest struct {
	Name string `json:"name"`
}

// ---------------------------------------------------------------------------
// Manufacturers
// ---------------------------------------------------------------------------

func (s *Server) handleListManufacturers(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListManufacturers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateManufacturer(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreateManufacturer(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetManufacturer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.ManufacturerByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateManufacturer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.UpdateManufacturer(r.Context(), id, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteManufacturer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteManufacturer(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Series
// ---------------------------------------------------------------------------

type seriesRequest struct {
	Name           string `json:"name"`
	ManufacturerID int64  `json:"manufacturer_id"`
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	var manufacturerID *int64
	if id := queryInt64(r, "manufacturer_id"); id > 0 {
		manufacturerID = &id
	}
	out, err := s.store.ListSeries(r.Context(), manufacturerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" || req.ManufacturerID <= 0 {
		s.badRequest(w, "name and manufacturer_id are required")
		return
	}
	out, err := s.store.CreateSeries(r.Context(), req.Name, req.ManufacturerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.SeriesByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req seriesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" || req.ManufacturerID <= 0 {
		s.badRequest(w, "name and manufacturer_id are required")
		return
	}
	out, err := s.store.UpdateSeries(r.Context(), id, req.Name, req.ManufacturerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteSeries(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Equipment types
// ---------------------------------------------------------------------------

type equipmentTypeRequest struct {
	Name             string `json:"name"`
	UsesAngleOptions bool   `json:"uses_angle_options"`
}

func (s *Server) handleListEquipmentTypes(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListEquipmentTypes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEquipmentType(w http.ResponseWriter, r *http.Request) {
	var req equipmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreateEquipmentType(r.Context(), req.Name, req.UsesAngleOptions)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.EquipmentTypeByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req equipmentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.UpdateEquipmentType(r.Context(), id, req.Name, req.UsesAngleOptions)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteEquipmentType(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Models
// ---------------------------------------------------------------------------

type modelRequest struct {
	Name            string                 `json:"name"`
	SeriesID        int64                  `json:"series_id"`
	EquipmentTypeID int64                  `json:"equipment_type_id"`
	Width           float64                `json:"width"`
	Depth           float64                `json:"depth"`
	Height          float64                `json:"height"`
	HandleLength    *float64               `json:"handle_length"`
	HandleWidth     *float64               `json:"handle_width"`
	HandleLocation  catalog.HandleLocation `json:"handle_location"`
	AngleType       catalog.AngleType      `json:"angle_type"`
	ImageURL        *string                `json:"image_url"`
	ParentSKU       *string                `json:"parent_sku"`
}

func (req *modelRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.SeriesID <= 0:
		return "series_id is required"
	case req.EquipmentTypeID <= 0:
		return "equipment_type_id is required"
	case req.Width <= 0 || req.Depth <= 0 || req.Height <= 0:
		return "width, depth and height must be positive"
	}
	if req.HandleLocation == "" {
		req.HandleLocation = catalog.NoAmpHandle
	}
	if req.AngleType == "" {
		req.AngleType = catalog.TopAngle
	}
	if !req.HandleLocation.Valid() {
		return "invalid handle_location"
	}
	if !req.AngleType.Valid() {
		return "invalid angle_type"
	}
	return ""
}

func (req *modelRequest) toModel(id int64) *catalog.Model {
	return &catalog.Model{
		ID:              id,
		Name:            req.Name,
		SeriesID:        req.SeriesID,
		EquipmentTypeID: req.EquipmentTypeID,
		Width:           req.Width,
		Depth:           req.Depth,
		Height:          req.Height,
		HandleLength:    req.HandleLength,
		HandleWidth:     req.HandleWidth,
		HandleLocation:  req.HandleLocation,
		AngleType:       req.AngleType,
		ImageURL:        req.ImageURL,
		ParentSKU:       req.ParentSKU,
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	var seriesID, equipmentTypeID *int64
	if id := queryInt64(r, "series_id"); id > 0 {
		seriesID = &id
	}
	if id := queryInt64(r, "equipment_type_id"); id > 0 {
		equipmentTypeID = &id
	}
	out, err := s.store.ListModels(r.Context(), seriesID, equipmentTypeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.badRequest(w, msg)
		return
	}
	out, err := s.store.CreateModel(r.Context(), req.toModel(0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.ModelByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateModel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req modelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.badRequest(w, msg)
		return
	}
	out, err := s.store.UpdateModel(r.Context(), req.toModel(id))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteModel(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
