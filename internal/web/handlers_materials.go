package web

// handlers_materials.go serves materials, colour surcharges and suppliers.

import (
	"net/http"

	"github.com/covermaker/covermaker/internal/catalog"
)

type materialRequest struct {
	Name                string  `json:"name"`
	BaseColor           string  `json:"base_color"`
	LinearYardWidth     float64 `json:"linear_yard_width"`
	CostPerLinearYard   float64 `json:"cost_per_linear_yard"`
	WeightPerLinearYard float64 `json:"weight_per_linear_yard"`
	LaborTimeMinutes    float64 `json:"labor_time_minutes"`
}

func (req *materialRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.LinearYardWidth <= 0:
		return "linear_yard_width must be positive"
	case req.CostPerLinearYard < 0 || req.WeightPerLinearYard < 0 || req.LaborTimeMinutes < 0:
		return "cost, weight and labour values must be non-negative"
	}
	return ""
}

func (req *materialRequest) toMaterial(id int64) *catalog.Material {
	return &catalog.Material{
		ID:                  id,
		Name:                req.Name,
		BaseColor:           req.BaseColor,
		LinearYardWidth:     req.LinearYardWidth,
		CostPerLinearYard:   req.CostPerLinearYard,
		WeightPerLinearYard: req.WeightPerLinearYard,
		LaborTimeMinutes:    req.LaborTimeMinutes,
	}
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListMaterials(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.badRequest(w, msg)
		return
	}
	out, err := s.store.CreateMaterial(r.Context(), req.toMaterial(0))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.MaterialByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req materialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.badRequest(w, msg)
		return
	}
	out, err := s.store.UpdateMaterial(r.Context(), req.toMaterial(id))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteMaterial(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Colour surcharges
// ---------------------------------------------------------------------------

type colourSurchargeRequest struct {
	Colour    string  `json:"colour"`
	Surcharge float64 `json:"surcharge"`
}

func (s *Server) handleListColourSurcharges(w http.ResponseWriter, r *http.Request) {
	materialID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.ColourSurcharges(r.Context(), materialID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddColourSurcharge(w http.ResponseWriter, r *http.Request) {
	materialID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req colourSurchargeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Colour == "" {
		s.badRequest(w, "colour is required")
		return
	}
	out, err := s.store.AddColourSurcharge(r.Context(), materialID, req.Colour, req.Surcharge)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteColourSurcharge(w http.ResponseWriter, r *http.Request) {
	materialID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	surchargeID, err := idParam(r, "surchargeID")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteColourSurcharge(r.Context(), materialID, surchargeID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Suppliers
// ---------------------------------------------------------------------------

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListSuppliers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreateSupplier(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.SupplierByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
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
	out, err := s.store.UpdateSupplier(r.Context(), id, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteSupplier(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSupplierMaterials(w http.ResponseWriter, r *http.Request) {
	supplierID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.SupplierMaterials(r.Context(), supplierID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type supplierMaterialRequest struct {
	UnitCost float64 `json:"unit_cost"`
}

func (s *Server) handleSetSupplierMaterial(w http.ResponseWriter, r *http.Request) {
	supplierID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	materialID, err := idParam(r, "materialID")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req supplierMaterialRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.UnitCost < 0 {
		s.badRequest(w, "unit_cost must be non-negative")
		return
	}
	out, err := s.store.SetSupplierMaterial(r.Context(), supplierID, materialID, req.UnitCost)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
