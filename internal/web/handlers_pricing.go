package web

// handlers_pricing.go serves the pricing engine, pricing/design options and
// the shipping rate table.

import (
	"net/http"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/pricing"
)

func (s *Server) handlePricingCalculate(w http.ResponseWriter, r *http.Request) {
	var req pricing.Request
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.ModelID <= 0 || req.MaterialID <= 0 {
		s.badRequest(w, "model_id and material_id are required")
		return
	}
	if !req.Carrier.Valid() {
		s.badRequest(w, "invalid carrier")
		return
	}
	breakdown, err := s.engine.Calculate(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// ---------------------------------------------------------------------------
// Pricing options
// ---------------------------------------------------------------------------

type pricingOptionRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (s *Server) handleListPricingOptions(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListPricingOptions(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePricingOption(w http.ResponseWriter, r *http.Request) {
	var req pricingOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreatePricingOption(r.Context(), req.Name, req.Price)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleUpdatePricingOption(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req pricingOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.UpdatePricingOption(r.Context(), id, req.Name, req.Price)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePricingOption(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeletePricingOption(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Option assignments per equipment type
// ---------------------------------------------------------------------------

type assignOptionsRequest struct {
	OptionIDs []int64 `json:"option_ids"`
}

func (s *Server) handleEquipmentTypePricingOptions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.PricingOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAssignPricingOptions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req assignOptionsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.AssignPricingOptions(r.Context(), id, req.OptionIDs); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEquipmentTypeDesignOptions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.DesignOptionsForEquipmentType(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAssignDesignOptions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req assignOptionsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.AssignDesignOptions(r.Context(), id, req.OptionIDs); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Design options
// ---------------------------------------------------------------------------

type designOptionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (s *Server) handleListDesignOptions(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListDesignOptions(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDesignOption(w http.ResponseWriter, r *http.Request) {
	var req designOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreateDesignOption(r.Context(), req.Name, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteDesignOption(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteDesignOption(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Shipping rates
// ---------------------------------------------------------------------------

type shippingRateRequest struct {
	Carrier   catalog.Carrier `json:"carrier"`
	MinWeight float64         `json:"min_weight"`
	MaxWeight float64         `json:"max_weight"`
	Zone      string          `json:"zone"`
	Rate      float64         `json:"rate"`
	Surcharge float64         `json:"surcharge"`
}

func (s *Server) handleListShippingRates(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListShippingRates(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateShippingRate(w http.ResponseWriter, r *http.Request) {
	var req shippingRateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	switch {
	case !req.Carrier.Valid():
		s.badRequest(w, "invalid carrier")
		return
	case req.Zone == "":
		s.badRequest(w, "zone is required")
		return
	case req.MinWeight < 0 || req.MaxWeight <= req.MinWeight:
		s.badRequest(w, "weight band must satisfy 0 <= min_weight < max_weight")
		return
	}
	out, err := s.store.CreateShippingRate(r.Context(), &catalog.ShippingRate{
		Carrier:   req.Carrier,
		MinWeight: req.MinWeight,
		MaxWeight: req.MaxWeight,
		Zone:      req.Zone,
		Rate:      req.Rate,
		Surcharge: req.Surcharge,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteShippingRate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteShippingRate(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
