package web

// handlers_orders.go serves customers and orders. Order lines are priced
// through the pricing engine at creation time so the stored unit price
// reflects the catalog as it was when the order came in.

import (
	"net/http"
	"time"

	"github.com/covermaker/covermaker/internal/catalog"
	"github.com/covermaker/covermaker/internal/pricing"
)

type customerRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.CreateCustomer(r.Context(), catalog.Customer{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.CustomerByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		s.badRequest(w, "name is required")
		return
	}
	out, err := s.store.UpdateCustomer(r.Context(), catalog.Customer{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type orderLineRequest struct {
	ModelID         int64   `json:"model_id"`
	MaterialID      int64   `json:"material_id"`
	Colour          *string `json:"colour"`
	Quantity        int     `json:"quantity"`
	HandleZipper    bool    `json:"handle_zipper"`
	TwoInOnePocket  bool    `json:"two_in_one_pocket"`
	MusicRestZipper bool    `json:"music_rest_zipper"`
	Carrier         string  `json:"carrier"`
	Zone            string  `json:"zone"`
}

type orderRequest struct {
	CustomerID             int64              `json:"customer_id"`
	Marketplace            *string            `json:"marketplace"`
	MarketplaceOrderNumber *string            `json:"marketplace_order_number"`
	Lines                  []orderLineRequest `json:"lines"`
}

type orderResponse struct {
	catalog.Order
	Lines []catalog.OrderLine `json:"lines"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListOrders(r.Context(), queryInt64(r, "customer_id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.CustomerID <= 0 {
		s.badRequest(w, "customer_id is required")
		return
	}
	if len(req.Lines) == 0 {
		s.badRequest(w, "an order needs at least one line")
		return
	}

	var marketplace *catalog.Marketplace
	if req.Marketplace != nil {
		m := catalog.Marketplace(*req.Marketplace)
		if !m.Valid() {
			s.badRequest(w, "invalid marketplace")
			return
		}
		marketplace = &m
	}

	lines := make([]catalog.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		carrier := catalog.Carrier(l.Carrier)
		if !carrier.Valid() {
			s.badRequest(w, "invalid carrier on order line")
			return
		}

		breakdown, err := s.engine.Calculate(r.Context(), pricing.Request{
			ModelID:         l.ModelID,
			MaterialID:      l.MaterialID,
			Colour:          l.Colour,
			Quantity:        l.Quantity,
			HandleZipper:    l.HandleZipper,
			TwoInOnePocket:  l.TwoInOnePocket,
			MusicRestZipper: l.MusicRestZipper,
			Carrier:         carrier,
			Zone:            l.Zone,
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		unitPrice := breakdown.UnitTotal
		lines = append(lines, catalog.OrderLine{
			ModelID:         l.ModelID,
			MaterialID:      l.MaterialID,
			Colour:          l.Colour,
			Quantity:        l.Quantity,
			HandleZipper:    l.HandleZipper,
			TwoInOnePocket:  l.TwoInOnePocket,
			MusicRestZipper: l.MusicRestZipper,
			UnitPrice:       &unitPrice,
		})
	}

	order, created, err := s.store.CreateOrder(r.Context(), catalog.Order{
		CustomerID:             req.CustomerID,
		Marketplace:            marketplace,
		MarketplaceOrderNumber: req.MarketplaceOrderNumber,
		OrderDate:              time.Now().UTC(),
	}, lines)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Order: *order, Lines: created})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	order, err := s.store.OrderByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	lines, err := s.store.OrderLines(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: *order, Lines: lines})
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteOrder(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
