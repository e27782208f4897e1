// Package web provides the HTTP server and JSON API for the cover catalog.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/covermaker/covermaker/internal/config"
	"github.com/covermaker/covermaker/internal/export"
	"github.com/covermaker/covermaker/internal/pricing"
	"github.com/covermaker/covermaker/internal/store"
	"github.com/covermaker/covermaker/internal/template"
	mw "github.com/covermaker/covermaker/internal/web/middleware"
)

// Server is the HTTP server for the cover catalog application.
type Server struct {
	store     *store.Store
	importer  *template.Importer
	assembler *export.Assembler
	engine    *pricing.Engine
	cfg       *config.Config
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server instance.
func NewServer(st *store.Store, importer *template.Importer, assembler *export.Assembler, engine *pricing.Engine, cfg *config.Config) *Server {
	s := &Server{
		store:     st,
		importer:  importer,
		assembler: assembler,
		engine:    engine,
		cfg:       cfg,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Enum vocabularies for client dropdowns
		r.Get("/enums/handle-locations", s.handleHandleLocations)
		r.Get("/enums/angle-types", s.handleAngleTypes)
		r.Get("/enums/carriers", s.handleCarriers)
		r.Get("/enums/marketplaces", s.handleMarketplaces)

		// Catalog hierarchy
		r.Get("/manufacturers", s.handleListManufacturers)
		r.Post("/manufacturers", s.handleCreateManufacturer)
		r.Get("/manufacturers/{id}", s.handleGetManufacturer)
		r.Put("/manufacturers/{id}", s.handleUpdateManufacturer)
		r.Delete("/manufacturers/{id}", s.handleDeleteManufacturer)

		r.Get("/series", s.handleListSeries)
		r.Post("/series", s.handleCreateSeries)
		r.Get("/series/{id}", s.handleGetSeries)
		r.Put("/series/{id}", s.handleUpdateSeries)
		r.Delete("/series/{id}", s.handleDeleteSeries)

		r.Get("/equipment-types", s.handleListEquipmentTypes)
		r.Post("/equipment-types", s.handleCreateEquipmentType)
		r.Get("/equipment-types/{id}", s.handleGetEquipmentType)
		r.Put("/equipment-types/{id}", s.handleUpdateEquipmentType)
		r.Delete("/equipment-types/{id}", s.handleDeleteEquipmentType)
		r.Get("/equipment-types/{id}/pricing-options", s.handleEquipmentTypePricingOptions)
		r.Put("/equipment-types/{id}/pricing-options", s.handleAssignPricingOptions)
		r.Get("/equipment-types/{id}/design-options", s.handleEquipmentTypeDesignOptions)
		r.Put("/equipment-types/{id}/design-options", s.handleAssignDesignOptions)

		r.Get("/models", s.handleListModels)
		r.Post("/models", s.handleCreateModel)
		r.Get("/models/{id}", s.handleGetModel)
		r.Put("/models/{id}", s.handleUpdateModel)
		r.Delete("/models/{id}", s.handleDeleteModel)

		// Materials and suppliers
		r.Get("/materials", s.handleListMaterials)
		r.Post("/materials", s.handleCreateMaterial)
		r.Get("/materials/{id}", s.handleGetMaterial)
		r.Put("/materials/{id}", s.handleUpdateMaterial)
		r.Delete("/materials/{id}", s.handleDeleteMaterial)
		r.Get("/materials/{id}/colour-surcharges", s.handleListColourSurcharges)
		r.Post("/materials/{id}/colour-surcharges", s.handleAddColourSurcharge)
		r.Delete("/materials/{id}/colour-surcharges/{surchargeID}", s.handleDeleteColourSurcharge)

		r.Get("/suppliers", s.handleListSuppliers)
		r.Post("/suppliers", s.handleCreateSupplier)
		r.Get("/suppliers/{id}", s.handleGetSupplier)
		r.Put("/suppliers/{id}", s.handleUpdateSupplier)
		r.Delete("/suppliers/{id}", s.handleDeleteSupplier)
		r.Get("/suppliers/{id}/materials", s.handleListSupplierMaterials)
		r.Put("/suppliers/{id}/materials/{materialID}", s.handleSetSupplierMaterial)

		// Pricing
		r.Post("/pricing/calculate", s.handlePricingCalculate)
		r.Get("/pricing/options", s.handleListPricingOptions)
		r.Post("/pricing/options", s.handleCreatePricingOption)
		r.Put("/pricing/options/{id}", s.handleUpdatePricingOption)
		r.Delete("/pricing/options/{id}", s.handleDeletePricingOption)
		r.Get("/pricing/design-options", s.handleListDesignOptions)
		r.Post("/pricing/design-options", s.handleCreateDesignOption)
		r.Delete("/pricing/design-options/{id}", s.handleDeleteDesignOption)
		r.Get("/pricing/shipping-rates", s.handleListShippingRates)
		r.Post("/pricing/shipping-rates", s.handleCreateShippingRate)
		r.Delete("/pricing/shipping-rates/{id}", s.handleDeleteShippingRate)

		// Marketplace templates
		r.Post("/templates/import", s.handleImportTemplate)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{code}", s.handleGetTemplate)
		r.Delete("/templates/{code}", s.handleDeleteTemplate)
		r.Get("/templates/{code}/fields", s.handleTemplateFields)
		r.Get("/templates/{code}/header-rows", s.handleTemplateHeaderRows)
		r.Get("/templates/{code}/keywords", s.handleTemplateKeywords)
		r.Patch("/templates/fields/{id}", s.handlePatchField)
		r.Get("/templates/fields/{id}/values", s.handleListFieldValues)
		r.Post("/templates/fields/{id}/values", s.handleAddFieldValue)
		r.Delete("/templates/fields/{id}/values/{valueID}", s.handleDeleteFieldValue)
		r.Get("/templates/links", s.handleListTemplateLinks)
		r.Post("/templates/links", s.handleCreateTemplateLink)
		r.Delete("/templates/links/{id}", s.handleDeleteTemplateLink)
		r.Get("/templates/equipment-type/{id}/product-type", s.handleProductTypeForEquipmentType)

		// Marketplace export
		r.Post("/export/preview", s.handleExportPreview)
		r.Post("/export/xlsx", s.handleExportXLSX)
		r.Post("/export/csv", s.handleExportCSV)

		// Customers and orders
		r.Get("/customers", s.handleListCustomers)
		r.Post("/customers", s.handleCreateCustomer)
		r.Get("/customers/{id}", s.handleGetCustomer)
		r.Put("/customers/{id}", s.handleUpdateCustomer)
		r.Delete("/customers/{id}", s.handleDeleteCustomer)

		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders/{id}", s.handleGetOrder)
		r.Delete("/orders/{id}", s.handleDeleteOrder)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
