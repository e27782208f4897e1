package web

// handlers_templates.go serves marketplace template import and the
// product type / field / valid value management endpoints.

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/covermaker/covermaker/internal/logging"
)

// productCodePattern restricts template codes to safe identifier characters.
var productCodePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// handleImportTemplate accepts a multipart upload with a "file" workbook and
// a "product_code" form value, and replaces that product type's catalog.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		s.badRequest(w, "could not parse upload: "+err.Error())
		return
	}

	code := r.FormValue("product_code")
	if !productCodePattern.MatchString(code) {
		s.badRequest(w, "product_code must be lowercase letters, digits and underscores")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, "no workbook file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("template import requested",
		"product_code", code,
		"file_name", header.Filename,
		"size", len(data))

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	result, err := s.importer.Import(ctx, data, code)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListProductTypes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ProductTypeByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProductType(r.Context(), chi.URLParam(r, "code")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTemplateFields(w http.ResponseWriter, r *http.Request) {
	pt, err := s.store.ProductTypeByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	fields, err := s.store.FieldsByProductType(r.Context(), pt.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleTemplateHeaderRows(w http.ResponseWriter, r *http.Request) {
	pt, err := s.store.ProductTypeByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product_code": pt.Code,
		"header_rows":  pt.HeaderRows,
	})
}

func (s *Server) handleTemplateKeywords(w http.ResponseWriter, r *http.Request) {
	pt, err := s.store.ProductTypeByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	keywords, err := s.store.KeywordsByProductType(r.Context(), pt.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, keywords)
}

// ---------------------------------------------------------------------------
// Field settings
// ---------------------------------------------------------------------------

// optionalString distinguishes an absent key (leave unchanged) from an
// explicit null (clear the value). UnmarshalJSON only runs when the key is
// present, including for a JSON null.
type optionalString struct {
	set   bool
	value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

type patchFieldRequest struct {
	Required      *bool          `json:"required"`
	SelectedValue optionalString `json:"selected_value"`
	CustomValue   optionalString `json:"custom_value"`
}

func (s *Server) handlePatchField(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req patchFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	var selected, custom **string
	if req.SelectedValue.set {
		selected = &req.SelectedValue.value
	}
	if req.CustomValue.set {
		custom = &req.CustomValue.value
	}

	out, err := s.store.UpdateFieldSettings(r.Context(), id, req.Required, selected, custom)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListFieldValues(w http.ResponseWriter, r *http.Request) {
	fieldID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.ValidValuesForField(r.Context(), fieldID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type addValueRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleAddFieldValue(w http.ResponseWriter, r *http.Request) {
	fieldID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	var req addValueRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.Value == "" {
		s.badRequest(w, "value is required")
		return
	}
	out, err := s.store.AddValidValue(r.Context(), fieldID, req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeleteFieldValue(w http.ResponseWriter, r *http.Request) {
	fieldID, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	valueID, err := idParam(r, "valueID")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteValidValue(r.Context(), fieldID, valueID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Equipment type links
// ---------------------------------------------------------------------------

type templateLinkRequest struct {
	EquipmentTypeID int64 `json:"equipment_type_id"`
	ProductTypeID   int64 `json:"product_type_id"`
}

func (s *Server) handleListTemplateLinks(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListEquipmentTypeLinks(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTemplateLink(w http.ResponseWriter, r *http.Request) {
	var req templateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.EquipmentTypeID <= 0 || req.ProductTypeID <= 0 {
		s.badRequest(w, "equipment_type_id and product_type_id are required")
		return
	}
	out, err := s.store.CreateEquipmentTypeLink(r.Context(), req.EquipmentTypeID, req.ProductTypeID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// handleProductTypeForEquipmentType reports which product type governs an
// equipment type's exports. Responds with null when no link exists.
func (s *Server) handleProductTypeForEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	out, err := s.store.ProductTypeForEquipmentType(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTemplateLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteEquipmentTypeLink(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
