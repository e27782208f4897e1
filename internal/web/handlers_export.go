package web

// handlers_export.go serves marketplace export: a JSON preview plus XLSX and
// CSV downloads of the same assembled result.

import (
	"net/http"

	"github.com/covermaker/covermaker/internal/export"
	"github.com/covermaker/covermaker/internal/logging"
	"github.com/covermaker/covermaker/internal/sheet"
)

type exportRequest struct {
	ModelIDs []int64 `json:"model_ids"`
	Listing  string  `json:"listing"`
}

// listingType defaults to individual listings when the client sends nothing.
func (req *exportRequest) listingType() export.ListingType {
	if req.Listing == string(export.ListingParent) {
		return export.ListingParent
	}
	return export.ListingIndividual
}

func (s *Server) buildExport(w http.ResponseWriter, r *http.Request) *export.Result {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, err.Error())
		return nil
	}
	result, err := s.assembler.Build(r.Context(), req.ModelIDs, req.listingType())
	if err != nil {
		s.respondError(w, r, err)
		return nil
	}
	return result
}

// handleExportPreview returns the assembled export as JSON without rendering
// a file, so the client can show the grid before download.
func (s *Server) handleExportPreview(w http.ResponseWriter, r *http.Request) {
	result := s.buildExport(w, r)
	if result == nil {
		return
	}

	columns := make([]string, len(result.Fields))
	for i, f := range result.Fields {
		columns[i] = f.FieldName
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"template_code": result.TemplateCode,
		"filename_base": result.FilenameBase,
		"header_rows":   result.HeaderRows,
		"columns":       columns,
		"rows":          result.Rows,
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	result := s.buildExport(w, r)
	if result == nil {
		return
	}

	f, err := sheet.WriteWorkbook("Template", result.HeaderRows, result.Rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FilenameBase+`.xlsx"`)
	if err := f.Write(w); err != nil {
		// Headers are already sent; log and give up on this response.
		logging.FromContext(r.Context()).Error("xlsx write failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result := s.buildExport(w, r)
	if result == nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FilenameBase+`.csv"`)
	if err := sheet.WriteCSV(w, result.HeaderRows, result.Rows); err != nil {
		logging.FromContext(r.Context()).Error("csv write failed", "error", err)
	}
}
