package template

// parse.go cross-references the four workbook sheets into a Catalog.
//
// The sheets are loosely structured: fields are identified by exact name only
// on the Template sheet, everywhere else rows reference fields by
// human-readable "local labels" or partial names. Matching is therefore
// heuristic, with a fixed resolution order per sheet (exact before substring,
// case-sensitive before case-insensitive). Ambiguous substring matches keep
// the first hit in sheet order but are logged for review.

import (
	"log/slog"
	"strings"

	"github.com/covermaker/covermaker/internal/sheet"
)

// CatalogField is one field of a parsed catalog, before user settings are
// merged back in. ValidValues are deduplicated, with the default value (when
// present) at position 0.
type CatalogField struct {
	FieldName      string
	DisplayName    string
	AttributeGroup string
	OrderIndex     int
	DefaultValue   string
	ValidValues    []string
}

// Catalog is the normalized result of parsing one workbook: the fields to
// create (in template column order), the product type keywords, and the
// verbatim header rows for export.
type Catalog struct {
	HeaderRows          [][]*string
	Fields              []CatalogField
	Keywords            []string
	ValidValuesImported int
}

// Parse builds a Catalog from the four sheet grids. Empty grids contribute
// nothing; the Template sheet alone decides which fields exist and in what
// order.
func Parse(dataDefs, validValues, defaultValues, tmpl sheet.Grid, log *slog.Logger) Catalog {
	defs := parseDataDefinitions(dataDefs, log)
	vv := parseValidValues(validValues, defs, log)
	dv := parseDefaultValues(defaultValues, defs, log)
	tf := parseTemplate(tmpl, log)

	cat := Catalog{
		HeaderRows:          tf.headerRows,
		Keywords:            vv.keywords,
		ValidValuesImported: vv.count,
	}

	for _, t := range tf.fields {
		f := CatalogField{
			FieldName:      t.name,
			OrderIndex:     t.orderIndex,
			AttributeGroup: t.group,
			DisplayName:    t.displayName,
			DefaultValue:   dv.defaults[t.name],
		}
		if dd, ok := defs.byName[t.name]; ok {
			if dd.group != "" {
				f.AttributeGroup = dd.group
			}
			if f.DisplayName == "" {
				f.DisplayName = dd.localLabel
			}
		}

		f.ValidValues = mergeValues(vv.byField[t.name], dv.extras[t.name], f.DefaultValue)
		cat.Fields = append(cat.Fields, f)
	}

	return cat
}

// mergeValues unions sheet values, extra default-sheet values and the default
// value into one list: duplicates removed by exact string equality, default
// inserted at position 0 when not already present.
func mergeValues(sheetValues, extraValues []string, defaultValue string) []string {
	seen := make(map[string]bool)
	var merged []string

	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		merged = append(merged, v)
	}

	for _, v := range sheetValues {
		add(v)
	}
	for _, v := range extraValues {
		add(v)
	}

	if defaultValue != "" && !seen[defaultValue] {
		merged = append([]string{defaultValue}, merged...)
	}
	return merged
}

// ---------------------------------------------------------------------------
// Data Definitions sheet
// ---------------------------------------------------------------------------

type fieldDef struct {
	name       string
	group      string
	localLabel string
}

// definitions indexes the Data Definitions sheet. Slices keep sheet order so
// substring fallbacks resolve deterministically; maps give exact lookups.
// Label collisions are last-write-wins, matching how the sheet is authored.
type definitions struct {
	fields  []fieldDef
	byName  map[string]fieldDef
	labels  []string          // label sheet order, first occurrence
	byLabel map[string]string // local label -> field name
}

// parseDataDefinitions reads field names and local labels. Rows before index
// 2 are sheet headings. A row with column A set and column B empty starts a
// new group that carries forward; a row with column B set defines a field
// (B = field name, C = local label). Column D is descriptive text and is
// deliberately ignored.
func parseDataDefinitions(g sheet.Grid, log *slog.Logger) definitions {
	defs := definitions{
		byName:  make(map[string]fieldDef),
		byLabel: make(map[string]string),
	}

	currentGroup := ""
	for row := 2; row < g.NumRows(); row++ {
		colA := g.Cell(row, 0)
		colB := g.Cell(row, 1)
		colC := g.Cell(row, 2)

		if colA != "" && colB == "" {
			currentGroup = colA
			log.Debug("definition group", "sheet", SheetDataDefinitions, "row", row, "group", currentGroup)
			continue
		}
		if colB == "" {
			continue
		}

		def := fieldDef{name: colB, group: currentGroup, localLabel: colC}
		if _, ok := defs.byName[def.name]; !ok {
			defs.fields = append(defs.fields, def)
		}
		defs.byName[def.name] = def

		if colC != "" {
			if _, ok := defs.byLabel[colC]; !ok {
				defs.labels = append(defs.labels, colC)
			}
			defs.byLabel[colC] = def.name
		}
	}

	log.Debug("definitions parsed", "sheet", SheetDataDefinitions, "fields", len(defs.fields))
	return defs
}

// ---------------------------------------------------------------------------
// Valid Values sheet
// ---------------------------------------------------------------------------

type validValuesResult struct {
	byField  map[string][]string
	keywords []string
	count    int
}

// parseValidValues reads selectable option rows. Column B carries
// "<local label> - [<field hint>]" (or a bare label); columns C onward are
// the values. Resolution order: exact label match, then hint substring
// against field names, then case-insensitive label substring either way.
// Unmatched rows are logged and skipped. Values for the "Item Type Keyword"
// label are additionally recorded as product type keywords.
func parseValidValues(g sheet.Grid, defs definitions, log *slog.Logger) validValuesResult {
	res := validValuesResult{byField: make(map[string][]string)}

	for row := 0; row < g.NumRows(); row++ {
		colA := g.Cell(row, 0)
		colB := g.Cell(row, 1)

		if colA != "" && colB == "" {
			log.Debug("value group", "sheet", SheetValidValues, "row", row, "group", colA)
			continue
		}
		if colB == "" {
			continue
		}

		label, hint := splitLabelHint(colB)
		values := g.RowCells(row, 2)

		field := resolveValueRow(label, hint, defs, log, row)
		if field == "" {
			log.Warn("no field match for value row",
				"sheet", SheetValidValues, "row", row, "label", label)
			continue
		}

		res.byField[field] = append(res.byField[field], values...)
		res.count += len(values)
		log.Debug("values matched",
			"sheet", SheetValidValues, "row", row, "label", label, "field", field, "values", len(values))

		if label == keywordLabel {
			res.keywords = append(res.keywords, values...)
		}
	}

	return res
}

// splitLabelHint splits a Valid Values column-B cell into its local label
// part and the optional bracketed field hint.
func splitLabelHint(cell string) (label, hint string) {
	if before, after, ok := strings.Cut(cell, " - ["); ok {
		return strings.TrimSpace(before), strings.TrimSpace(strings.TrimSuffix(after, "]"))
	}
	return cell, ""
}

// resolveValueRow finds the owning field for a Valid Values row. First match
// wins; substring passes flag additional hits as ambiguous.
func resolveValueRow(label, hint string, defs definitions, log *slog.Logger, row int) string {
	if label != "" {
		if field, ok := defs.byLabel[label]; ok {
			return field
		}
	}

	if hint != "" {
		var hits []string
		for _, def := range defs.fields {
			if strings.Contains(def.name, hint) {
				hits = append(hits, def.name)
			}
		}
		if len(hits) > 0 {
			warnAmbiguous(log, SheetValidValues, row, hint, hits)
			return hits[0]
		}
	}

	if label != "" {
		lower := strings.ToLower(label)
		var hits []string
		for _, l := range defs.labels {
			ll := strings.ToLower(l)
			if strings.Contains(ll, lower) || strings.Contains(lower, ll) {
				hits = append(hits, defs.byLabel[l])
			}
		}
		if len(hits) > 0 {
			warnAmbiguous(log, SheetValidValues, row, label, hits)
			return hits[0]
		}
	}

	return ""
}

// ---------------------------------------------------------------------------
// Default Values sheet
// ---------------------------------------------------------------------------

type defaultValuesResult struct {
	defaults map[string]string
	extras   map[string][]string
}

// parseDefaultValues reads per-field defaults. Column A = local label,
// column B = field name, column C = default, columns D onward are extra
// valid values. Resolution order: exact field name, exact label, then
// substring between column B and known field names in either direction.
func parseDefaultValues(g sheet.Grid, defs definitions, log *slog.Logger) defaultValuesResult {
	res := defaultValuesResult{
		defaults: make(map[string]string),
		extras:   make(map[string][]string),
	}

	for row := 1; row < g.NumRows(); row++ {
		colA := g.Cell(row, 0)
		colB := g.Cell(row, 1)
		colC := g.Cell(row, 2)

		if colA == "" && colB == "" {
			continue
		}

		field := ""
		if colB != "" {
			if _, ok := defs.byName[colB]; ok {
				field = colB
			}
		}
		if field == "" && colA != "" {
			if f, ok := defs.byLabel[colA]; ok {
				field = f
			}
		}
		if field == "" && colB != "" {
			var hits []string
			for _, def := range defs.fields {
				if strings.Contains(def.name, colB) || strings.Contains(colB, def.name) {
					hits = append(hits, def.name)
				}
			}
			if len(hits) > 0 {
				warnAmbiguous(log, SheetDefaultValues, row, colB, hits)
				field = hits[0]
			}
		}
		if field == "" {
			log.Warn("no field match for default row",
				"sheet", SheetDefaultValues, "row", row, "label", colA, "name", colB)
			continue
		}

		if colC != "" {
			res.defaults[field] = colC
			log.Debug("default recorded", "sheet", SheetDefaultValues, "row", row, "field", field)
		}
		if extra := g.RowCells(row, 3); len(extra) > 0 {
			res.extras[field] = append(res.extras[field], extra...)
		}
	}

	return res
}

// ---------------------------------------------------------------------------
// Template sheet
// ---------------------------------------------------------------------------

// templateHeaderRows is how many leading Template sheet rows are captured
// verbatim for export.
const templateHeaderRows = 6

// Zero-based Template sheet rows holding field metadata.
const (
	templateGroupRow   = 2
	templateDisplayRow = 3
	templateNameRow    = 4
)

type templateField struct {
	name        string
	orderIndex  int
	displayName string
	group       string
}

type templateResult struct {
	headerRows [][]*string
	fields     []templateField
}

// parseTemplate captures the header block and reads the field-name row. The
// field-name row is authoritative: a column with an empty name cell creates
// no field, whatever the other sheets say. Group cells carry forward
// rightward until the next non-empty group cell.
func parseTemplate(g sheet.Grid, log *slog.Logger) templateResult {
	var res templateResult

	width := 0
	for row := 0; row < templateHeaderRows && row < g.NumRows(); row++ {
		if g.RowLen(row) > width {
			width = g.RowLen(row)
		}
	}
	for row := 0; row < templateHeaderRows && row < g.NumRows(); row++ {
		cells := make([]*string, width)
		for col := 0; col < width; col++ {
			if v := g.Cell(row, col); v != "" {
				cells[col] = &v
			}
		}
		res.headerRows = append(res.headerRows, cells)
	}

	byName := make(map[string]int)
	currentGroup := ""
	for col := 0; col < g.RowLen(templateNameRow); col++ {
		if group := g.Cell(templateGroupRow, col); group != "" {
			currentGroup = group
		}

		name := g.Cell(templateNameRow, col)
		if name == "" {
			continue
		}

		tf := templateField{
			name:        name,
			orderIndex:  col,
			displayName: g.Cell(templateDisplayRow, col),
			group:       currentGroup,
		}
		if i, ok := byName[name]; ok {
			// Repeated field name: the later column's metadata wins.
			res.fields[i] = tf
			continue
		}
		byName[name] = len(res.fields)
		res.fields = append(res.fields, tf)
	}

	log.Debug("template parsed", "sheet", SheetTemplate, "fields", len(res.fields))
	return res
}

// warnAmbiguous logs a substring match that hit more than one candidate. The
// first hit in sheet order is used either way.
func warnAmbiguous(log *slog.Logger, sheetName string, row int, needle string, hits []string) {
	if len(hits) > 1 {
		log.Warn("ambiguous field match",
			"sheet", sheetName, "row", row, "needle", needle, "matched", hits[0], "candidates", len(hits))
	}
}
