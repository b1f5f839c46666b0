package httpserver

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/adapters/xlsx"
	"rental_ledger/internal/domain"
)

// maxUpload bounds an import workbook.
const maxUpload = 10 << 20

func (h *Handlers) yearlySummary(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reports.YearlySummary(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) detailIncome(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reports.DetailIncome(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) detailExpenses(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reports.DetailExpenses(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) propertyMetrics(w http.ResponseWriter, r *http.Request) {
	f, err := h.filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reports.PropertyMetrics(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) exportXLSX(w http.ResponseWriter, r *http.Request) {
	f, err := h.filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.Reports.ExportData(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Render fully before writing headers so a failure still yields a problem response.
	var buf bytes.Buffer
	if err := xlsx.Export(&buf, data); err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, xlsx.ContentType, xlsx.Filename(f))
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write export")
	}
}

func (h *Handlers) presentation(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := h.Reports.YearReport(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Deck.Render(&buf, rep); err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("download") != "" {
		attachment(w, "text/html; charset=utf-8", presentation.Filename(year))
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write presentation")
	}
}

func (h *Handlers) importTemplate(w http.ResponseWriter, r *http.Request) {
	props, err := h.Registry.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}
	var buf bytes.Buffer
	if err := xlsx.Template(&buf, names); err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, xlsx.ContentType, xlsx.TemplateFilename)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write template")
	}
}

// importXLSX loads a multipart "file" upload; the optional "origin" field
// labels the rows.
func (h *Handlers) importXLSX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, r, domain.Invalid("file", err.Error()))
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.Invalid("file", "no file sent"))
		return
	}
	defer file.Close()
	if hdr.Size == 0 || strings.TrimSpace(hdr.Filename) == "" {
		writeError(w, r, domain.Invalid("file", "empty file"))
		return
	}

	src, err := xlsx.Open(file)
	if err != nil {
		writeError(w, r, domain.Invalid("file", err.Error()))
		return
	}
	defer src.Close()

	origin := domain.Origin(r.FormValue("origin"))
	if origin.Canonical() == "" {
		origin = h.ImportOrigin
	}
	res, err := h.Import.Import(r.Context(), src, origin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
