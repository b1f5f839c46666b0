package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
)

type Handlers struct {
	Registry *app.RegistryService
	Ledger   *app.LedgerService
	Intake   *app.IntakeService
	Reports  *app.AggregationService
	Import   *app.ImportService
	Deck     *presentation.Renderer

	// ImportOrigin labels imported rows when the upload names no origin.
	ImportOrigin domain.Origin
	Now          func() time.Time
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/properties", h.listProperties)
		r.Patch("/properties/{id}", h.setPropertyActive)

		r.Get("/occupancy/{year}/{month}", h.occupancyForMonth)
		r.Post("/occupancy", h.upsertOccupancy)
		r.Delete("/occupancy/{propertyID}/{date}", h.deleteOccupancy)

		r.Get("/rent/{year}", h.rentForYear)
		r.Post("/rent", h.upsertRent)
		r.Delete("/rent/{propertyID}/{year}/{month}", h.deleteRent)

		r.Get("/expenses/{year}", h.expensesForYear)
		r.Post("/expenses", h.addExpense)
		r.Delete("/expenses/{id}", h.deleteExpense)

		r.Get("/summary/{year}", h.yearlySummary)
		r.Get("/detail/income/{year}", h.detailIncome)
		r.Get("/detail/expenses/{year}", h.detailExpenses)
		r.Get("/property-metrics", h.propertyMetrics)

		r.Get("/export/xlsx", h.exportXLSX)
		r.Get("/presentation/{year}", h.presentation)
		r.Get("/import/template", h.importTemplate)
		r.Post("/import", h.importXLSX)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter))
			r.Post("/intake", h.submitIntake)
			r.Get("/intake/submissions", h.listSubmissions)
			r.Put("/intake/submissions/{id}", h.updateSubmission)
			r.Delete("/intake/submissions/{id}", h.deleteSubmission)
		})
	})

	s.mux.With(RateLimit(s.limiter)).Get("/intake/{name}", h.intakeForm)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownProperty):
		writeProblem(w, http.StatusBadRequest, "Unknown Property", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "the operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCached answers report reads; the ETag lets a client skip an unchanged
// body, the ledger itself is re-queried on every request.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("body", err.Error())
	}
	return nil
}

/********** path/query helpers **********/

func intParam(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, domain.Invalid(name, "must be a number")
	}
	return n, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.Invalid(name, "must be a positive number")
	}
	return n, nil
}

func monthParam(r *http.Request) (time.Month, error) {
	m, err := intParam(r, "month")
	if err != nil {
		return 0, err
	}
	return time.Month(m), nil
}

// filterFromQuery reads from, to and property; the range defaults to the
// current calendar year.
func (h *Handlers) filterFromQuery(r *http.Request) (domain.Filter, error) {
	q := r.URL.Query()
	rg := domain.YearRange(h.Now().Year())
	if s := q.Get("from"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.Filter{}, domain.Invalid("from", err.Error())
		}
		rg.From = d
	}
	if s := q.Get("to"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.Filter{}, domain.Invalid("to", err.Error())
		}
		rg.To = d
	}
	return domain.Filter{Range: rg, Property: q.Get("property")}, nil
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
