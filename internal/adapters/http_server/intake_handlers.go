package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/domain"
)

// intakeForm serves the booking form to configured collaborators only.
func (h *Handlers) intakeForm(w http.ResponseWriter, r *http.Request) {
	origin, ok := h.Intake.Collaborator(chi.URLParam(r, "name"))
	if !ok {
		writeProblem(w, http.StatusForbidden, "Forbidden", "unknown collaborator")
		return
	}
	props, err := h.Registry.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	form := presentation.IntakeForm{Origin: origin}
	for _, p := range props {
		if p.Category == domain.ShortTerm {
			form.Properties = append(form.Properties, p.Name)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Deck.RenderIntakeForm(w, form); err != nil {
		writeError(w, r, err)
	}
}

func (h *Handlers) submitIntake(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := decode(r, &sub); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.Intake.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"inserted": n})
}

func (h *Handlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	out, err := h.Intake.ListSubmissions(r.Context(), domain.Origin(r.URL.Query().Get("origin")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) updateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Origin domain.Origin   `json:"origin"`
		Price  decimal.Decimal `json:"price"`
		Note   string          `json:"note"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Intake.UpdateSubmission(r.Context(), id, body.Origin, body.Price, body.Note); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	origin := domain.Origin(r.URL.Query().Get("origin"))
	if err := h.Intake.DeleteSubmission(r.Context(), id, origin); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
