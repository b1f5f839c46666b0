package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
)

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	list := h.Registry.ListActive
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		list = h.Registry.ListAll
	}
	ps, err := list(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *Handlers) setPropertyActive(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Active == nil {
		writeError(w, r, domain.Invalid("active", "required"))
		return
	}
	if err := h.Registry.SetActive(r.Context(), id, *body.Active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** occupancy **********/

func (h *Handlers) occupancyForMonth(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := monthParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Ledger.OccupancyForMonth(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) upsertOccupancy(w http.ResponseWriter, r *http.Request) {
	var in app.OccupancyInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Ledger.UpsertOccupancy(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteOccupancy(w http.ResponseWriter, r *http.Request) {
	pid, err := int64Param(r, "propertyID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, domain.Invalid("date", err.Error()))
		return
	}
	ok, err := h.Ledger.DeleteOccupancy(r.Context(), app.PropertyRef{ID: pid}, d)
	writeDeleted(w, r, ok, err)
}

/********** monthly rent **********/

func (h *Handlers) rentForYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Ledger.MonthlyRentForYear(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) upsertRent(w http.ResponseWriter, r *http.Request) {
	var in app.RentInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Ledger.UpsertMonthlyRent(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteRent(w http.ResponseWriter, r *http.Request) {
	pid, err := int64Param(r, "propertyID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := monthParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Ledger.DeleteMonthlyRent(r.Context(), app.PropertyRef{ID: pid}, year, month)
	writeDeleted(w, r, ok, err)
}

/********** expenses **********/

// expenseRequest names the property flat; both fields empty means a general expense.
type expenseRequest struct {
	app.PropertyRef
	Date        domain.Date     `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

func (h *Handlers) expensesForYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Ledger.ExpensesForYear(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Ledger.AddExpense(r.Context(), app.ExpenseInput{
		Property:    req.PropertyRef,
		Date:        req.Date,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Ledger.DeleteExpense(r.Context(), id)
	writeDeleted(w, r, ok, err)
}

func writeDeleted(w http.ResponseWriter, r *http.Request, ok bool, err error) {
	switch {
	case err != nil:
		writeError(w, r, err)
	case !ok:
		writeProblem(w, http.StatusNotFound, "Not Found", "nothing to delete")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
