// Package presentation renders the yearly report as a self-contained HTML deck.
package presentation

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"rental_ledger/internal/domain"
)

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

// originPalette colours the origin doughnut; it cycles when there are more origins.
var originPalette = []string{"#2ecc71", "#9b59b6", "#f1c40f", "#3498db", "#e67e22", "#1abc9c"}

type Renderer struct {
	tmpl     *template.Template
	currency *money.Currency
}

// New parses the deck template. An unknown currency code falls back to USD.
func New(currency string) (*Renderer, error) {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	r := &Renderer{currency: cur}
	t, err := template.New("deck").Funcs(template.FuncMap{
		"money": r.Money,
		"pct":   Pct,
	}).ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = t
	return r, nil
}

// Money formats an amount in whole currency units, e.g. "$12,345".
func (r *Renderer) Money(d decimal.Decimal) string {
	f := *r.currency.Formatter()
	f.Fraction = 0
	return f.Format(d.Round(0).IntPart())
}

// Pct formats a ratio as a percentage with one decimal, e.g. "42.5%".
func Pct(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(1) + "%"
}

type deck struct {
	domain.YearReport
	ShortTerm    int
	Monthly      int
	Generated    string
	OriginLabels []string
	OriginValues []float64
	OriginColors []string
	PropLabels   []string
	PropValues   []float64
	PropColors   []string
}

func (r *Renderer) Render(w io.Writer, rep domain.YearReport) error {
	d := deck{
		YearReport:   rep,
		Generated:    rep.GeneratedAt.Format("02/01/2006 15:04"),
		OriginLabels: make([]string, 0, len(rep.Origins)),
		OriginValues: make([]float64, 0, len(rep.Origins)),
		OriginColors: make([]string, 0, len(rep.Origins)),
		PropLabels:   make([]string, 0, len(rep.Properties)),
		PropValues:   make([]float64, 0, len(rep.Properties)),
		PropColors:   make([]string, 0, len(rep.Properties)),
	}
	for _, p := range rep.Properties {
		switch p.Category {
		case domain.ShortTerm:
			d.ShortTerm++
		case domain.Monthly:
			d.Monthly++
		}
		d.PropLabels = append(d.PropLabels, p.Property)
		d.PropValues = append(d.PropValues, p.Income.InexactFloat64())
		d.PropColors = append(d.PropColors, p.Color)
	}
	for i, o := range rep.Origins {
		d.OriginLabels = append(d.OriginLabels, o.String())
		d.OriginValues = append(d.OriginValues, rep.OriginTotals[i].InexactFloat64())
		d.OriginColors = append(d.OriginColors, originPalette[i%len(originPalette)])
	}
	if err := r.tmpl.ExecuteTemplate(w, "deck.html.tmpl", d); err != nil {
		return fmt.Errorf("render deck: %w", err)
	}
	return nil
}

// Filename is the attachment name for a year's deck.
func Filename(year int) string { return fmt.Sprintf("Rentals_Presentation_%d.html", year) }

// IntakeForm is the page a collaborator uses to submit bookings.
type IntakeForm struct {
	Origin     domain.Origin
	Properties []string
}

func (r *Renderer) RenderIntakeForm(w io.Writer, f IntakeForm) error {
	if err := r.tmpl.ExecuteTemplate(w, "intake.html.tmpl", f); err != nil {
		return fmt.Errorf("render intake form: %w", err)
	}
	return nil
}
