package presentation_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoneyAndPct(t *testing.T) {
	r, err := presentation.New("usd")
	require.NoError(t, err)

	assert.Equal(t, "$12,346", r.Money(dec("12345.6")))
	assert.Equal(t, "$0", r.Money(decimal.Zero))
	assert.Equal(t, "-$50", r.Money(dec("-50")))

	assert.Equal(t, "42.5%", presentation.Pct(dec("0.4249")))
	assert.Equal(t, "0.0%", presentation.Pct(decimal.Zero))
}

func TestNew_UnknownCurrencyFallsBackToUSD(t *testing.T) {
	r, err := presentation.New("XXX-not-a-code")
	require.NoError(t, err)
	assert.Equal(t, "$1", r.Money(dec("1")))
}

func TestRender_Deck(t *testing.T) {
	r, err := presentation.New("USD")
	require.NoError(t, err)

	rep := domain.YearReport{
		Year: 2024,
		Properties: []domain.PropertyMetrics{
			{Property: "TIDES 14 B", Category: domain.ShortTerm, Color: "#3498db", Income: dec("1000"), Profit: dec("800"), Nights: 8, OccupancyRate: dec("0.0218")},
			{Property: "Brickell", Category: domain.Monthly, Color: "#1abc9c", Income: dec("2400"), Profit: dec("-100")},
		},
		Origins:      []domain.Origin{"Owner", "Alicia"},
		ByOrigin:     []domain.OriginRow{{Property: "TIDES 14 B", Amounts: []decimal.Decimal{dec("600"), dec("400")}, Total: dec("1000")}},
		OriginTotals: []decimal.Decimal{dec("600"), dec("400")},
		Totals: domain.ReportTotals{
			Income: dec("3400"), Expense: dec("800"), Profit: dec("2600"), ProfitMargin: dec("0.7647"),
			NightlyIncome: dec("1000"), OwnerIncome: dec("600"), OwnerShare: dec("0.6"),
			ThirdPartyIncome: dec("400"), ThirdPartyShare: dec("0.4"), GeneralExpense: dec("500"),
		},
		GeneratedAt: time.Date(2025, 1, 2, 15, 4, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, rep))
	out := buf.String()

	for _, want := range []string{
		"Annual Summary 2024",
		"1 short-term units + 1 monthly units",
		"$3,400",
		"76.5%",
		"<th>Alicia</th>",
		"Generated: 02/01/2025 15:04",
		`class="neg"`,
		"$500 of general expenses",
		`"Owner","Alicia"`,
		"[600,400]",
	} {
		assert.True(t, strings.Contains(out, want), "missing %q", want)
	}
}

func TestRender_IntakeForm(t *testing.T) {
	r, err := presentation.New("USD")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderIntakeForm(&buf, presentation.IntakeForm{
		Origin:     "Alicia",
		Properties: []string{"TIDES 14 B", "<script>"},
	}))
	out := buf.String()
	assert.Contains(t, out, "Hi Alicia")
	assert.Contains(t, out, `<option value="TIDES 14 B">`)
	assert.Contains(t, out, `const origin = "Alicia";`)
	assert.NotContains(t, out, "<option value=\"<script>\">")
}
