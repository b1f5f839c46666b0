package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
)

func TestUpsertOccupancy_LatestWriteWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, price := range []string{"100", "120", "135.50"} {
		require.NoError(t, f.ledger.UpsertOccupancy(ctx, app.OccupancyInput{
			PropertyRef: byName("TIDES 5 L"),
			Date:        day("2024-02-29"),
			Price:       dec(price),
			Origin:      "owner",
			Note:        "guest " + price,
		}))
	}

	got, err := f.ledger.OccupancyForMonth(ctx, 2024, time.February)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, dec("135.50").Equal(got[0].Price))
	assert.Equal(t, domain.OwnerOrigin, got[0].Origin)
	assert.Equal(t, "guest 135.50", got[0].Note)
}

func TestUpsertOccupancy_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]app.OccupancyInput{
		"missing date":     {PropertyRef: byName("A"), Price: dec("1"), Origin: "Owner"},
		"negative price":   {PropertyRef: byName("A"), Date: day("2024-01-01"), Price: dec("-1"), Origin: "Owner"},
		"missing origin":   {PropertyRef: byName("A"), Date: day("2024-01-01"), Price: dec("1"), Origin: " "},
		"missing property": {Date: day("2024-01-01"), Price: dec("1"), Origin: "Owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, f.ledger.UpsertOccupancy(ctx, in), domain.ErrValidation)
		})
	}

	err := f.ledger.UpsertOccupancy(ctx, app.OccupancyInput{
		PropertyRef: byName("Nowhere"), Date: day("2024-01-01"), Price: dec("1"), Origin: "Owner",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrUnknownProperty)
}

func TestDeleteOccupancy_ByPropertyAndDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	in := app.OccupancyInput{PropertyRef: byName("A"), Date: day("2024-05-05"), Price: dec("80"), Origin: "Owner"}
	require.NoError(t, f.ledger.UpsertOccupancy(ctx, in))

	ok, err := f.ledger.DeleteOccupancy(ctx, byName("A"), day("2024-05-05"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.ledger.OccupancyForMonth(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOccupancyForMonth_RejectsBadPeriod(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.OccupancyForMonth(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMonthlyRent_Upsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := app.RentInput{PropertyRef: byName("Brickell"), Year: 2024, Month: time.April, Amount: dec("2500")}
	require.NoError(t, f.ledger.UpsertMonthlyRent(ctx, in))
	in.Amount, in.Note = dec("2600"), "adjusted"
	require.NoError(t, f.ledger.UpsertMonthlyRent(ctx, in))

	got, err := f.ledger.MonthlyRentForYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, dec("2600").Equal(got[0].Amount))
	assert.Equal(t, "Brickell", got[0].PropertyName)

	ok, err := f.ledger.DeleteMonthlyRent(ctx, byName("Brickell"), 2024, time.April)
	require.NoError(t, err)
	assert.True(t, ok)

	err = f.ledger.UpsertMonthlyRent(ctx, app.RentInput{PropertyRef: byName("Brickell"), Year: 2024, Month: 0, Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenses_AddListDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.ledger.AddExpense(ctx, app.ExpenseInput{
		Property: byName("TIDES 10 L"), Date: day("2024-03-01"), Amount: dec("75"), Category: "cleaning",
	})
	require.NoError(t, err)
	_, err = f.ledger.AddExpense(ctx, app.ExpenseInput{Date: day("2024-03-02"), Amount: dec("500"), Category: "accounting"})
	require.NoError(t, err)

	_, err = f.ledger.AddExpense(ctx, app.ExpenseInput{Date: day("2024-03-02"), Amount: dec("5")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := f.ledger.ExpensesForYear(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.GeneralLabel, list[0].Property)
	assert.Equal(t, "TIDES 10 L", list[1].Property)

	ok, err := f.ledger.DeleteExpense(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.ledger.DeleteExpense(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}
