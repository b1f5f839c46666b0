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

func submission(origin string, from, to string) domain.Submission {
	return domain.Submission{
		Property: "A",
		Start:    day(from),
		End:      day(to),
		Price:    dec("100"),
		Origin:   domain.Origin(origin),
		Guest:    "Guest",
	}
}

func nightsByDate(t *testing.T, f *fixture, year int, month time.Month) map[domain.Date]domain.OccupancyView {
	t.Helper()
	rows, err := f.ledger.OccupancyForMonth(context.Background(), year, month)
	require.NoError(t, err)
	out := map[domain.Date]domain.OccupancyView{}
	for _, r := range rows {
		out[r.Date] = r
	}
	return out
}

func TestSubmit_OwnerCannotOverwriteCollaboratorThenDirectWriteDoes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.intake.Submit(ctx, submission("Alicia", "2024-06-01", "2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	again := submission("Owner", "2024-06-01", "2024-06-03")
	again.Price = dec("999")
	n, err = f.intake.Submit(ctx, again)
	require.NoError(t, err)
	assert.Zero(t, n)

	nights := nightsByDate(t, f, 2024, time.June)
	require.Len(t, nights, 3)
	for _, r := range nights {
		assert.Equal(t, domain.Origin("Alicia"), r.Origin)
		assert.True(t, dec("100").Equal(r.Price))
	}

	require.NoError(t, f.ledger.UpsertOccupancy(ctx, app.OccupancyInput{
		PropertyRef: byName("A"), Date: day("2024-06-02"), Price: dec("150"), Origin: "Owner",
	}))
	nights = nightsByDate(t, f, 2024, time.June)
	assert.True(t, dec("150").Equal(nights[day("2024-06-02")].Price))
	assert.Equal(t, domain.OwnerOrigin, nights[day("2024-06-02")].Origin)
	assert.Equal(t, domain.Origin("Alicia"), nights[day("2024-06-01")].Origin)
	assert.Equal(t, domain.Origin("Alicia"), nights[day("2024-06-03")].Origin)
}

func TestSubmit_SkipsExistingNightsOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, d := range []string{"2024-08-02", "2024-08-04"} {
		require.NoError(t, f.ledger.UpsertOccupancy(ctx, app.OccupancyInput{
			PropertyRef: byName("A"), Date: day(d), Price: dec("70"), Origin: "Owner", Note: "kept",
		}))
	}

	n, err := f.intake.Submit(ctx, submission("estanislao", "2024-08-01", "2024-08-05"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	nights := nightsByDate(t, f, 2024, time.August)
	require.Len(t, nights, 5)
	assert.Equal(t, "kept", nights[day("2024-08-02")].Note)
	assert.Equal(t, domain.Origin("Estanislao"), nights[day("2024-08-03")].Origin)
}

func TestSubmit_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.intake.Submit(ctx, submission("Alicia", "2024-06-03", "2024-06-01"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.intake.Submit(ctx, submission("Alicia", "2024-01-01", "2025-01-02"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.intake.Submit(ctx, submission("", "2024-01-01", "2024-01-02"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	unknown := submission("Alicia", "2024-01-01", "2024-01-02")
	unknown.Property = "Penthouse"
	_, err = f.intake.Submit(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrUnknownProperty)

	one, err := f.intake.Submit(ctx, submission("Alicia", "2024-01-01", "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestSubmissions_OriginAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.intake.Submit(ctx, submission("Alicia", "2024-09-10", "2024-09-11"))
	require.NoError(t, err)

	mine, err := f.intake.ListSubmissions(ctx, "ALICIA")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, day("2024-09-11"), mine[0].Date, "newest first")
	assert.Equal(t, "A", mine[0].PropertyName)
	id := mine[0].ID

	err = f.intake.UpdateSubmission(ctx, id, "Estanislao", dec("1"), "hijack")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = f.intake.DeleteSubmission(ctx, id, "Owner")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = f.intake.DeleteSubmission(ctx, id+1000, "Alicia")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	unchanged := nightsByDate(t, f, 2024, time.September)[day("2024-09-11")]
	assert.True(t, dec("100").Equal(unchanged.Price))
	assert.Equal(t, "Guest", unchanged.Note)

	require.NoError(t, f.intake.UpdateSubmission(ctx, id, "alicia", dec("120"), "late checkout"))
	updated := nightsByDate(t, f, 2024, time.September)[day("2024-09-11")]
	assert.True(t, dec("120").Equal(updated.Price))
	assert.Equal(t, "late checkout", updated.Note)
	assert.Equal(t, domain.Origin("Alicia"), updated.Origin)
	assert.Equal(t, day("2024-09-11"), updated.Date)

	require.NoError(t, f.intake.DeleteSubmission(ctx, id, "aLiCiA"))
	assert.Len(t, nightsByDate(t, f, 2024, time.September), 1)
}

func TestCollaborator(t *testing.T) {
	f := newFixture(t)

	o, ok := f.intake.Collaborator("ALICIA")
	assert.True(t, ok)
	assert.Equal(t, domain.Origin("Alicia"), o)

	_, ok = f.intake.Collaborator("mallory")
	assert.False(t, ok)
}
