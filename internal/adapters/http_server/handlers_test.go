package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	httpserver "rental_ledger/internal/adapters/http_server"
	"rental_ledger/internal/adapters/presentation"
	"rental_ledger/internal/adapters/ratelimit"
	"rental_ledger/internal/adapters/xlsx"
	"rental_ledger/internal/app"
	"rental_ledger/internal/domain"
	"rental_ledger/internal/storage/sqldb"
)

// newAPI wires the router over a fresh SQLite ledger holding the catalog and
// a short-term unit "A". limiter may be nil.
func newAPI(t *testing.T, limiter domain.Limiter) http.Handler {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "api.db")
	require.NoError(t, sqldb.Migrate("sqlite", dsn))
	db, err := sqldb.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqldb.New(db, sqldb.SQLite)
	reg := app.NewRegistryService(repo)
	_, err = reg.Seed(ctx)
	require.NoError(t, err)
	_, err = repo.SeedProperties(ctx, []domain.Property{{Name: "A", Category: domain.ShortTerm, Active: true, Color: "#000000"}})
	require.NoError(t, err)

	deck, err := presentation.New("USD")
	require.NoError(t, err)

	srv := httpserver.New(limiter)
	srv.MountHandlers(&httpserver.Handlers{
		Registry:     reg,
		Ledger:       app.NewLedgerService(reg, repo, repo),
		Intake:       app.NewIntakeService(reg, repo, []string{"alicia"}),
		Reports:      app.NewAggregationService(reg, repo),
		Import:       app.NewImportService(reg, repo),
		Deck:         deck,
		ImportOrigin: domain.OwnerOrigin,
		Now:          func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	return srv.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIntakeForm(t *testing.T) {
	h := newAPI(t, nil)

	rr := do(t, h, http.MethodGet, "/intake/stranger", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = do(t, h, http.MethodGet, "/intake/ALICIA", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), `const origin = "Alicia";`)
	assert.Contains(t, rr.Body.String(), `<option value="A">`)
}

func TestIntakeSubmitAndOwnership(t *testing.T) {
	h := newAPI(t, nil)

	rr := do(t, h, http.MethodPost, "/api/intake",
		`{"property":"A","start":"2024-03-01","end":"2024-03-03","price":"100","origin":"alicia","guest":"Ruiz"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"inserted":3}`, rr.Body.String())

	// overlapping submission only fills the new night
	rr = do(t, h, http.MethodPost, "/api/intake",
		`{"property":"A","start":"2024-03-03","end":"2024-03-04","price":"90","origin":"Alicia"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"inserted":1}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/intake/submissions?origin=alicia", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var subs []domain.OccupancyView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &subs))
	require.Len(t, subs, 4)
	id := subs[0].ID

	rr = do(t, h, http.MethodDelete, "/api/intake/submissions/"+itoa(id)+"?origin=Estanislao", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/intake/submissions/"+itoa(id), `{"origin":"alicia","price":"80","note":"late"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/intake/submissions/"+itoa(id)+"?origin=alicia", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestProblemMapping(t *testing.T) {
	h := newAPI(t, nil)

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"unknown property", http.MethodPost, "/api/occupancy", `{"property":"Nowhere","date":"2024-01-01","price":"10","origin":"Owner"}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/occupancy", `{"property":"A","date":"2024-01-01","price":"-1"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/rent", `{"property":"A","bogus":1}`, http.StatusBadRequest},
		{"bad year", http.MethodGet, "/api/summary/abc", "", http.StatusBadRequest},
		{"delete missing expense", http.MethodDelete, "/api/expenses/999", "", http.StatusNotFound},
		{"toggle unknown property", http.MethodPatch, "/api/properties/999", `{"active":false}`, http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/api/property-metrics?from=2024-05-01&to=2024-04-01", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
			assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestLedgerRoundTripAndSummaryETag(t *testing.T) {
	h := newAPI(t, nil)

	require.Equal(t, http.StatusNoContent,
		do(t, h, http.MethodPost, "/api/occupancy", `{"property":"A","date":"2024-02-10","price":"150","origin":"Owner"}`).Code)
	rr := do(t, h, http.MethodPost, "/api/expenses", `{"date":"2024-02-11","amount":"40","category":"Cleaning","description":"general"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/occupancy/2024/2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"2024-02-10"`)

	rr = do(t, h, http.MethodGet, "/api/summary/2024", "")
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/summary/2024", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/occupancy/999/2024-02-10", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown property id")
}

func TestRateLimit(t *testing.T) {
	h := newAPI(t, ratelimit.New(0.001, 1))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/intake/alicia", "").Code)
	rr := do(t, h, http.MethodGet, "/intake/alicia", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1000", rr.Header().Get("Retry-After"), "one token refills every 1000s")

	// internal routes are not throttled
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/properties", "").Code)
}

func TestExportAndPresentation(t *testing.T) {
	h := newAPI(t, nil)

	rr := do(t, h, http.MethodGet, "/api/export/xlsx?from=2024-01-01&to=2024-12-31", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, xlsx.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), xlsx.SummarySheet)

	rr = do(t, h, http.MethodGet, "/api/presentation/2024?download=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), presentation.Filename(2024))

	rr = do(t, h, http.MethodGet, "/api/import/template", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), xlsx.TemplateFilename)
}

func TestImportUpload(t *testing.T) {
	h := newAPI(t, nil)

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A5", &[]any{"A", "2024-04-01", "$120", "Perez"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A6", &[]any{"Nowhere", "2024-04-02", "50"}))
	var file bytes.Buffer
	require.NoError(t, wb.Write(&file))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "occupancy.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(file.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("origin", "airbnb"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res domain.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 6, res.Errors[0].Row)

	rr = do(t, h, http.MethodGet, "/api/intake/submissions?origin=Airbnb", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"2024-04-01"`)
}

func TestImportRejectsMissingFile(t *testing.T) {
	h := newAPI(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("origin", "Owner"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
