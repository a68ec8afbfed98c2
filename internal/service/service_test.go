package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitshare/internal/draft"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage/sqlite"
)

type testServer struct {
	router *gin.Engine
	drafts *draft.Store
}

// setupTestServer creates a router backed by a temp-dir SQLite directory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.New()
	drafts := draft.NewStore(draft.Options{Recorder: m})
	router := NewRouter(Deps{
		Drafts:      drafts,
		Directory:   store,
		Metrics:     m,
		CORSOrigins: []string{"*"},
	})
	return &testServer{router: router, drafts: drafts}
}

// do sends body as JSON and decodes the envelope, with Data left raw.
func (s *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

var alicebob = []models.Participant{
	{ID: "A", Name: "Alice", Email: "alice@example.com"},
	{ID: "B", Name: "Bob"},
}

func TestPreview(t *testing.T) {
	s := setupTestServer(t)

	t.Run("equal split of three", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/splits/preview", map[string]any{
			"strategy":     "equal",
			"total":        100,
			"participants": append(alicebob, models.Participant{ID: "C", Name: "Carol"}),
			"payer_id":     "B",
		})
		require.Equal(t, http.StatusOK, code, env.Message)
		got := decode[previewResponse](t, env)
		require.Len(t, got.Entries, 3)
		assert.Equal(t, 33.34, got.Entries[0].Amount)
		assert.Equal(t, 33.33, got.Entries[1].Amount)
		assert.True(t, got.Entries[1].IsPayer)
		assert.Equal(t, "alice@example.com", got.Entries[0].Email)
		assert.True(t, got.CanSubmit)
		assert.Equal(t, 0, s.drafts.Len(), "preview does not create drafts")
	})

	t.Run("total may be sent as text", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/splits/preview", map[string]any{
			"strategy":     "exact",
			"total":        "50.00",
			"participants": alicebob,
		})
		require.Equal(t, http.StatusOK, code, env.Message)
		got := decode[previewResponse](t, env)
		assert.Equal(t, 50.0, got.Total)
		assert.Equal(t, 25.0, got.Entries[0].Amount)
	})

	t.Run("zero total is an empty split, not an error", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/splits/preview", map[string]any{
			"strategy":     "percentage",
			"total":        0,
			"participants": alicebob,
		})
		require.Equal(t, http.StatusOK, code)
		got := decode[previewResponse](t, env)
		assert.Empty(t, got.Entries)
		assert.False(t, got.CanSubmit)
	})

	rejects := []struct {
		name string
		body any
	}{
		{"unknown strategy", map[string]any{"strategy": "shares", "total": 10, "participants": alicebob}},
		{"missing strategy", map[string]any{"total": 10, "participants": alicebob}},
		{"payer not a participant", map[string]any{"strategy": "equal", "total": 10, "participants": alicebob, "payer_id": "Z"}},
		{"duplicate participant", map[string]any{"strategy": "equal", "total": 10, "participants": []models.Participant{{ID: "A"}, {ID: "A"}}}},
		{"participant without id", map[string]any{"strategy": "equal", "total": 10, "participants": []models.Participant{{Name: "Nobody"}}}},
		{"malformed json", `{"strategy":`},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(t, http.MethodPost, "/api/v1/splits/preview", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestDraftLifecycle(t *testing.T) {
	s := setupTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/drafts", map[string]any{
		"strategy":     "exact",
		"total":        50,
		"participants": alicebob,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	d := decode[draft.Draft](t, env)
	require.NotEmpty(t, d.ID)
	assert.Equal(t, []float64{25, 25}, []float64{d.Entries[0].Amount, d.Entries[1].Amount})

	// Edit A to 30: 55 of 50, not submittable.
	code, env = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/A", map[string]any{"amount": "30"})
	require.Equal(t, http.StatusOK, code, env.Message)
	d = decode[draft.Draft](t, env)
	assert.InDelta(t, 60.0, d.Entries[0].Percentage, 1e-9)
	assert.Equal(t, 25.0, d.Entries[1].Amount)
	assert.InDelta(t, 55.0, d.Aggregates.TotalAmount, 1e-9)
	assert.False(t, d.Aggregates.IsAmountValid)

	code, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+d.ID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Total must equal $50.00 (Diff: $-5.00)", env.Message)

	code, env = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/B", map[string]any{"amount": 20})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.True(t, decode[draft.Draft](t, env).CanSubmit)

	code, env = s.do(t, http.MethodGet, "/api/v1/drafts/"+d.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 20.0, decode[draft.Draft](t, env).Entries[1].Amount)

	code, env = s.do(t, http.MethodPost, "/api/v1/drafts/"+d.ID+"/submit", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.True(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/api/v1/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, code, "submitted drafts are released")
}

func TestDraftEdits(t *testing.T) {
	s := setupTestServer(t)

	_, env := s.do(t, http.MethodPost, "/api/v1/drafts", map[string]any{
		"strategy":     "percentage",
		"total":        80,
		"participants": alicebob,
	})
	d := decode[draft.Draft](t, env)

	code, env := s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/A", map[string]any{"percentage": 150})
	require.Equal(t, http.StatusOK, code, env.Message)
	got := decode[draft.Draft](t, env)
	assert.Equal(t, 100.0, got.Entries[0].Percentage)
	assert.Equal(t, []string{"Total must be 100%"}, got.Problems)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/A", map[string]any{"amount": 10})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/Z", map[string]any{"percentage": 10})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/A", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/drafts/"+d.ID+"/shares/A", map[string]any{"percentage": 1, "amount": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	// Reset back to an equal split discards the edit.
	code, env = s.do(t, http.MethodPut, "/api/v1/drafts/"+d.ID, map[string]any{
		"strategy":     "equal",
		"total":        80,
		"participants": alicebob,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	got = decode[draft.Draft](t, env)
	assert.Equal(t, 40.0, got.Entries[0].Amount)
	assert.True(t, got.CanSubmit)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = s.do(t, http.MethodDelete, "/api/v1/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGroupsAndGroupDrafts(t *testing.T) {
	s := setupTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/groups", map[string]any{
		"name":    "Roommates",
		"members": []models.Participant{{ID: "A", Name: "Alice"}, {Name: "Bob"}},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	group := decode[models.Group](t, env)
	require.Len(t, group.Members, 2)

	code, env = s.do(t, http.MethodPost, "/api/v1/groups/"+group.ID+"/members", map[string]any{
		"members": []models.Participant{{ID: "A", Name: "Alice"}, {ID: "C", Name: "Carol"}},
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	added := decode[[]models.Participant](t, env)
	require.Len(t, added, 1)
	assert.Equal(t, "C", added[0].ID)

	code, env = s.do(t, http.MethodGet, "/api/v1/groups", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Group](t, env), 1)

	code, env = s.do(t, http.MethodPost, "/api/v1/drafts", map[string]any{
		"strategy": "equal",
		"total":    100,
		"group_id": group.ID,
		"payer_id": "C",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	d := decode[draft.Draft](t, env)
	require.Len(t, d.Entries, 3)
	assert.Equal(t, "A", d.Entries[0].ParticipantID)
	assert.Equal(t, 33.34, d.Entries[0].Amount)
	assert.True(t, d.Entries[2].IsPayer)

	code, _ = s.do(t, http.MethodPost, "/api/v1/drafts", map[string]any{"strategy": "equal", "total": 10, "group_id": "missing"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/groups/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/groups", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/groups/"+group.ID+"/members", map[string]any{"members": []models.Participant{}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/drafts", map[string]any{"strategy": "equal", "total": 10, "participants": alicebob})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `splitshare_splits_initialized_total{strategy="equal"} 1`)
	assert.Contains(t, rec.Body.String(), "splitshare_active_drafts 1")
}
