package quota

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postQuota(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/quota", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Quota(rec, req)
	return rec
}

func newQuotaHandler(store Store) *Handler {
	return NewHandler(NewService(store, 20))
}

func TestQuota_MissingUserID(t *testing.T) {
	h := newQuotaHandler(NewMemoryStore())

	rec := postQuota(t, h, `{"action":"get"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "userId is required", resp["error"])
}

func TestQuota_InvalidAction(t *testing.T) {
	h := newQuotaHandler(NewMemoryStore())

	rec := postQuota(t, h, `{"userId":"`+uuid.NewString()+`","action":"reset"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `invalid action`)
}

func TestQuota_InvalidUUID(t *testing.T) {
	h := newQuotaHandler(NewMemoryStore())

	rec := postQuota(t, h, `{"userId":"not-a-uuid","action":"get"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuota_InvalidJSON(t *testing.T) {
	h := newQuotaHandler(NewMemoryStore())

	rec := postQuota(t, h, `{"userId"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestQuota_GetFlow(t *testing.T) {
	store := NewMemoryStore()
	h := newQuotaHandler(store)
	userID := uuid.New()
	store.Seed(Record{UserID: userID, QuestionsUsed: 4, Date: Today()})

	rec := postQuota(t, h, `{"userId":"`+userID.String()+`","action":"get"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 4, status.DailyQuestionsUsed)
	assert.Equal(t, 16, status.Remaining)
}

func TestQuota_IncrementFlow(t *testing.T) {
	h := newQuotaHandler(NewMemoryStore())
	userID := uuid.NewString()

	rec := postQuota(t, h, `{"userId":"`+userID+`","action":"increment"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	// Wire field names are part of the client contract.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.EqualValues(t, 1, raw["daily_questions_used"])
	assert.EqualValues(t, 19, raw["remaining"])
}
