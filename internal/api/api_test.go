package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-dbt/backend/internal/service"
	"github.com/aura-dbt/backend/internal/session"
	"github.com/aura-dbt/backend/internal/testhelpers"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	router := gin.New()
	SetupAPI(router, Deps{
		Auth:     service.NewAuthService(db, "test-secret"),
		Profiles: service.NewProfileStore(db, nil),
		Diaries:  service.NewDiaryStore(db, nil, nil),
		Sessions: session.NewRegistry(nil),
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "ada@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterConflict(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "ada@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/onboarding/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/history", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// completeOnboarding walks the whole interview over HTTP.
func completeOnboarding(t *testing.T, router *gin.Engine, token string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPut, "/api/v1/onboarding/fields", token, gin.H{
		"firstName":      "Ada",
		"lastName":       "Lovelace",
		"age":            30,
		"takesMediation": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, sel := range []struct {
		category string
		indices  []int
	}{
		{"urges", []int{0, 2}},
		{"goals", []int{1, 4}},
		{"actions", []int{0, 3, 8}},
	} {
		for _, idx := range sel.indices {
			w := doJSON(t, router, http.MethodPost,
				fmt.Sprintf("/api/v1/onboarding/selections/%s/toggle", sel.category),
				token, gin.H{"index": idx})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			require.Equal(t, "added", decode(t, w)["outcome"])
		}
	}

	// intro .. reminder
	for i := 0; i < 8; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/next", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/onboarding/complete", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestOnboardingFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/onboarding/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "intro", decode(t, w)["step"])

	completeOnboarding(t, router, token)

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "Ada", profile["firstName"])
	assert.Equal(t, true, profile["takesMediation"])
	assert.Len(t, profile["selectedUrgeIds"], 2)
	assert.Len(t, profile["selectedActionIds"], 3)
}

func TestOnboardingNextBlockedWhenIncomplete(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	// Advance past intro to the first-name step, which has no value yet.
	w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/onboarding/next", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOnboardingToggleLimit(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	for _, idx := range []int{0, 1} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/selections/urges/toggle", token, gin.H{"index": idx})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/selections/urges/toggle", token, gin.H{"index": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "limit_reached", decode(t, w)["outcome"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/onboarding/selections/urges/toggle", token, gin.H{"index": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/onboarding/selections/nonsense/toggle", token, gin.H{"index": 0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnboardingCustomItem(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/selections/goals/custom", token, gin.H{"name": "Practice Piano"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	item, ok := body["item"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Practice Piano", item["name"])
	assert.NotEmpty(t, item["id"])
}

func TestDiaryFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode(t, w)
	assert.Equal(t, "urges", state["step"])
	urges, ok := state["urgeIntensities"].(map[string]any)
	require.True(t, ok)
	// Three fixed plus the two selected during onboarding.
	assert.Len(t, urges, 5)

	w = doJSON(t, router, http.MethodPut, "/api/v1/diary/responses", token, gin.H{
		"urgeIntensities": gin.H{"self-harm": 15},
		"skillRating":     7,
		"note":            "long day",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state = decode(t, w)
	urges = state["urgeIntensities"].(map[string]any)
	// Clamped, not rejected.
	assert.EqualValues(t, 10, urges["self-harm"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/complete", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	card := decode(t, w)
	assert.Equal(t, "long day", card["note"].(map[string]any)["text"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["completed"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])
}

func TestDiaryDuplicateCompleteKeepsSavedCard(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPut, "/api/v1/diary/responses", token, gin.H{
		"urgeIntensities": gin.H{"self-harm": 7},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/complete", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A duplicate submit after success is rejected rather than replacing
	// the saved card with an empty one through the same-date upsert.
	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/complete", token, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode(t, w)
	assert.Equal(t, true, today["completed"])
	responses := today["card"].(map[string]any)["urgeResponses"].([]any)
	assert.NotEmpty(t, responses)
}

func TestOnboardingDuplicateCompleteRejected(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/onboarding/complete", token, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// The profile saved by the first completion is untouched.
	w = doJSON(t, router, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", decode(t, w)["firstName"])
}

func TestDiaryStartRequiresOnboarding(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDiaryResumeSameDay(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPut, "/api/v1/diary/responses", token, gin.H{
		"urgeIntensities": gin.H{"self-harm": 4},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/complete", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Starting again on the same day resumes from the saved card.
	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	urges := decode(t, w)["urgeIntensities"].(map[string]any)
	assert.EqualValues(t, 4, urges["self-harm"])
}

func TestDiaryCancel(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/diary/start", token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/diary/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/diary/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)["state"].(map[string]any)
	assert.Equal(t, false, state["inProgress"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["completed"])
}

func TestProfileCustomItemAfterOnboarding(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)
	completeOnboarding(t, router, token)

	w := doJSON(t, router, http.MethodPost, "/api/v1/profile/custom/urges", token, gin.H{"name": "Urge to Scroll"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/profile/items", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)
	// Three fixed, two selected, one custom.
	assert.Len(t, items["urges"], 6)
}

func TestLogoutDropsFlowState(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/v1/onboarding/fields", token, gin.H{"firstName": "Ada"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Token is still valid (stateless), but the flow state is gone.
	w = doJSON(t, router, http.MethodGet, "/api/v1/onboarding/state", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["firstName"])
}

func TestExportRouteAbsentWithoutS3(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/export", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
