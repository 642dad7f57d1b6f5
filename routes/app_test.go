package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWith(t, AppConfig{JWTSecret: testSecret, CORSAllowOrigins: "*"})
}

func newTestAppWith(t *testing.T, cfg AppConfig) *fiber.App {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	h := &handlers.Handlers{
		DB:       db,
		Identity: services.NewIdentityService(db, services.NewTokenIssuer(testSecret, time.Hour)),
		Catalog:  services.NewCatalogService(db),
		Listings: services.NewListingService(db, collector),
		Bookings: services.NewBookingService(db, collector),
		Reviews:  services.NewReviewService(db, collector),
	}
	return NewApp(cfg, h, collector, registry)
}

type apiResponse struct {
	Status int
	Body   map[string]any
	Raw    string
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := apiResponse{Status: resp.StatusCode, Raw: string(raw)}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func register(t *testing.T, app *fiber.App, username string) (id, token string) {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	user := resp.Body["user"].(map[string]any)
	return user["id"].(string), resp.Body["access_token"].(string)
}

func nested(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func TestMarketplaceFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	aID, aToken := register(t, app, "teacher_a")
	_, bToken := register(t, app, "student_b")

	resp := call(t, app, http.MethodPost, "/api/skills", aToken, map[string]any{"name": "Guitar", "category": "Music"})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	skillID := nested(resp.Body, "skill")["id"].(string)

	resp = call(t, app, http.MethodPost, "/api/listings", aToken, map[string]any{
		"title":          "Guitar basics",
		"description":    "Open chords and strumming",
		"price_per_hour": 40,
		"skill_id":       skillID,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	listingID := nested(resp.Body, "listing")["id"].(string)

	resp = call(t, app, http.MethodPost, "/api/sessions", bToken, map[string]any{
		"listing_id":       listingID,
		"scheduled_at":     time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 60,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	session := nested(resp.Body, "session")
	sessionID := session["id"].(string)
	assert.Equal(t, "pending", session["status"])

	resp = call(t, app, http.MethodPut, "/api/sessions/"+sessionID, bToken, map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	for _, status := range []string{"confirmed", "completed"} {
		resp = call(t, app, http.MethodPut, "/api/sessions/"+sessionID, aToken, map[string]any{"status": status})
		require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
		assert.Equal(t, status, nested(resp.Body, "session")["status"])
	}

	resp = call(t, app, http.MethodPost, "/api/reviews", bToken, map[string]any{"session_id": sessionID, "rating": 5})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)

	resp = call(t, app, http.MethodPost, "/api/reviews", bToken, map[string]any{"session_id": sessionID, "rating": 4})
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.NotEmpty(t, resp.Body["error"])

	resp = call(t, app, http.MethodGet, "/api/users/"+aID, "", nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	assert.Equal(t, 5.0, resp.Body["average_rating"])
	assert.Equal(t, 1.0, resp.Body["review_count"])
	user := nested(resp.Body, "user")
	assert.Equal(t, "teacher_a", user["username"])
	_, hasEmail := user["email"]
	assert.False(t, hasEmail)
	assert.NotContains(t, resp.Raw, "password")

	resp = call(t, app, http.MethodGet, "/api/listings/"+listingID, "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	owner := nested(nested(resp.Body, "listing"), "owner")
	assert.Equal(t, 5.0, owner["average_rating"])

	resp = call(t, app, http.MethodGet, "/api/reviews?user_id="+aID+"&direction=received", "", nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	assert.Equal(t, 1.0, resp.Body["total"])

	resp = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Raw, "skillswap_reviews_created_total 1")
	assert.Contains(t, resp.Raw, `skillswap_session_transitions_total{to="completed"} 1`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.NotEmpty(t, resp.Body["error"])

	resp = call(t, app, http.MethodPost, "/api/listings", "garbage", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	_, token := register(t, app, "alice")
	resp = call(t, app, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "alice@example.com", nested(resp.Body, "user")["email"])
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "alice")

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.Status)
	assert.NotEmpty(t, resp.Body["access_token"])

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "invalid email or password", resp.Body["error"])
}

func TestErrorKindsMapToStatus(t *testing.T) {
	app := newTestApp(t)
	_, aToken := register(t, app, "alice")
	_, bToken := register(t, app, "bob")

	resp := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "alice", "email": "other@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "al"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = call(t, app, http.MethodGet, "/api/listings/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = call(t, app, http.MethodPost, "/api/skills", aToken, map[string]any{"name": "Yoga", "category": "Fitness"})
	require.Equal(t, http.StatusCreated, resp.Status)
	skillID := nested(resp.Body, "skill")["id"].(string)

	resp = call(t, app, http.MethodPost, "/api/listings", aToken, map[string]any{
		"title": "Yoga", "description": "Morning flow", "price_per_hour": "1000", "skill_id": skillID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = call(t, app, http.MethodPost, "/api/listings", aToken, map[string]any{
		"title": "Yoga", "description": "Morning flow", "price_per_hour": "25", "skill_id": skillID,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	listingID := nested(resp.Body, "listing")["id"].(string)

	resp = call(t, app, http.MethodPut, "/api/listings/"+listingID, bToken, map[string]any{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = call(t, app, http.MethodDelete, "/api/listings/"+listingID, bToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = call(t, app, http.MethodPost, "/api/sessions", aToken, map[string]any{
		"listing_id":       listingID,
		"scheduled_at":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 60,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "cannot book own listing", resp.Body["error"])

	resp = call(t, app, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.NotEmpty(t, resp.Body["error"])
}

func TestListingRoutesPrecedence(t *testing.T) {
	app := newTestApp(t)
	aID, aToken := register(t, app, "alice")

	resp := call(t, app, http.MethodPost, "/api/skills", aToken, map[string]any{"name": "Cooking", "category": "Lifestyle"})
	require.Equal(t, http.StatusCreated, resp.Status)
	skillID := nested(resp.Body, "skill")["id"].(string)

	resp = call(t, app, http.MethodPost, "/api/listings", aToken, map[string]any{
		"title": "Pasta", "description": "Fresh pasta", "price_per_hour": 30, "skill_id": skillID,
	})
	require.Equal(t, http.StatusCreated, resp.Status)

	resp = call(t, app, http.MethodGet, "/api/listings/my-listings", aToken, nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	assert.Len(t, resp.Body["listings"], 1)

	resp = call(t, app, http.MethodGet, "/api/listings/user/"+aID, "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, resp.Body["listings"], 1)

	resp = call(t, app, http.MethodGet, "/api/skills/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []any{"Lifestyle"}, resp.Body["categories"])

	resp = call(t, app, http.MethodGet, "/api/listings?search=pasta&per_page=5", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, 1.0, resp.Body["total"])
	assert.Equal(t, 5.0, resp.Body["per_page"])
	assert.Equal(t, 1.0, resp.Body["current_page"])
}

func TestProfileSkillsAndExperts(t *testing.T) {
	app := newTestApp(t)
	aID, aToken := register(t, app, "alice")
	_, bToken := register(t, app, "bob")

	resp := call(t, app, http.MethodPost, "/api/skills", aToken, map[string]any{"name": "Guitar", "category": "Music"})
	require.Equal(t, http.StatusCreated, resp.Status)
	skillID := nested(resp.Body, "skill")["id"].(string)

	resp = call(t, app, http.MethodPost, "/api/auth/profile/skills", aToken, map[string]any{
		"skill_id": skillID, "proficiency_level": "expert", "years_experience": 8,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)
	assert.Equal(t, "expert", nested(resp.Body, "skill")["proficiency_level"])

	resp = call(t, app, http.MethodPost, "/api/auth/profile/skills", aToken, map[string]any{
		"skill_id": skillID, "proficiency_level": "beginner",
	})
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = call(t, app, http.MethodPost, "/api/auth/profile/skills", bToken, map[string]any{
		"skill_id": skillID, "proficiency_level": "beginner", "years_experience": 1,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Raw)

	resp = call(t, app, http.MethodGet, "/api/users/experts", "", nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	assert.Equal(t, 1.0, resp.Body["total"])
	experts := resp.Body["experts"].([]any)
	require.Len(t, experts, 1)
	expert := experts[0].(map[string]any)
	assert.Equal(t, aID, nested(expert, "user")["id"])
	assert.NotContains(t, resp.Raw, "email")

	resp = call(t, app, http.MethodGet, "/api/users/"+aID, "", nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	skills := resp.Body["skills"].([]any)
	require.Len(t, skills, 1)
	skill := skills[0].(map[string]any)
	assert.Equal(t, skillID, skill["id"])
	assert.Equal(t, "Guitar", skill["name"])
	assert.Equal(t, 8.0, skill["years_experience"])

	resp = call(t, app, http.MethodDelete, "/api/auth/profile/skills/"+skillID, aToken, nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Raw)
	resp = call(t, app, http.MethodDelete, "/api/auth/profile/skills/"+skillID, aToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = call(t, app, http.MethodGet, "/api/users/experts", "", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, 0.0, resp.Body["total"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/health", "/api/health"} {
		resp := call(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.Status, path)
		assert.Equal(t, "ok", resp.Body["status"], path)
	}
}

func TestTableHasNoDuplicateRoutes(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Table(&handlers.Handlers{}) {
		key := r.Method + " " + r.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
	}
	assert.True(t, seen["GET /listings/my-listings"])
	assert.True(t, seen["DELETE /sessions/:id"])
}

func TestAuthRoutesAreThrottled(t *testing.T) {
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            1.0 / 60.0,
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer limiter.Stop()
	app := newTestAppWith(t, AppConfig{JWTSecret: testSecret, CORSAllowOrigins: "*", AuthLimiter: limiter})

	creds := map[string]any{"email": "nobody@example.com", "password": "secret123"}
	for i := 0; i < 2; i++ {
		resp := call(t, app, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	}

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.Status)
	assert.Equal(t, "too many requests", resp.Body["error"])

	// Unthrottled routes share the client IP but are not limited.
	resp = call(t, app, http.MethodGet, "/api/skills", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
}
