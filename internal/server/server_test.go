package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rianperassoli/daily-diet-api/internal/config"
	"github.com/rianperassoli/daily-diet-api/internal/model"
)

// These are end-to-end tests: they drive the fully wired router (real
// services, real in-memory SQLite) through httptest, exercising the
// exact wire contract a client sees — status codes, cookies, and JSON
// shapes.

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Port:     0,
		DBPath:   ":memory:",
		LogLevel: "error",
		Env:      "test",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

// doJSON sends a request through the router. cookie may be nil for
// anonymous requests; body may be empty.
func doJSON(t *testing.T, srv *Server, method, path string, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

// registerAndLogin registers a user and returns their session cookie.
func registerAndLogin(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()

	rr := doJSON(t, srv, http.MethodPost, "/users", nil,
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodPost, "/auth", nil,
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusAccepted, rr.Code)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "userId" {
			return c
		}
	}
	t.Fatal("login response did not set the userId cookie")
	return nil
}

// createMeal creates a meal through the API and asserts the 201.
func createMeal(t *testing.T, srv *Server, cookie *http.Cookie, name, mealDate string, diet bool) {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"description":"test meal","meal_date":%q,"diet":%v}`, name, mealDate, diet)
	rr := doJSON(t, srv, http.MethodPost, "/meals", cookie, body)
	require.Equal(t, http.StatusCreated, rr.Code)
}

// listMeals fetches the caller's meals and decodes the payload.
func listMeals(t *testing.T, srv *Server, cookie *http.Cookie) []model.Meal {
	t.Helper()
	rr := doJSON(t, srv, http.MethodGet, "/meals", cookie, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Meals []model.Meal `json:"meals"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	return payload.Meals
}

// =========================================================================
// USERS
// =========================================================================

func TestRegisterAndLookup(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/users", nil, `{"username":"rian","password":"secret123"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodGet, "/users/rian", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		User *model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.NotNil(t, payload.User)
	assert.Equal(t, "rian", payload.User.Username)

	// The password must never appear on the wire.
	assert.NotContains(t, rr.Body.String(), "secret123")
	assert.NotContains(t, rr.Body.String(), `"password"`)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/users", nil, `{"username":"rian","password":"a"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodPost, "/users", nil, `{"username":"rian","password":"b"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "no body", body: ""},
		{name: "empty object", body: `{}`},
		{name: "missing password", body: `{"username":"rian"}`},
		{name: "missing username", body: `{"password":"x"}`},
		{name: "not json", body: `username=rian`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/users", nil, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLookup_UnknownUsernameIsNull(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/users/nobody", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user":null}`, rr.Body.String())
}

// =========================================================================
// AUTH
// =========================================================================

func TestAuth_SetsSessionCookie(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "secret123")

	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	assert.NotEmpty(t, cookie.Value)
}

func TestAuth_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "rian", "secret123")

	rr := doJSON(t, srv, http.MethodPost, "/auth", nil, `{"username":"rian","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ExistingCookieSkipsBody(t *testing.T) {
	// A request that already holds the cookie is re-authorized without
	// a body — it is never even parsed.
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "secret123")

	rr := doJSON(t, srv, http.MethodPost, "/auth", cookie, "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"success":"Authorized!"}`, rr.Body.String())
}

func TestAuth_SuccessBody(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodPost, "/users", nil, `{"username":"rian","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodPost, "/auth", nil, `{"username":"rian","password":"pw"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"success":"Authorized!"}`, rr.Body.String())
}

// =========================================================================
// MEALS
// =========================================================================

func TestMeals_RequireSession(t *testing.T) {
	srv := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/meals"},
		{http.MethodGet, "/meals/summary"},
		{http.MethodGet, "/meals/5fbb4aa2-b58c-461b-b17a-644ad6f0b3c7"},
		{http.MethodPost, "/meals"},
		{http.MethodPut, "/meals/5fbb4aa2-b58c-461b-b17a-644ad6f0b3c7"},
		{http.MethodDelete, "/meals/5fbb4aa2-b58c-461b-b17a-644ad6f0b3c7"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr := doJSON(t, srv, rt.method, rt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestMeals_CreateAndListOrdered(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	createMeal(t, srv, cookie, "Lunch", "2023-06-01T12:00:00Z", true)
	createMeal(t, srv, cookie, "Dinner", "2023-06-01T19:00:00Z", false)
	createMeal(t, srv, cookie, "Breakfast", "2023-06-01T08:00:00Z", true)

	meals := listMeals(t, srv, cookie)
	require.Len(t, meals, 3)
	assert.Equal(t, "Dinner", meals[0].Name)
	assert.Equal(t, "Lunch", meals[1].Name)
	assert.Equal(t, "Breakfast", meals[2].Name)
}

func TestMeals_GetByID(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")
	createMeal(t, srv, cookie, "Lunch", "2023-06-01T12:00:00Z", true)
	id := listMeals(t, srv, cookie)[0].ID

	rr := doJSON(t, srv, http.MethodGet, "/meals/"+id, cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Meal *model.Meal `json:"meal"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.NotNil(t, payload.Meal)
	assert.Equal(t, "Lunch", payload.Meal.Name)
}

func TestMeals_GetByID_MissingIsNull(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	rr := doJSON(t, srv, http.MethodGet, "/meals/5fbb4aa2-b58c-461b-b17a-644ad6f0b3c7", cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"meal":null}`, rr.Body.String())
}

func TestMeals_GetByID_InvalidUUID(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	rr := doJSON(t, srv, http.MethodGet, "/meals/not-a-uuid", cookie, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeals_RoundTripPreservesInstant(t *testing.T) {
	// Different textual form, same instant: the stored meal_date must
	// equal 12:00 UTC regardless of the input's offset.
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")
	createMeal(t, srv, cookie, "Lunch", "2023-06-01T09:00:00-03:00", true)

	meals := listMeals(t, srv, cookie)
	require.Len(t, meals, 1)
	assert.Equal(t, "2023-06-01T12:00:00Z", meals[0].MealDate.UTC().Format("2006-01-02T15:04:05Z07:00"))
}

func TestMeals_Update(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")
	createMeal(t, srv, cookie, "Lunch", "2023-06-01T12:00:00Z", true)
	id := listMeals(t, srv, cookie)[0].ID

	rr := doJSON(t, srv, http.MethodPut, "/meals/"+id, cookie, `{"name":"Big Lunch","diet":false}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	meals := listMeals(t, srv, cookie)
	assert.Equal(t, "Big Lunch", meals[0].Name)
	assert.False(t, meals[0].Diet)
	// Omitted fields kept their values.
	assert.Equal(t, "test meal", meals[0].Description)
}

func TestMeals_Update_UnknownIDIs404(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	rr := doJSON(t, srv, http.MethodPut, "/meals/5fbb4aa2-b58c-461b-b17a-644ad6f0b3c7", cookie, `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestMeals_Delete_IdempotentAnd200(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")
	createMeal(t, srv, cookie, "Snack", "2023-06-01T15:00:00Z", false)
	id := listMeals(t, srv, cookie)[0].ID

	rr := doJSON(t, srv, http.MethodDelete, "/meals/"+id, cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Second delete of the same id still succeeds.
	rr = doJSON(t, srv, http.MethodDelete, "/meals/"+id, cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Empty(t, listMeals(t, srv, cookie))
}

// =========================================================================
// OWNERSHIP
// =========================================================================

func TestMeals_CrossUserIsolation(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice", "pw-a")
	bob := registerAndLogin(t, srv, "bob", "pw-b")

	createMeal(t, srv, alice, "Alice's lunch", "2023-06-01T12:00:00Z", true)
	id := listMeals(t, srv, alice)[0].ID

	// Bob sees nothing in his list.
	assert.Empty(t, listMeals(t, srv, bob))

	// Point lookup of Alice's meal with Bob's session: null, not data.
	rr := doJSON(t, srv, http.MethodGet, "/meals/"+id, bob, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"meal":null}`, rr.Body.String())

	// Update with Bob's session: 404.
	rr = doJSON(t, srv, http.MethodPut, "/meals/"+id, bob, `{"name":"Bob's now"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Delete with Bob's session: succeeds as a no-op.
	rr = doJSON(t, srv, http.MethodDelete, "/meals/"+id, bob, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Alice still has her meal, unchanged.
	meals := listMeals(t, srv, alice)
	require.Len(t, meals, 1)
	assert.Equal(t, "Alice's lunch", meals[0].Name)
}

// =========================================================================
// SUMMARY
// =========================================================================

func TestMeals_Summary(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	// Flags in descending-date order: T T F T T T F.
	flags := []bool{true, true, false, true, true, true, false}
	for i, diet := range flags {
		date := fmt.Sprintf("2023-06-%02dT12:00:00Z", 30-i)
		createMeal(t, srv, cookie, "Meal", date, diet)
	}

	rr := doJSON(t, srv, http.MethodGet, "/meals/summary", cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"summary":{"totalMeals":7,"mealsOnDiet":5,"mealsOnNonDiet":2,"bestSequenceOnDiet":3}}`, rr.Body.String())
}

func TestMeals_SummaryEmpty(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerAndLogin(t, srv, "rian", "pw")

	rr := doJSON(t, srv, http.MethodGet, "/meals/summary", cookie, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"summary":{"totalMeals":0,"mealsOnDiet":0,"mealsOnNonDiet":0,"bestSequenceOnDiet":0}}`, rr.Body.String())
}

// =========================================================================
// METRICS
// =========================================================================

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Generate at least one request so counters exist.
	doJSON(t, srv, http.MethodGet, "/users/nobody", nil, "")

	rr := doJSON(t, srv, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "dailydiet_http_requests_total")
}
