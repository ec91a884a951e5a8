package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipegram-app/recipegram/internal/auth"
	"github.com/recipegram-app/recipegram/internal/config"
	"github.com/recipegram-app/recipegram/internal/database"
	"github.com/recipegram-app/recipegram/internal/database/recipes"
	"github.com/recipegram-app/recipegram/internal/database/users"
	"github.com/recipegram-app/recipegram/internal/media"
	"github.com/recipegram-app/recipegram/internal/services"
)

// testApp is a full application stack behind an httptest server. Its client
// carries the session cookie between requests.
type testApp struct {
	server *httptest.Server
	client *nethttp.Client
}

func setupTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_router_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	mediaStore, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	usersRepo := users.NewRepository(db.DB)
	recipesRepo := recipes.NewRepository(db.DB)

	authService := auth.NewService(usersRepo, mediaStore, auth.NewBcryptHasher(bcrypt.MinCost))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessionManager, err := auth.NewSessionManager(sqlDB, config.Auth{
		SessionLifetime: 24 * time.Hour,
	})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:       db,
		RecipesRepo:    recipesRepo,
		RecipeService:  services.NewRecipeService(recipesRepo, mediaStore),
		AuthService:    authService,
		SessionManager: sessionManager,
		MediaDir:       mediaStore.Dir(),
		Version:        "test",
	})

	server := httptest.NewServer(router)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	app := &testApp{
		server: server,
		client: &nethttp.Client{Jar: jar},
	}
	cleanup := func() {
		server.Close()
		db.Close()
		os.Remove(dbPath)
	}
	return app, cleanup
}

func (a *testApp) postJSON(t *testing.T, path string, body any) *nethttp.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := a.client.Post(a.server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func (a *testApp) get(t *testing.T, path string) *nethttp.Response {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp
}

func (a *testApp) delete(t *testing.T, path string) *nethttp.Response {
	t.Helper()
	req, err := nethttp.NewRequest(nethttp.MethodDelete, a.server.URL+path, nil)
	require.NoError(t, err)
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *nethttp.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
}

func (a *testApp) register(t *testing.T, username, password string) {
	t.Helper()
	resp := a.postJSON(t, "/api/auth/register", gin.H{"username": username, "password": password})
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
}

func soupRequest() gin.H {
	return gin.H{
		"name": "Soup",
		"time": "20 min",
		"ingredients": []gin.H{
			{"name": "Water", "amount": "1L"},
		},
		"steps": []gin.H{
			{"description": "Boil it"},
		},
	}
}

func TestRouter_Health(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	resp := app.get(t, "/health")
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestRouter_RegisterAndMe(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	// Registration logs the user in
	resp := app.get(t, "/api/auth/me")
	var me struct {
		Username string `json:"username"`
	}
	decodeJSON(t, resp, &me)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "chef1", me.Username)
}

func TestRouter_Register_Duplicate(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	resp := app.postJSON(t, "/api/auth/register", gin.H{"username": "CHEF1", "password": "other"})
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	resp := app.postJSON(t, "/api/auth/login", gin.H{"username": "chef1", "password": "wrong"})
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Publish_RequiresAuth(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	resp := app.postJSON(t, "/api/recipes", soupRequest())
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Publish_Validation(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"time": "5 min", "ingredients": []gin.H{{"name": "Salt"}}, "steps": []gin.H{{"description": "Do it"}}}},
		{"missing time", gin.H{"name": "Soup", "ingredients": []gin.H{{"name": "Salt"}}, "steps": []gin.H{{"description": "Do it"}}}},
		{"no ingredients", gin.H{"name": "Soup", "time": "5 min", "steps": []gin.H{{"description": "Do it"}}}},
		{"only blank ingredients", gin.H{"name": "Soup", "time": "5 min", "ingredients": []gin.H{{"name": "  "}}, "steps": []gin.H{{"description": "Do it"}}}},
		{"no steps", gin.H{"name": "Soup", "time": "5 min", "ingredients": []gin.H{{"name": "Salt"}}}},
		{"step without description", gin.H{"name": "Soup", "time": "5 min", "ingredients": []gin.H{{"name": "Salt"}}, "steps": []gin.H{{"name": "Prep"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := app.postJSON(t, "/api/recipes", tc.body)
			defer resp.Body.Close()
			assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRouter_PublishFeedDetailDelete(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	// Publish
	resp := app.postJSON(t, "/api/recipes", soupRequest())
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var published struct {
		RecipeID uint `json:"recipe_id"`
	}
	decodeJSON(t, resp, &published)
	require.NotZero(t, published.RecipeID)

	// Feed is public and carries the summary projection
	resp = app.get(t, "/api/recipes")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var feed []recipes.Summary
	decodeJSON(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "Soup", feed[0].Name)
	assert.Equal(t, "chef1", feed[0].AuthorName)
	assert.Equal(t, 1, feed[0].IngredientsCount)
	assert.Equal(t, 1, feed[0].StepsCount)

	// Detail is public too
	resp = app.get(t, fmt.Sprintf("/api/recipes/%d", published.RecipeID))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var detail recipes.Detail
	decodeJSON(t, resp, &detail)
	assert.Equal(t, "Soup", detail.Name)
	require.Len(t, detail.Steps, 1)
	assert.Equal(t, 1, detail.Steps[0].StepOrder)

	// Own recipes listing
	resp = app.get(t, "/api/users/me/recipes")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var mine []recipes.Summary
	decodeJSON(t, resp, &mine)
	require.Len(t, mine, 1)

	// Delete and verify it is gone
	resp = app.delete(t, fmt.Sprintf("/api/recipes/%d", published.RecipeID))
	resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp = app.get(t, fmt.Sprintf("/api/recipes/%d", published.RecipeID))
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestRouter_Delete_OnlyOwn(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")
	resp := app.postJSON(t, "/api/recipes", soupRequest())
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	var published struct {
		RecipeID uint `json:"recipe_id"`
	}
	decodeJSON(t, resp, &published)

	// Switch to a different account in the same cookie jar
	resp = app.postJSON(t, "/api/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	app.register(t, "chef2", "secret")

	resp = app.delete(t, fmt.Sprintf("/api/recipes/%d", published.RecipeID))
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	// The recipe is still there
	resp = app.get(t, fmt.Sprintf("/api/recipes/%d", published.RecipeID))
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	app.register(t, "chef1", "secret")

	resp := app.postJSON(t, "/api/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp = app.postJSON(t, "/api/recipes", soupRequest())
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Detail_InvalidID(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	resp := app.get(t, "/api/recipes/not-a-number")
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestRouter_UnknownRoute(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	resp := app.get(t, "/api/nope")
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}
