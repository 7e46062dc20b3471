package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"recipe-feed/domain"
	"recipe-feed/internal/testutil"
	"recipe-feed/internal/utils"
	"recipe-feed/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func newTestApp(t *testing.T) (*fiber.App, *testutil.MemoryStorage) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	utils.LoadConfigFile(filepath.Join(t.TempDir(), "config.yaml"))

	store := testutil.NewMemoryStorage()
	app, err := NewApp(context.Background(), testutil.NewTestDB(t), AppOptions{
		Storage:   store,
		LogOutput: io.Discard,
		RateLimit: -1,
	})
	require.NoError(t, err)
	return app, store
}

func (c *client) do(req *http.Request) (*http.Response, envelope) {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == domain.SessionCookieName {
			if cookie.Value == "" {
				c.cookie = nil
			} else {
				c.cookie = cookie
			}
		}
	}

	var body envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func (c *client) json(method, path string, payload any) (*http.Response, envelope) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return c.do(req)
}

func (c *client) upload(filename, contentType string, data []byte) (*http.Response, envelope) {
	c.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (c *client) signUp(username string) domain.AuthResponse {
	c.t.Helper()
	resp, body := c.json(fiber.MethodPost, "/api/v1/auth/sign-up", domain.SignUpRequest{
		Username:        username,
		Password:        "correct horse",
		PasswordConfirm: "correct horse",
	})
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode, body.Error)
	require.NotNil(c.t, c.cookie)
	return decode[domain.AuthResponse](c.t, body.Data)
}

func (c *client) createRecipe(title string) domain.Recipe {
	c.t.Helper()
	resp, body := c.upload("photo.png", "image/png", []byte("png-bytes"))
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode, body.Error)
	uploaded := decode[domain.MediaResponse](c.t, body.Data)

	resp, body = c.json(fiber.MethodPost, "/api/v1/recipes", domain.CreateRecipeRequest{
		Title:       title,
		Ingredients: []domain.IngredientRequest{{Content: "water"}, {Content: "salt"}},
		Content:     "<p>" + strings.Repeat("Stir gently. ", 6) + "</p>",
		MediaKey:    uploaded.Key,
	})
	require.Equal(c.t, fiber.StatusCreated, resp.StatusCode, body.Error)
	return decode[domain.Recipe](c.t, body.Data)
}

func TestPing(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}

	resp, body := c.json(fiber.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.MessageRouteNotFound, body.Message)
}

func TestAuthFlow(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}

	user := c.signUp("Ana")
	assert.Equal(t, "Ana", user.User.Username)
	assert.Equal(t, "/", user.RedirectTo)
	assert.True(t, c.cookie.HttpOnly)
	assert.Equal(t, "/", c.cookie.Path)

	resp, body := c.json(fiber.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := decode[domain.UserResponse](t, body.Data)
	assert.Equal(t, user.User.ID, me.ID)

	resp, _ = c.json(fiber.MethodPost, "/api/v1/auth/sign-out", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, c.cookie)

	resp, body = c.json(fiber.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Status)

	resp, body = c.json(fiber.MethodPost, "/api/v1/auth/sign-in", domain.SignInRequest{Username: "ana", Password: "wrong password"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, domain.ErrInvalidUsernamePassword.Error(), body.Error)

	resp, _ = c.json(fiber.MethodPost, "/api/v1/auth/sign-in", domain.SignInRequest{Username: "ana", Password: "correct horse"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, c.cookie)

	resp, _ = c.json(fiber.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignUpConflictsAndValidation(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}
	c.signUp("Ana")

	other := &client{t: t, app: app}
	resp, body := other.json(fiber.MethodPost, "/api/v1/auth/sign-up", domain.SignUpRequest{
		Username:        "ana",
		Password:        "correct horse",
		PasswordConfirm: "correct horse",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, domain.ErrUsernameTaken.Error(), body.Error)
	assert.Nil(t, other.cookie)

	resp, body = other.json(fiber.MethodPost, "/api/v1/auth/sign-up", domain.SignUpRequest{
		Username:        "bo",
		Password:        "correct horse",
		PasswordConfirm: "correct horse",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body.Error, "username must be at least 3"), body.Error)

	resp, body = other.json(fiber.MethodPost, "/api/v1/auth/sign-up", domain.SignUpRequest{
		Username:        "bob",
		Password:        "correct horse",
		PasswordConfirm: "correct horsf",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "password_confirm does not match password", body.Error)
	assert.NotContains(t, body.Error, "Field validation")

	resp, body = other.json(fiber.MethodPost, "/api/v1/auth/sign-up", domain.SignUpRequest{
		Username:        "bob",
		Password:        strings.Repeat("é", 40),
		PasswordConfirm: strings.Repeat("é", 40),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "password must be at most 72 bytes long", body.Error)
	assert.Nil(t, other.cookie)
}

func TestNewAppRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	utils.LoadConfigFile(filepath.Join(t.TempDir(), "config.yaml"))

	app, err := NewApp(context.Background(), testutil.NewTestDB(t), AppOptions{
		Storage:   testutil.NewMemoryStorage(),
		LogOutput: io.Discard,
		RateLimit: -1,
	})
	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
	assert.Nil(t, app)
}

func TestRecipeFlow(t *testing.T) {
	app, store := newTestApp(t)
	ana := &client{t: t, app: app}
	ana.signUp("ana")
	bob := &client{t: t, app: app}
	bob.signUp("bob")
	anonymous := &client{t: t, app: app}

	created := ana.createRecipe("Tomato soup")
	assert.Equal(t, "Tomato soup", created.Title)
	require.NotNil(t, created.User)
	assert.Equal(t, "ana", created.User.Username)
	assert.True(t, store.Has(created.MediaKey))

	resp, body := anonymous.json(fiber.MethodGet, "/api/v1/feed", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	feed := decode[domain.FeedPage](t, body.Data)
	require.Len(t, feed.Rows, 1)
	assert.Nil(t, feed.NextPage)
	assert.Contains(t, string(body.Data), `"next_page":null`)

	resp, body = bob.json(fiber.MethodPut, "/api/v1/recipes/"+created.ID+"/like", fiber.Map{"liked": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body.Error)
	liked := decode[domain.UpdateLikeResponse](t, body.Data)
	assert.Equal(t, int64(1), liked.Likes)
	assert.True(t, liked.UserHasLiked)

	resp, body = bob.json(fiber.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail := decode[domain.Recipe](t, body.Data)
	assert.True(t, detail.UserHasLiked)
	assert.Equal(t, int64(1), detail.Likes)

	resp, _ = anonymous.json(fiber.MethodPut, "/api/v1/recipes/"+created.ID+"/like", fiber.Map{"liked": true})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = bob.json(fiber.MethodDelete, "/api/v1/recipes/"+created.ID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = bob.json(fiber.MethodPut, "/api/v1/recipes/"+created.ID, domain.EditRecipeRequest{
		Title:       "Stolen",
		Ingredients: []domain.IngredientRequest{{Content: "water"}},
		Content:     "<p>" + strings.Repeat("Stir gently. ", 6) + "</p>",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body = anonymous.json(fiber.MethodGet, "/api/v1/search?query=TOMATO", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	results := decode[[]domain.SearchResult](t, body.Data)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)

	resp, body = anonymous.json(fiber.MethodGet, "/api/v1/profiles/ANA", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	profile := decode[domain.ProfileResponse](t, body.Data)
	require.Len(t, profile.Recipes, 1)

	resp, body = ana.json(fiber.MethodDelete, "/api/v1/recipes/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body.Error)
	assert.False(t, store.Has(created.MediaKey))

	resp, _ = anonymous.json(fiber.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateRecipeValidation(t *testing.T) {
	app, _ := newTestApp(t)
	ana := &client{t: t, app: app}
	ana.signUp("ana")

	resp, body := ana.upload("photo.png", "image/png", []byte("png-bytes"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Error)
	uploaded := decode[domain.MediaResponse](t, body.Data)

	cases := map[string]domain.CreateRecipeRequest{
		"short content": {
			Title: "Soup", Ingredients: []domain.IngredientRequest{{Content: "water"}},
			Content: "<p>" + strings.Repeat("a", 49) + "</p>", MediaKey: uploaded.Key,
		},
		"blank title": {
			Title: "   ", Ingredients: []domain.IngredientRequest{{Content: "water"}},
			Content: strings.Repeat("a", 60), MediaKey: uploaded.Key,
		},
		"no ingredients": {
			Title: "Soup", Content: strings.Repeat("a", 60), MediaKey: uploaded.Key,
		},
		"blank ingredient": {
			Title: "Soup", Ingredients: []domain.IngredientRequest{{Content: " "}},
			Content: strings.Repeat("a", 60), MediaKey: uploaded.Key,
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := ana.json(fiber.MethodPost, "/api/v1/recipes", req)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	resp, _ = ana.upload("notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteAccount(t *testing.T) {
	app, _ := newTestApp(t)
	ana := &client{t: t, app: app}
	ana.signUp("ana")
	created := ana.createRecipe("Soup")
	cookie := ana.cookie

	resp, _ := ana.json(fiber.MethodDelete, "/api/v1/users/me", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	stale := &client{t: t, app: app, cookie: cookie}
	resp, _ = stale.json(fiber.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := stale.json(fiber.MethodGet, "/api/v1/recipes/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	detail := decode[domain.Recipe](t, body.Data)
	assert.Nil(t, detail.User)
}
