package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LT1923/4c2025/internal/apitest"
	"github.com/LT1923/4c2025/internal/app"
	"github.com/LT1923/4c2025/internal/config"
	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/session"
	"github.com/LT1923/4c2025/internal/storage"
	"github.com/LT1923/4c2025/internal/views"
)

type testEnv struct {
	api     *apitest.Server
	app     *app.App
	handler http.Handler
	user    models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := apitest.New(t)
	user := api.AddUser("13800000000", "secret1")

	cfg := config.Default()
	cfg.API.BaseURL = api.BaseURL()
	cfg.Storage.Backend = "memory"

	a, err := app.NewWithStorage(cfg, storage.NewMemory(), zerolog.Nop())
	require.NoError(t, err)

	return &testEnv{
		api:     api,
		app:     a,
		handler: New(a, zerolog.Nop(), "test").Handler(),
		user:    user,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", CredentialsRequest{Phone: "13800000000", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "online")
}

func TestGuard_RedirectsWithoutSession(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{"/", "/recent", "/albums", "/album/1", "/trash"} {
		w := e.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/auth", w.Header().Get("Location"), path)
	}

	w := e.do(t, http.MethodGet, "/auth", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	v := decode[views.View](t, w)
	assert.Equal(t, "Auth", v.Route)
}

func TestGuard_LoggedInLeavesAuth(t *testing.T) {
	e := newTestEnv(t)
	e.api.AddPhoto(models.Photo{Address: "a.png", UserID: e.user.ID})
	e.login(t)

	w := e.do(t, http.MethodGet, "/auth", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = e.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[views.View](t, w)
	assert.Equal(t, "Home", v.Route)
	require.NotNil(t, v.User)
	assert.Equal(t, e.user.ID, v.User.ID)
	assert.Len(t, v.Photos, 1)
}

func TestGuard_CorruptStoredSession(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.app.Storage.Set(session.StorageKey, "{broken"))

	// The guard only checks presence, so the page is served
	w := e.do(t, http.MethodGet, "/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[views.View](t, w)
	assert.Nil(t, v.User)
	assert.Empty(t, v.Photos)

	// Rendering hydrated the session, which discarded the value
	_, ok, err := e.app.Storage.Get(session.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	w = e.do(t, http.MethodGet, "/recent", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLogin_Failure(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/login", CredentialsRequest{Phone: "13800000000", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	res := decode[session.LoginResult](t, w)
	assert.False(t, res.Success)
	assert.Equal(t, "Server error (401)", res.Message)

	w = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"phone": "13800000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterAndLogout(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/auth/register", CredentialsRequest{Phone: "13900000000", Password: "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[session.RegisterResult](t, w)
	assert.NotZero(t, res.UserID)

	me := decode[MeResponse](t, e.do(t, http.MethodGet, "/api/auth/me", nil))
	assert.False(t, me.Authenticated)

	e.login(t)
	me = decode[MeResponse](t, e.do(t, http.MethodGet, "/api/auth/me", nil))
	assert.True(t, me.Authenticated)

	for range 2 {
		w = e.do(t, http.MethodPost, "/api/auth/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[models.Result](t, w).Success)
	}

	w = e.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestActions_RequireSession(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/photos/1/trash", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.MsgNotLoggedIn, decode[models.Result](t, w).Message)

	w = e.do(t, http.MethodGet, "/api/search?keyword=x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPhotoActions(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	// Upload
	path := apitest.WritePNG(t, "beach.png")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "beach.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var up struct {
		Success  bool   `json:"success"`
		PhotoID  int64  `json:"photo_id"`
		PhotoURL string `json:"photo_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	assert.True(t, up.Success)
	assert.True(t, strings.HasSuffix(up.PhotoURL, "beach.png"))
	id := strconv.FormatInt(up.PhotoID, 10)

	// Caption, then search for it
	w = e.do(t, http.MethodPut, "/api/photos/"+id, UpdatePhotoRequest{Text: ptr("sunny beach")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	found := decode[SearchResponse](t, e.do(t, http.MethodGet, "/api/search?keyword=sunny", nil))
	assert.Equal(t, 1, found.Count)

	w = e.do(t, http.MethodGet, "/api/search?keyword=sunny&view=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Trash, restore, trash, delete
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/photos/"+id+"/trash", nil).Code)
	trash := decode[views.View](t, e.do(t, http.MethodGet, "/trash", nil))
	assert.Len(t, trash.Photos, 1)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/photos/"+id+"/restore", nil).Code)
	p, _ := e.api.Photo(up.PhotoID)
	assert.Equal(t, models.PhotoNormal, p.Status)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/api/photos/"+id, nil).Code)
	w = e.do(t, http.MethodDelete, "/api/photos/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "photo does not exist", decode[models.Result](t, w).Message)

	w = e.do(t, http.MethodPost, "/api/photos/abc/trash", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlbumActions(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)
	photoID := e.api.AddPhoto(models.Photo{Address: "a.png", UserID: e.user.ID})

	w := e.do(t, http.MethodPost, "/api/albums", CreateAlbumRequest{Name: "trip"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		AlbumID int64 `json:"album_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	albumID := strconv.FormatInt(created.AlbumID, 10)

	w = e.do(t, http.MethodPut, "/api/photos/"+strconv.FormatInt(photoID, 10)+"/album", MovePhotoRequest{AlbumID: &created.AlbumID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	v := decode[views.View](t, e.do(t, http.MethodGet, "/album/"+albumID, nil))
	require.NotNil(t, v.Album)
	assert.Equal(t, "trip", v.Album.Name)
	assert.Len(t, v.Photos, 1)

	albums := decode[views.View](t, e.do(t, http.MethodGet, "/albums", nil))
	require.Len(t, albums.Albums, 1)
	assert.Equal(t, 1, albums.Albums[0].PhotoCount)

	w = e.do(t, http.MethodPut, "/api/albums/"+albumID, UpdateAlbumRequest{Name: ptr("holiday")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a, _ := e.api.Album(created.AlbumID)
	assert.Equal(t, "holiday", a.Name)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/api/albums/"+albumID, nil).Code)

	w = e.do(t, http.MethodGet, "/album/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/albums", map[string]string{"content": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActions_NetworkFailure(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)
	e.api.Close()

	w := e.do(t, http.MethodPost, "/api/photos/1/trash", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, models.MsgNetworkError, decode[models.Result](t, w).Message)
}

func TestLogin_NetworkFailure(t *testing.T) {
	e := newTestEnv(t)
	e.api.Close()

	w := e.do(t, http.MethodPost, "/api/auth/login", CredentialsRequest{Phone: "13800000000", Password: "secret1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	res := decode[session.LoginResult](t, w)
	assert.False(t, res.Success)
	assert.Equal(t, models.MsgNetworkError, res.Message)
}

func ptr[T any](v T) *T {
	return &v
}
