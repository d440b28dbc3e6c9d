package commands

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LT1923/4c2025/internal/apitest"
	"github.com/LT1923/4c2025/internal/app"
	"github.com/LT1923/4c2025/internal/cli/albumselect"
	"github.com/LT1923/4c2025/internal/config"
	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/router"
	"github.com/LT1923/4c2025/internal/session"
	"github.com/LT1923/4c2025/internal/storage"
)

// stubPrompter answers prompts without a terminal
type stubPrompter struct {
	password  string
	selection albumselect.Selection
	offered   []models.Album
	asked     int
}

func (p *stubPrompter) Password() (string, error) {
	p.asked++
	if p.password == "" {
		return "", errors.New("no terminal")
	}
	return p.password, nil
}

func (p *stubPrompter) SelectAlbum(albums []models.Album) (albumselect.Selection, error) {
	p.offered = albums
	return p.selection, nil
}

type harness struct {
	api      *apitest.Server
	store    *storage.Memory
	cfg      *config.Config
	prompter *stubPrompter
	user     models.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := apitest.New(t)
	user := api.AddUser("13800000000", "secret1")

	cfg := config.Default()
	cfg.API.BaseURL = api.BaseURL()
	cfg.Storage.Backend = "memory"

	return &harness{
		api:      api,
		store:    storage.NewMemory(),
		cfg:      cfg,
		prompter: &stubPrompter{},
		user:     user,
	}
}

// run executes one invocation, as a fresh process sharing the same storage
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	env := &Env{
		Load: func() (*app.App, error) {
			return app.NewWithStorage(h.cfg, h.store, zerolog.Nop())
		},
		Prompter: h.prompter,
	}
	defer env.Close()

	root := &cobra.Command{Use: "album", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(
		NewLoginCmd(env),
		NewRegisterCmd(env),
		NewLogoutCmd(env),
		NewWhoamiCmd(env),
		NewOpenCmd(env),
		NewPhotosCmd(env),
		NewSearchCmd(env),
		NewAlbumsCmd(env),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.run(t, "login", "--phone", "13800000000", "--password", "secret1")
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "login", "--phone", "13800000000", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "13800000000")

	// A later invocation picks the session up from storage
	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "13800000000 (id "+strconv.FormatInt(h.user.ID, 10)+")")
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "login", "--phone", "13800000000", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Server error (401)")

	_, err = h.run(t, "login", "--password", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone is required")

	// No flag, no env, prompt unavailable
	_, err = h.run(t, "login", "--phone", "13800000000")
	require.Error(t, err)
	assert.Equal(t, 1, h.prompter.asked)

	_, ok, err := h.store.Get(session.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_PasswordSources(t *testing.T) {
	h := newHarness(t)

	t.Setenv("ALBUM_PHONE", "13800000000")
	t.Setenv("ALBUM_PASSWORD", "secret1")
	_, err := h.run(t, "login")
	require.NoError(t, err)
	assert.Zero(t, h.prompter.asked)

	_, err = h.run(t, "logout")
	require.NoError(t, err)

	t.Setenv("ALBUM_PASSWORD", "")
	h.prompter.password = "secret1"
	_, err = h.run(t, "login")
	require.NoError(t, err)
	assert.Equal(t, 1, h.prompter.asked)
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "register", "--phone", "13900000000", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered")

	out, err = h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	_, err = h.run(t, "register", "--phone", "123", "--password", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registration failed")
}

func TestLogout_Twice(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	for range 2 {
		out, err := h.run(t, "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged out")
	}

	_, err := h.run(t, "photos", "ls")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestOpen_Guard(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "open", "/recent")
	require.NoError(t, err)
	assert.Contains(t, out, "redirected to /auth")
	assert.Contains(t, out, "Not logged in.")

	h.login(t)
	h.api.AddPhoto(models.Photo{Address: "uploads/a.png", UserID: h.user.ID})

	out, err = h.run(t, "open", "/auth")
	require.NoError(t, err)
	assert.Contains(t, out, "redirected to /")
	assert.Contains(t, out, "uploads/a.png")

	out, err = h.run(t, "open", "/trash")
	require.NoError(t, err)
	assert.NotContains(t, out, "redirected")
	assert.Contains(t, out, "Trash is empty.")

	_, err = h.run(t, "open", "/nowhere")
	assert.ErrorIs(t, err, router.ErrRouteNotFound)
}

func TestOpen_CorruptStoredSessionIsDroppedAtStartup(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Set(session.StorageKey, "{not json"))

	out, err := h.run(t, "open", "/")
	require.NoError(t, err)
	assert.Contains(t, out, "redirected to /auth")

	_, ok, err := h.store.Get(session.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPhotos(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	png := apitest.WritePNG(t, "beach.png")
	out, err := h.run(t, "photos", "upload", png)
	require.NoError(t, err)
	assert.Contains(t, out, "beach.png")

	out, err = h.run(t, "photos", "upload", "notes.txt")
	require.Error(t, err)
	assert.Contains(t, out, "unsupported file type")

	out, err = h.run(t, "photos", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "uploads/")

	id := findPhotoID(t, h)

	_, err = h.run(t, "photos", "edit", id, "--text", "sunny day")
	require.NoError(t, err)

	out, err = h.run(t, "search", "sunny")
	require.NoError(t, err)
	assert.Contains(t, out, "sunny day")

	_, err = h.run(t, "search", "sunny", "--view", "sideways")
	require.Error(t, err)

	_, err = h.run(t, "photos", "trash", id)
	require.NoError(t, err)

	out, err = h.run(t, "photos", "ls", "--trash")
	require.NoError(t, err)
	assert.Contains(t, out, "sunny day")

	out, err = h.run(t, "photos", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No photos found.")

	_, err = h.run(t, "photos", "restore", id)
	require.NoError(t, err)

	_, err = h.run(t, "photos", "rm", id)
	require.NoError(t, err)

	_, err = h.run(t, "photos", "rm", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photo does not exist")

	_, err = h.run(t, "photos", "trash", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid photo id")

	_, err = h.run(t, "photos", "edit", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestPhotosMove_Prompt(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	albumID := h.api.AddAlbum(models.Album{Name: "trip", UserID: h.user.ID})
	photoID := h.api.AddPhoto(models.Photo{Address: "a.png", UserID: h.user.ID})
	pid := strconv.FormatInt(photoID, 10)

	h.prompter.selection = albumselect.Selection{AlbumID: &albumID, Label: "trip"}
	out, err := h.run(t, "photos", "mv", pid)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved #"+pid+" to trip")
	require.Len(t, h.prompter.offered, 1)

	p, _ := h.api.Photo(photoID)
	require.NotNil(t, p.AlbumID)
	assert.Equal(t, albumID, *p.AlbumID)

	out, err = h.run(t, "photos", "ls", "--album", strconv.FormatInt(albumID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "a.png")

	_, err = h.run(t, "photos", "mv", pid, "--none")
	require.NoError(t, err)
	p, _ = h.api.Photo(photoID)
	assert.Nil(t, p.AlbumID)

	_, err = h.run(t, "photos", "mv", pid, "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "album does not exist")
}

func TestAlbums(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "albums", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No albums found.")

	out, err = h.run(t, "albums", "create", "trip", "--content", "summer")
	require.NoError(t, err)
	assert.Contains(t, out, `Created album "trip"`)

	var albumID int64
	for id := int64(1); id < 100; id++ {
		if a, ok := h.api.Album(id); ok && a.Name == "trip" {
			albumID = id
			break
		}
	}
	require.NotZero(t, albumID)
	aid := strconv.FormatInt(albumID, 10)

	out, err = h.run(t, "albums", "show", aid)
	require.NoError(t, err)
	assert.Contains(t, out, "trip (#"+aid+")")
	assert.Contains(t, out, "summer")

	_, err = h.run(t, "albums", "edit", aid, "--name", "holiday")
	require.NoError(t, err)

	out, err = h.run(t, "open", "/album/"+aid)
	require.NoError(t, err)
	assert.Contains(t, out, "holiday")

	_, err = h.run(t, "albums", "edit", aid)
	require.Error(t, err)

	_, err = h.run(t, "albums", "rm", aid)
	require.NoError(t, err)

	out, err = h.run(t, "albums", "show", aid)
	require.NoError(t, err)
	assert.Contains(t, out, "Album not found.")
}

// findPhotoID returns the id of the user's only photo
func findPhotoID(t *testing.T, h *harness) string {
	t.Helper()
	for id := int64(1); id < 100; id++ {
		if p, ok := h.api.Photo(id); ok && p.UserID == h.user.ID {
			return strconv.FormatInt(id, 10)
		}
	}
	t.Fatal("no photo found")
	return ""
}
