package gallery

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LT1923/4c2025/internal/apitest"
	"github.com/LT1923/4c2025/internal/client"
	"github.com/LT1923/4c2025/internal/models"
)

type fixedUser struct{ user *models.User }

func (f fixedUser) GetUser() *models.User { return f.user }

func setup(t *testing.T) (*Gallery, *apitest.Server, models.User) {
	t.Helper()
	api := apitest.New(t)
	u := api.AddUser("13800000000", "secret1")
	c := client.New(api.BaseURL(), 0, zerolog.Nop())
	return New(c, fixedUser{user: &u}, zerolog.Nop()), api, u
}

func text(s string) *string { return &s }

func TestWithoutSession(t *testing.T) {
	api := apitest.New(t)
	g := New(client.New(api.BaseURL(), 0, zerolog.Nop()), fixedUser{}, zerolog.Nop())

	assert.Zero(t, g.UserID())
	assert.Empty(t, g.AllPhotos())
	assert.Empty(t, g.RecentPhotos())
	assert.Empty(t, g.TrashPhotos())
	assert.Empty(t, g.Albums())
	assert.Empty(t, g.Search("cat", models.ViewAll))
	assert.NotNil(t, g.AllPhotos())

	up := g.Upload(Upload{FilePath: apitest.WritePNG(t, "a.png")})
	assert.False(t, up.Success)
	assert.Equal(t, models.MsgNotLoggedIn, up.Message)

	created := g.CreateAlbum(NewAlbum{Name: "trip"})
	assert.False(t, created.Success)
	assert.Equal(t, models.MsgNotLoggedIn, created.Message)

	// No session means no requests at all
	assert.Empty(t, api.Requests())
}

func TestListings(t *testing.T) {
	g, api, u := setup(t)

	albumID := api.AddAlbum(models.Album{Name: "trip", UserID: u.ID})
	inAlbum := api.AddPhoto(models.Photo{Address: "a.png", UserID: u.ID, AlbumID: &albumID, Text: text("beach")})
	api.AddPhoto(models.Photo{Address: "b.png", UserID: u.ID, Text: text("mountain")})
	trashed := api.AddPhoto(models.Photo{Address: "c.png", UserID: u.ID, Status: models.PhotoTrash, Text: text("beach ball")})
	api.AddPhoto(models.Photo{Address: "d.png", UserID: u.ID + 100})

	assert.Equal(t, u.ID, g.UserID())
	assert.Len(t, g.AllPhotos(), 2)
	assert.Len(t, g.RecentPhotos(), 2)

	trash := g.TrashPhotos()
	require.Len(t, trash, 1)
	assert.Equal(t, trashed, trash[0].ID)

	photos := g.AlbumPhotos(albumID)
	require.Len(t, photos, 1)
	assert.Equal(t, inAlbum, photos[0].ID)

	albums := g.Albums()
	require.Len(t, albums, 1)
	assert.Equal(t, 1, albums[0].PhotoCount)

	album := g.Album(albumID)
	require.NotNil(t, album)
	assert.Equal(t, "trip", album.Name)

	assert.Nil(t, g.Album(9999))
	assert.Nil(t, g.Album(0))
	assert.Empty(t, g.AlbumPhotos(0))
	assert.Empty(t, g.AlbumPhotos(9999))

	found := g.Search("BEACH", "")
	require.Len(t, found, 1)
	assert.Equal(t, inAlbum, found[0].ID)

	found = g.Search("beach", models.ViewTrash)
	require.Len(t, found, 1)
	assert.Equal(t, trashed, found[0].ID)
}

func TestListings_DegradeOnServerFailure(t *testing.T) {
	g, api, u := setup(t)
	path := "/api/photos/user/" + itoa(u.ID)
	api.Respond(http.MethodGet, path, http.StatusInternalServerError, `{"success":false,"message":"db down"}`)
	api.Respond(http.MethodGet, "/api/albums/user/"+itoa(u.ID), http.StatusOK, `{"success":false,"message":"nope"}`)

	photos := g.AllPhotos()
	assert.NotNil(t, photos)
	assert.Empty(t, photos)
	assert.Empty(t, g.Albums())

	// Search with an empty keyword is a 400 from the server
	assert.Empty(t, g.Search("", models.ViewAll))
}

func TestUploadAndCreateAlbum(t *testing.T) {
	g, api, u := setup(t)

	created := g.CreateAlbum(NewAlbum{Name: "trip", Content: "summer"})
	require.True(t, created.Success)
	album, ok := api.Album(created.AlbumID)
	require.True(t, ok)
	assert.Equal(t, u.ID, album.UserID)
	assert.Equal(t, "summer", album.Content)

	up := g.Upload(Upload{FilePath: apitest.WritePNG(t, "sea.png"), AlbumID: &created.AlbumID})
	require.True(t, up.Success)
	assert.NotZero(t, up.PhotoID)
	assert.Contains(t, up.PhotoURL, "sea.png")

	photo, ok := api.Photo(up.PhotoID)
	require.True(t, ok)
	assert.Equal(t, u.ID, photo.UserID)

	bad := g.Upload(Upload{FilePath: "notes.txt"})
	assert.False(t, bad.Success)
	assert.Contains(t, bad.Message, "unsupported file type")

	empty := g.CreateAlbum(NewAlbum{})
	assert.False(t, empty.Success)
	assert.Contains(t, empty.Message, "invalid request")
}

func TestTrashLifecycle(t *testing.T) {
	g, api, u := setup(t)
	id := api.AddPhoto(models.Photo{Address: "a.png", UserID: u.ID})

	require.True(t, g.MoveToTrash(id).Success)
	p, _ := api.Photo(id)
	assert.Equal(t, models.PhotoTrash, p.Status)

	require.True(t, g.RestoreFromTrash(id).Success)
	p, _ = api.Photo(id)
	assert.Equal(t, models.PhotoNormal, p.Status)

	require.True(t, g.MoveToTrash(id).Success)
	require.True(t, g.PermanentlyDelete(id).Success)
	_, ok := api.Photo(id)
	assert.False(t, ok)

	res := g.PermanentlyDelete(id)
	assert.False(t, res.Success)
	assert.Equal(t, "photo does not exist", res.Message)
}

func TestMutations(t *testing.T) {
	g, api, u := setup(t)
	albumID := api.AddAlbum(models.Album{Name: "trip", UserID: u.ID})
	photoID := api.AddPhoto(models.Photo{Address: "a.png", UserID: u.ID})

	require.True(t, g.MoveToAlbum(photoID, &albumID).Success)
	p, _ := api.Photo(photoID)
	require.NotNil(t, p.AlbumID)
	assert.Equal(t, albumID, *p.AlbumID)

	require.True(t, g.MoveToAlbum(photoID, nil).Success)
	p, _ = api.Photo(photoID)
	assert.Nil(t, p.AlbumID)

	missing := int64(9999)
	res := g.MoveToAlbum(photoID, &missing)
	assert.False(t, res.Success)
	assert.Equal(t, "album does not exist", res.Message)

	require.True(t, g.UpdatePhoto(photoID, client.PhotoUpdate{Text: text("sunset")}).Success)
	p, _ = api.Photo(photoID)
	require.NotNil(t, p.Text)
	assert.Equal(t, "sunset", *p.Text)

	require.True(t, g.UpdateAlbum(albumID, client.AlbumUpdate{Name: text("holiday")}).Success)
	a, _ := api.Album(albumID)
	assert.Equal(t, "holiday", a.Name)

	res = g.UpdateAlbum(albumID, client.AlbumUpdate{})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "nothing to update")

	require.True(t, g.DeleteAlbum(albumID).Success)
	res = g.DeleteAlbum(albumID)
	assert.False(t, res.Success)
	assert.Equal(t, "album does not exist", res.Message)

	require.True(t, g.DeletePhoto(photoID).Success)
}

func TestMutations_FallbackAndNetworkMessages(t *testing.T) {
	g, api, _ := setup(t)
	api.Respond(http.MethodPut, "/api/photos/1/status", http.StatusOK, `{"success":false}`)
	api.Respond(http.MethodDelete, "/api/albums/1", http.StatusBadGateway, ``)

	res := g.MoveToTrash(1)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to move photo to trash", res.Message)

	res = g.DeleteAlbum(1)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to delete album", res.Message)

	api.Close()
	res = g.RestoreFromTrash(1)
	assert.False(t, res.Success)
	assert.Equal(t, models.MsgNetworkError, res.Message)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
