package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LT1923/4c2025/internal/models"
	"github.com/LT1923/4c2025/internal/router"
)

type stubGallery struct {
	albumCalls []int64
}

func (s *stubGallery) AllPhotos() []models.Photo    { return []models.Photo{{ID: 1}, {ID: 2}} }
func (s *stubGallery) RecentPhotos() []models.Photo { return []models.Photo{{ID: 2}} }
func (s *stubGallery) TrashPhotos() []models.Photo  { return []models.Photo{{ID: 3, Status: models.PhotoTrash}} }
func (s *stubGallery) Albums() []models.Album       { return []models.Album{{ID: 10, Name: "trip"}} }

func (s *stubGallery) AlbumPhotos(albumID int64) []models.Photo {
	s.albumCalls = append(s.albumCalls, albumID)
	return []models.Photo{{ID: 4, AlbumID: &albumID}}
}

func (s *stubGallery) Album(albumID int64) *models.Album {
	return &models.Album{ID: albumID, Name: "trip"}
}

type stubUsers struct{ user *models.User }

func (s stubUsers) GetUser() *models.User { return s.user }

func TestBuild(t *testing.T) {
	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)

	user := &models.User{ID: 1, Phone: "13800000000"}
	g := &stubGallery{}
	b := NewBuilder(g, stubUsers{user: user})

	tests := []struct {
		path   string
		photos int
		albums int
		album  bool
	}{
		{path: "/", photos: 2},
		{path: "/recent", photos: 1},
		{path: "/trash", photos: 1},
		{path: "/albums", albums: 1},
		{path: "/album/10", photos: 1, album: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, err := table.Resolve(tt.path)
			require.NoError(t, err)

			v, err := b.Build(m)
			require.NoError(t, err)
			assert.Equal(t, m.Route.Name, v.Route)
			assert.Same(t, user, v.User)
			assert.Len(t, v.Photos, tt.photos)
			assert.Len(t, v.Albums, tt.albums)
			assert.Equal(t, tt.album, v.Album != nil)
		})
	}

	assert.Equal(t, []int64{10}, g.albumCalls)
}

func TestBuild_AuthViewCarriesNoUser(t *testing.T) {
	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)

	m, err := table.Resolve(router.AuthPath)
	require.NoError(t, err)

	v, err := NewBuilder(&stubGallery{}, stubUsers{user: &models.User{ID: 1}}).Build(m)
	require.NoError(t, err)
	assert.Nil(t, v.User)
	assert.Empty(t, v.Photos)
}

func TestBuild_BadAlbumID(t *testing.T) {
	table, err := router.NewTable(router.DefaultRoutes())
	require.NoError(t, err)

	for _, path := range []string{"/album/abc", "/album/0", "/album/-3"} {
		m, err := table.Resolve(path)
		require.NoError(t, err)

		_, err = NewBuilder(&stubGallery{}, stubUsers{}).Build(m)
		assert.ErrorIs(t, err, ErrBadParam, path)
	}
}
