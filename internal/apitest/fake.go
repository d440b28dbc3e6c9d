// Package apitest runs an in-memory stand-in for the photo album API so the
// client, session, gallery and front-end packages can be tested end to end.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LT1923/4c2025/internal/models"
)

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

type cannedResponse struct {
	status int
	body   string
}

type account struct {
	user     models.User
	password string
}

// Server is a fake API listening on a local port
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*account // by phone
	photos   map[int64]*models.Photo
	albums   map[int64]*models.Album
	nextID   int64
	canned   map[string]cannedResponse
	requests []string
}

// New starts a fake API and stops it when the test ends
func New(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		accounts: make(map[string]*account),
		photos:   make(map[int64]*models.Photo),
		albums:   make(map[int64]*models.Album),
		canned:   make(map[string]cannedResponse),
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Server.Close)
	return s
}

// BaseURL is the API root to hand to client.New
func (s *Server) BaseURL() string {
	return s.Server.URL + "/api"
}

// Respond makes every "METHOD /api/path" request answer with status and raw body
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests lists "METHOD /api/path" for every request received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// AddUser registers an account directly and returns its record
func (s *Server) AddUser(phone, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(phone, password)
}

func (s *Server) addUserLocked(phone, password string) models.User {
	s.nextID++
	u := models.User{
		ID:    s.nextID,
		Phone: phone,
	}
	s.accounts[phone] = &account{user: u, password: password}
	return u
}

// AddPhoto stores p and returns its id
func (s *Server) AddPhoto(p models.Photo) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	if p.Time == "" {
		p.Time = time.Now().UTC().Format(http.TimeFormat)
	}
	s.photos[p.ID] = &p
	return p.ID
}

// AddAlbum stores a and returns its id
func (s *Server) AddAlbum(a models.Album) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	s.albums[a.ID] = &a
	return a.ID
}

// Photo returns a copy of a stored photo
func (s *Server) Photo(id int64) (models.Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return models.Photo{}, false
	}
	return *p, true
}

// Album returns a copy of a stored album
func (s *Server) Album(id int64) (models.Album, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.albums[id]
	if !ok {
		return models.Album{}, false
	}
	return *a, true
}

func (s *Server) routes() http.Handler {
	r := gin.New()
	r.Use(s.record())

	api := r.Group("/api")

	api.POST("/users/register", s.register)
	api.POST("/users/login", s.login)

	api.POST("/photos/upload", s.upload)
	api.GET("/photos/user/:id", s.photosOf(models.PhotoNormal, false))
	api.GET("/photos/recent/:id", s.photosOf(models.PhotoNormal, true))
	api.GET("/photos/trash/:id", s.photosOf(models.PhotoTrash, false))
	api.GET("/photos/search/:id", s.search)
	api.PUT("/photos/move/:id", s.move)
	api.PUT("/photos/:id", s.updatePhoto)
	api.PUT("/photos/:id/status", s.setStatus)
	api.DELETE("/photos/:id", s.deletePhoto)

	api.POST("/albums/create", s.createAlbum)
	api.GET("/albums/user/:id", s.albumsOf)
	api.GET("/albums/:id", s.getAlbum)
	api.PUT("/albums/:id", s.updateAlbum)
	api.DELETE("/albums/:id", s.deleteAlbum)
	api.GET("/albums/:id/photos", s.albumPhotos)

	return r
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path

		s.mu.Lock()
		s.requests = append(s.requests, key)
		canned, ok := s.canned[key]
		s.mu.Unlock()

		if ok {
			c.Data(canned.status, "application/json", []byte(canned.body))
			c.Abort()
			return
		}
		c.Next()
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (s *Server) register(c *gin.Context) {
	var req struct {
		Phone    *string `json:"phone"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == nil || req.Password == nil {
		fail(c, http.StatusBadRequest, "phone and password are required")
		return
	}
	if !phonePattern.MatchString(*req.Phone) {
		fail(c, http.StatusBadRequest, "invalid phone number")
		return
	}
	if len(*req.Password) < 6 {
		fail(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[*req.Phone]; exists {
		fail(c, http.StatusBadRequest, "phone number already registered")
		return
	}
	u := s.addUserLocked(*req.Phone, *req.Password)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "registered", "user_id": u.ID})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Phone    *string `json:"phone"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Phone == nil || req.Password == nil {
		fail(c, http.StatusBadRequest, "phone and password are required")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[*req.Phone]
	s.mu.Unlock()

	if !ok {
		fail(c, http.StatusUnauthorized, "user does not exist")
		return
	}
	if acct.password != *req.Password {
		fail(c, http.StatusUnauthorized, "wrong password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged in",
		"user": gin.H{
			"id":         acct.user.ID,
			"phone":      acct.user.Phone,
			"created_at": "Wed, 01 Oct 2025 08:00:00 GMT",
		},
	})
}

func (s *Server) sortedPhotos(keep func(*models.Photo) bool) []models.Photo {
	out := []models.Photo{}
	for _, p := range s.photos {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Server) photosOf(status models.PhotoStatus, recent bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c)
		if !ok {
			return
		}

		s.mu.Lock()
		photos := s.sortedPhotos(func(p *models.Photo) bool {
			return p.UserID == userID && p.Status == status
		})
		s.mu.Unlock()

		if recent && len(photos) > 20 {
			photos = photos[:20]
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "photos": photos})
	}
}

func (s *Server) search(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	if keyword == "" {
		fail(c, http.StatusBadRequest, "keyword is required")
		return
	}

	status := models.PhotoNormal
	if c.DefaultQuery("view", "all") == string(models.ViewTrash) {
		status = models.PhotoTrash
	}

	s.mu.Lock()
	photos := s.sortedPhotos(func(p *models.Photo) bool {
		return p.UserID == userID && p.Status == status &&
			p.Text != nil && strings.Contains(strings.ToLower(*p.Text), strings.ToLower(keyword))
	})
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "photos": photos, "count": len(photos)})
}

func (s *Server) upload(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		fail(c, http.StatusBadRequest, "no photo provided")
		return
	}
	userID, err := strconv.ParseInt(c.PostForm("user_id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "user id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	address := fmt.Sprintf("uploads/%d/%s", userID, filepath.Base(file.Filename))
	p := &models.Photo{
		ID:      s.nextID,
		Address: address,
		Time:    time.Now().UTC().Format(http.TimeFormat),
		UserID:  userID,
	}
	if v := c.PostForm("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 2 {
			p.Status = models.PhotoStatus(n)
		}
	}
	if v := c.PostForm("album_id"); v != "" {
		if albumID, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.AlbumID = &albumID
			if a, ok := s.albums[albumID]; ok && a.CoverURL == nil {
				a.CoverURL = &address
			}
		}
	}
	s.photos[p.ID] = p

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "uploaded", "photo_id": p.ID, "photo_url": address})
}

func (s *Server) move(c *gin.Context) {
	photoID, ok := idParam(c)
	if !ok {
		return
	}
	var req map[string]*int64
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "album id is required")
		return
	}
	albumID, present := req["album_id"]
	if !present {
		fail(c, http.StatusBadRequest, "album id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photos[photoID]
	if !ok {
		fail(c, http.StatusNotFound, "photo does not exist")
		return
	}
	if albumID != nil {
		a, ok := s.albums[*albumID]
		if !ok {
			fail(c, http.StatusNotFound, "album does not exist")
			return
		}
		if a.CoverURL == nil {
			cover := p.Address
			a.CoverURL = &cover
		}
	}
	p.AlbumID = albumID

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "moved"})
}

func (s *Server) updatePhoto(c *gin.Context) {
	photoID, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Text    *string `json:"text"`
		AlbumID *int64  `json:"album_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || (req.Text == nil && req.AlbumID == nil) {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photos[photoID]
	if !ok {
		fail(c, http.StatusNotFound, "photo does not exist")
		return
	}
	if req.Text != nil {
		p.Text = req.Text
	}
	if req.AlbumID != nil {
		p.AlbumID = req.AlbumID
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "updated"})
}

func (s *Server) setStatus(c *gin.Context) {
	photoID, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status *int `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}
	if *req.Status != 0 && *req.Status != 1 {
		fail(c, http.StatusBadRequest, "invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.photos[photoID]
	if !ok {
		fail(c, http.StatusNotFound, "photo does not exist")
		return
	}
	p.Status = models.PhotoStatus(*req.Status)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated"})
}

func (s *Server) deletePhoto(c *gin.Context) {
	photoID, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photoID]; !ok {
		fail(c, http.StatusNotFound, "photo does not exist")
		return
	}
	delete(s.photos, photoID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

func (s *Server) photoCount(albumID int64) int {
	n := 0
	for _, p := range s.photos {
		if p.AlbumID != nil && *p.AlbumID == albumID {
			n++
		}
	}
	return n
}

func (s *Server) createAlbum(c *gin.Context) {
	var req struct {
		Name     *string `json:"name"`
		Content  string  `json:"content"`
		UserID   *int64  `json:"user_id"`
		CoverURL *string `json:"cover_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || req.UserID == nil {
		fail(c, http.StatusBadRequest, "album name and user id are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	a := &models.Album{
		ID:        s.nextID,
		Name:      *req.Name,
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		UserID:    *req.UserID,
		CreatedAt: time.Now().UTC().Format(http.TimeFormat),
	}
	s.albums[a.ID] = a

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "album created", "album_id": a.ID})
}

func (s *Server) albumsOf(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	albums := []models.Album{}
	for _, a := range s.albums {
		if a.UserID == userID {
			out := *a
			out.PhotoCount = s.photoCount(a.ID)
			albums = append(albums, out)
		}
	}
	s.mu.Unlock()
	sort.Slice(albums, func(i, j int) bool { return albums[i].ID > albums[j].ID })

	c.JSON(http.StatusOK, gin.H{"success": true, "albums": albums})
}

func (s *Server) getAlbum(c *gin.Context) {
	albumID, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.albums[albumID]
	if !ok {
		fail(c, http.StatusNotFound, "album does not exist")
		return
	}
	out := *a
	out.PhotoCount = s.photoCount(a.ID)

	c.JSON(http.StatusOK, gin.H{"success": true, "album": out})
}

func (s *Server) updateAlbum(c *gin.Context) {
	albumID, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Content  *string `json:"content"`
		CoverURL *string `json:"cover_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.albums[albumID]
	if !ok {
		fail(c, http.StatusNotFound, "album does not exist")
		return
	}
	if req.Name == nil && req.Content == nil && req.CoverURL == nil {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.CoverURL != nil {
		a.CoverURL = req.CoverURL
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "album updated"})
}

func (s *Server) deleteAlbum(c *gin.Context) {
	albumID, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[albumID]; !ok {
		fail(c, http.StatusNotFound, "album does not exist")
		return
	}
	delete(s.albums, albumID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "album deleted"})
}

func (s *Server) albumPhotos(c *gin.Context) {
	albumID, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[albumID]; !ok {
		fail(c, http.StatusNotFound, "album does not exist")
		return
	}
	photos := s.sortedPhotos(func(p *models.Photo) bool {
		return p.AlbumID != nil && *p.AlbumID == albumID && p.Status == models.PhotoNormal
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "photos": photos})
}

// pngHeader is enough of a PNG for content sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// WritePNG writes a file that sniffs as image/png and returns its path
func WritePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, pngHeader, 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}
