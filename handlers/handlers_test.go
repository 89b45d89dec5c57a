package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"nikodex/auth"
	"nikodex/config"
	"nikodex/db"
	"nikodex/locks"
	"nikodex/models"
	"nikodex/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	mem    *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, db.Open(sqlite.Open("file::memory:?_foreign_keys=on")))
	require.NoError(t, models.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	mem := storage.NewMemoryStorage()
	storage.Default = mem
	config.SECRET_KEY = "handler-tests"
	config.BOT_SHARED_SECRET = "bot-secret"
	config.PICK_TIMEZONE = "UTC"
	config.COMMENT_RATE_LIMIT = 5
	models.PickLocker = locks.Noop{}

	router := gin.New()
	Routes(router)
	return &testServer{t: t, router: router, mem: mem}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

// user registers an account and returns it together with an access token
func (s *testServer) user(username string, isAdmin bool) (models.User, string) {
	s.t.Helper()
	u, err := models.UserCreate(models.UserChange{Username: username, Password: "secret", Description: "hi"})
	require.NoError(s.t, err)
	if isAdmin {
		require.NoError(s.t, models.UserSetAdmin(username, true))
		u.IsAdmin = true
	}
	token, _, err := auth.NewToken(&u)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) niko(token string, req NikoRequest) NikoResponse {
	s.t.Helper()
	w := s.json(http.MethodPost, "/nikos", token, req)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var n NikoResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &n))
	return n
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func multipartBody(t *testing.T, fields map[string]string, contentType string, file []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="upload"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.json(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.json(http.MethodGet, "/readyz", "", nil).Code)
}

func TestUserRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/users", "", UserChangeRequest{NewUsername: "alice", NewPassword: "pw", NewDescription: "hello"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode[UserProfile](t, w)
	assert.Equal(t, "alice", profile.Username)
	assert.False(t, profile.IsAdmin)
	assert.NotContains(t, w.Body.String(), "hashed")

	w = s.json(http.MethodPost, "/users", "", UserChangeRequest{NewUsername: "alice", NewPassword: "pw", NewDescription: "again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.json(http.MethodPost, "/users", "", UserChangeRequest{NewUsername: "bad name!", NewPassword: "pw", NewDescription: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	login := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {"alice"}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return s.do(req, "")
	}
	w = login("wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = login("pw")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[TokenResponse](t, w)
	assert.Equal(t, "bearer", token.TokenType)

	w = s.json(http.MethodGet, "/users/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[UserProfile](t, w).Username)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	_, userToken := s.user("bob", false)

	w := s.json(http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = s.json(http.MethodGet, "/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.json(http.MethodPost, "/nikos", userToken, NikoRequest{Name: "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(http.MethodPost, "/blogs", userToken, BlogRequest{Title: "t", Author: "a", Content: "c"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRenamedUserMustLogInAgain(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("carol", false)

	w := s.json(http.MethodPut, "/users/me", token, UserChangeRequest{NewUsername: "caroline"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNikoLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("admin", true)
	owner, ownerToken := s.user("owner", false)
	_, strangerToken := s.user("stranger", false)

	ownerID := int64(owner.ID)
	n := s.niko(adminToken, NikoRequest{Name: "Niko", Description: "d", AuthorID: &ownerID})
	assert.Equal(t, "owner", n.AuthorName)
	require.NotNil(t, n.User)
	assert.Equal(t, owner.ID, n.User.ID)

	legacy := s.niko(adminToken, NikoRequest{Name: "Legacy", Author: "Someone"})
	assert.Equal(t, "Someone", legacy.AuthorName)
	assert.Nil(t, legacy.AuthorID)

	missing := int64(9999)
	w := s.json(http.MethodPost, "/nikos", adminToken, NikoRequest{Name: "X", AuthorID: &missing})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Specified author ID does not exist.")

	path := "/nikos/" + itoa(n.ID)
	w = s.json(http.MethodPut, path, strangerToken, NikoRequest{Name: "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(http.MethodPut, path, ownerToken, NikoRequest{Name: "Renamed", AuthorID: &ownerID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Renamed", decode[NikoResponse](t, w).Name)

	w = s.json(http.MethodGet, "/nikos/count", "", nil)
	assert.Equal(t, "2", w.Body.String())

	w = s.json(http.MethodGet, "/nikos?sort_by=name_ascending", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]NikoResponse](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Legacy", list[0].Name)

	w = s.json(http.MethodGet, "/nikos?sort_by=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodGet, "/nikos/search?name=ena", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]NikoResponse](t, w), 1)

	w = s.json(http.MethodGet, "/nikos/page?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodGet, "/nikos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.json(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAbilities(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("admin", true)
	_, userToken := s.user("someone", false)
	n := s.niko(adminToken, NikoRequest{Name: "Niko"})

	w := s.json(http.MethodPost, "/abilities", userToken, AbilityRequest{Name: "fly", NikoID: n.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(http.MethodPost, "/abilities", adminToken, AbilityRequest{Name: "fly", NikoID: 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(http.MethodPost, "/abilities", adminToken, AbilityRequest{Name: "fly", NikoID: n.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/nikos/"+itoa(n.ID), "", nil)
	got := decode[NikoResponse](t, w)
	require.Len(t, got.Abilities, 1)
	assert.Equal(t, "fly", got.Abilities[0].Name)
}

func TestNikoOfTheDay(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("admin", true)

	w := s.json(http.MethodGet, "/nikos/notd", "", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)

	n := s.niko(adminToken, NikoRequest{Name: "Only"})
	w = s.json(http.MethodGet, "/nikos/notd", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, n.ID, decode[NikoResponse](t, w).ID)

	refresh, err := time.Parse(time.RFC3339, w.Header().Get("X-RefreshAt"))
	require.NoError(t, err)
	assert.True(t, refresh.After(time.Now()))
	assert.Zero(t, refresh.UTC().Hour())
}

func TestPostsAndComments(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.user("alice", false)
	_, bobToken := s.user("bob", false)

	body, contentType := multipartBody(t, map[string]string{"title": "Hello", "content": "World"}, "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, aliceToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post := decode[PostResponse](t, w)
	assert.NotEmpty(t, post.Image)
	assert.Equal(t, 1, s.mem.Len())

	w = s.json(http.MethodGet, "/posts/"+itoa(post.ID)+"/image", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60", w.Header().Get("cache-control"))

	w = s.json(http.MethodPost, "/comments", bobToken, CommentRequest{PostID: post.ID, Content: "nice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	comment := decode[CommentResponse](t, w)

	w = s.json(http.MethodPost, "/comments", bobToken, CommentRequest{PostID: post.ID, Content: "again"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = s.json(http.MethodGet, "/posts/"+itoa(post.ID)+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]CommentResponse](t, w), 1)

	w = s.json(http.MethodDelete, "/comments/"+itoa(comment.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(http.MethodDelete, "/posts/"+itoa(post.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.json(http.MethodDelete, "/posts/"+itoa(post.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.mem.Len())
}

func TestUploadValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user("alice", false)

	body, contentType := multipartBody(t, map[string]string{"title": "T", "content": "C"}, "text/plain", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Not a valid image file")

	body, contentType = multipartBody(t, map[string]string{"title": "T", "content": "C"}, "image/png", []byte("garbage"))
	req = httptest.NewRequest(http.MethodPost, "/posts", body)
	req.Header.Set("Content-Type", contentType)
	w = s.do(req, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.mem.Len())
}

func TestProfilePicture(t *testing.T) {
	s := newTestServer(t)
	alice, aliceToken := s.user("alice", false)
	_, bobToken := s.user("bob", false)
	path := "/users/" + itoa(alice.ID) + "/profile_picture"

	w := s.json(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	body, contentType := multipartBody(t, nil, "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusForbidden, s.do(req, bobToken).Code)

	body, contentType = multipartBody(t, nil, "image/png", pngBytes(t))
	req = httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", contentType)
	require.Equal(t, http.StatusOK, s.do(req, aliceToken).Code)
	assert.Equal(t, 1, s.mem.Len())
	stored, err := models.UserByID(alice.ID)
	require.NoError(t, err)
	assert.True(t, s.mem.Exists(stored.ProfilePicturePath()))

	w = s.json(http.MethodGet, "/users/"+itoa(alice.ID), "", nil)
	assert.True(t, decode[UserProfile](t, w).HasProfilePicture)

	w = s.json(http.MethodDelete, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.mem.Len())
}

func TestSubmissionApprove(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("admin", true)
	artist, artistToken := s.user("artist", false)

	body, contentType := multipartBody(t, map[string]string{"name": "Fresh", "description": "new"}, "image/png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/submissions", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, artistToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	submission := decode[models.Submission](t, w)

	path := "/submissions/" + itoa(submission.ID) + "/approve"
	assert.Equal(t, http.StatusForbidden, s.json(http.MethodPost, path, artistToken, nil).Code)

	w = s.json(http.MethodPost, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	n := decode[NikoResponse](t, w)
	assert.Equal(t, "Fresh", n.Name)
	require.NotNil(t, n.AuthorID)
	assert.Equal(t, artist.ID, *n.AuthorID)
	assert.True(t, s.mem.Exists("niko-"+itoa(n.ID)+".png"))

	w = s.json(http.MethodGet, "/submissions/"+itoa(submission.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBannerAndBlogs(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.user("admin", true)

	w := s.json(http.MethodGet, "/banner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.json(http.MethodPost, "/banner", adminToken, BannerRequest{Title: "Event", Content: "Tonight", BannerColor: "#ff0000", IsDismissable: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.json(http.MethodGet, "/banner", "", nil)
	assert.Equal(t, "Event", decode[models.Banner](t, w).Title)

	w = s.json(http.MethodPost, "/blogs", adminToken, BlogRequest{Title: "News", Author: "team", Content: "body"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	blog := decode[models.Blog](t, w)

	w = s.json(http.MethodGet, "/blogs", "", nil)
	assert.Len(t, decode[[]models.Blog](t, w), 1)

	w = s.json(http.MethodDelete, "/blogs/"+itoa(blog.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.json(http.MethodGet, "/blogs/"+itoa(blog.ID), "", nil).Code)
}

func TestBotSubmitUser(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/discord_bot/submit_user?user_id=42", nil)
	assert.Equal(t, http.StatusUnauthorized, s.do(req, "").Code)

	bot := func(method string, body any) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			data, _ := json.Marshal(body)
			reader = bytes.NewReader(data)
		}
		req := httptest.NewRequest(method, "/discord_bot/submit_user?user_id=42", reader)
		req.Header.Set("Authorization", "bot-secret")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}
	assert.Equal(t, http.StatusNotFound, bot(http.MethodGet, nil).Code)

	w := bot(http.MethodPost, SubmitUserRequest{LastSubmitOn: 1700000000, IsBanned: true, BanReason: "spam"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = bot(http.MethodGet, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.SubmitUser](t, w)
	assert.True(t, got.IsBanned)
	assert.Equal(t, "spam", got.BanReason)
}
