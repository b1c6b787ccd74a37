package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/domain"
	httpHandler "github.com/Abhijitam01/drawr/internal/handler/http"
	"github.com/Abhijitam01/drawr/internal/middleware"
	"github.com/Abhijitam01/drawr/internal/repository"
	"github.com/Abhijitam01/drawr/internal/repository/mocks"
	"github.com/Abhijitam01/drawr/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for middleware.Auth.
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, id)
		c.Next()
	}
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuthRouter(t *testing.T, userRepo *mocks.UserRepository) *gin.Engine {
	t.Helper()
	authService, err := service.NewAuthService(userRepo, "secret", 1)
	require.NoError(t, err)
	h := httpHandler.NewAuthHandler(authService)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		r := newAuthRouter(t, new(mocks.UserRepository))

		w := do(r, http.MethodPost, "/api/auth/register", `{"username":"ab"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		// Arrange
		userRepo := new(mocks.UserRepository)
		userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
		userRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.Name == "Alice A." })).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 5 }).
			Return(nil)
		r := newAuthRouter(t, userRepo)

		// Act
		w := do(r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1","name":"Alice A."}`)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":5`)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		userRepo := new(mocks.UserRepository)
		userRepo.On("FindByUsername", mock.Anything, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)
		r := newAuthRouter(t, userRepo)

		w := do(r, http.MethodPost, "/api/auth/register", `{"username":"alice","password":"secret1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), service.ErrRegistrationFailed.Error())
	})
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)
	r := newAuthRouter(t, userRepo)

	w := do(r, http.MethodPost, "/api/auth/login", `{"username":"ghost","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newRoomRouter(roomRepo *mocks.RoomRepository, withUser bool) *gin.Engine {
	h := httpHandler.NewRoomHandler(service.NewRoomService(roomRepo))
	r := gin.New()
	g := r.Group("/api/rooms")
	if withUser {
		g.Use(asUser(3))
	}
	g.POST("", h.CreateRoom)
	g.POST("/join", h.JoinRoom)
	g.GET("/:roomId", h.GetRoom)
	return r
}

func TestRoomHandler_CreateRoom(t *testing.T) {
	// Arrange
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("IsInviteCodeExists", mock.Anything, mock.Anything).Return(false, nil)
	roomRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Room).ID = 12 }).
		Return(nil)
	r := newRoomRouter(roomRepo, true)

	// Act
	w := do(r, http.MethodPost, "/api/rooms", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_id":"12"`)
}

func TestRoomHandler_CreateRoom_Unauthenticated(t *testing.T) {
	r := newRoomRouter(new(mocks.RoomRepository), false)

	w := do(r, http.MethodPost, "/api/rooms", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomHandler_JoinRoom(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindByInviteCode", mock.Anything, "ABC123").Return(&domain.Room{ID: 9, InviteCode: "ABC123"}, nil)
	roomRepo.On("FindByInviteCode", mock.Anything, "ZZZ999").Return(nil, repository.ErrRoomNotFound)
	r := newRoomRouter(roomRepo, true)

	ok := do(r, http.MethodPost, "/api/rooms/join", `{"invite_code":"ABC123"}`)
	missing := do(r, http.MethodPost, "/api/rooms/join", `{"invite_code":"ZZZ999"}`)
	bad := do(r, http.MethodPost, "/api/rooms/join", `{"invite_code":"x"}`)

	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"room_id":"9"`)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRoomHandler_GetRoom(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("FindByID", mock.Anything, uint(4)).Return(&domain.Room{ID: 4, CreatorID: 3, InviteCode: "QWERTY"}, nil)
	roomRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, repository.ErrRoomNotFound)
	r := newRoomRouter(roomRepo, true)

	found := do(r, http.MethodGet, "/api/rooms/4", "")
	missing := do(r, http.MethodGet, "/api/rooms/5", "")
	invalid := do(r, http.MethodGet, "/api/rooms/abc", "")

	assert.JSONEq(t, `{"room_id":"4","creator_id":3,"invite_code":"QWERTY"}`, found.Body.String())
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestShapeHandler_ListShapes(t *testing.T) {
	// Arrange
	shapes := new(mocks.ShapeRepository)
	cache := new(mocks.SceneCache)
	rect := domain.Shape{ID: "r1", Style: domain.DefaultStyle(), Geom: domain.Rect{X: 1, Y: 2, Width: 3, Height: 4}}
	cache.On("Get", mock.Anything, "7").Return([]domain.Shape{rect}, nil)
	cache.On("Get", mock.Anything, "empty").Return(nil, repository.ErrCacheMiss)
	shapes.On("ListByRoom", mock.Anything, "empty").Return([]domain.ShapeRecord{}, nil)
	cache.On("Generation", mock.Anything, "empty").Return(int64(0), nil)
	cache.On("Set", mock.Anything, "empty", int64(0), mock.Anything, mock.Anything).Return(nil)

	h := httpHandler.NewShapeHandler(service.NewSceneService(shapes, cache, 0))
	r := gin.New()
	r.GET("/api/rooms/:roomId/shapes", h.ListShapes)

	// Act
	w := do(r, http.MethodGet, "/api/rooms/7/shapes", "")
	empty := do(r, http.MethodGet, "/api/rooms/empty/shapes", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":{"id":"r1","type":"rect"`)
	assert.JSONEq(t, `{"shapes":[]}`, empty.Body.String())
}
