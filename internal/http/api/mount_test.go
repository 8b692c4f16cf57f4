package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

func TestMountGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	tag := func(c *gin.Context) {
		c.Header("X-Group", "doses")
		c.Next()
	}
	users := func(id int) (*model.User, error) { return &model.User{ID: id}, nil }
	MountGroup(r, GroupConfig{Prefix: "/api", Auth: true, SecretKey: "s", Users: users, Middleware: []gin.HandlerFunc{tag}},
		ModuleFunc(func(c *Controller) {
			c.GET("/me", func(_ *gin.Context, user *model.User) (any, *APIError) {
				return gin.H{"id": user.ID}, nil
			})
			c.PUBLIC_GET("/ping", func(_ *gin.Context) (any, *APIError) {
				return nil, &APIError{Code: http.StatusTeapot, Message: "pong"}
			})
		}))

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Group"), "group middleware stays in the group")

	w = do("/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.GenerateJWT(9, "s")
	require.NoError(t, err)
	w = do("/api/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doses", w.Header().Get("X-Group"))
	assert.JSONEq(t, `{"id":9}`, w.Body.String())

	w = do("/api/ping", token)
	assert.Equal(t, http.StatusTeapot, w.Code)
}
