package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/middleware"
	"github.com/noah-isme/eduplatform-api/internal/models"
	"github.com/noah-isme/eduplatform-api/pkg/response"
)

var (
	guruClaims  = &models.JWTClaims{Email: "teacher@x.com", Name: "Bu Guru", Role: models.RoleGuru, Institution: "SMA 1"}
	siswaClaims = &models.JWTClaims{Email: "student@y.com", Name: "Siswa Satu", Role: models.RoleSiswa, Institution: "SMA 1"}
)

// newTestRouter returns an engine whose requests run as claims (anonymous when nil).
func newTestRouter(claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserKey, claims)
			c.Next()
		})
	}
	return router
}

func perform(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
