package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
)

func serve(t *testing.T, router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSWildcardDropsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"*", "http://app.test"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(t, router, http.MethodGet, "/", http.Header{"Origin": {"http://anything.test"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve(t, router, http.MethodGet, "/", http.Header{"Origin": {"http://app.test"}})
	require.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequireSeat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	seats := auth.NewSeatIssuer("test-secret", time.Hour)

	newRouter := func(issuer *auth.SeatIssuer) *gin.Engine {
		router := gin.New()
		router.POST("/games/:id", SeatMiddleware(issuer), RequireSeat(issuer), func(c *gin.Context) {
			color, _ := SeatColor(c)
			c.String(http.StatusOK, color.Name())
		})
		return router
	}

	router := newRouter(seats)
	w := serve(t, router, http.MethodPost, "/games/g1", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := seats.GenerateSeatToken("g1", int(domain.Yellow))
	require.NoError(t, err)
	w = serve(t, router, http.MethodPost, "/games/g1", http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "yellow", w.Body.String())

	w = serve(t, router, http.MethodPost, "/games/g2", http.Header{"Authorization": {"Bearer " + token}})
	require.Equal(t, http.StatusForbidden, w.Code)

	// no issuer, no seats to enforce
	w = serve(t, newRouter(nil), http.MethodPost, "/games/g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
