package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
	"github.com/stretchr/testify/require"
)

func TestPrincipalToAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(middleware.ErrorHandler())
	RegisterPrincipalRoutes(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/principal-to-address/2vxsx-fae", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1c7a48ba6a562aa9eaa2481a9049cdf0433b9738c992d698c31d8abf89cadc79", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/principal-to-address/2vxsx-fab", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid_input")
}
