package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	req2 := httptest.NewRequest("GET", "/swagger/doc.json", nil)
	w2 := httptest.NewRecorder()
	g.ServeHTTP(w2, req2)
	require.Equal(t, 200, w2.Code)
	require.Contains(t, w2.Header().Get("Content-Type"), "application/json")

	doc := w2.Body.String()
	require.True(t, gjson.Valid(doc))
	require.Equal(t, "3.0.0", gjson.Get(doc, "openapi").String())
	paths := gjson.Get(doc, "paths")
	for _, p := range []string{"/profile", "/proposal", "/proposal/{id}/vote", "/proposal/{id}/close", "/auth/login", "/auth/refresh", "/auth/logout"} {
		require.True(t, paths.Get(gjson.Escape(p)).Exists(), p)
	}
	require.Equal(t, "proposal closed", paths.Get(gjson.Escape("/proposal/{id}/vote")+".post.responses.409.description").String())
}
