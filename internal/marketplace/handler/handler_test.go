package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace/service"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(middleware.ErrorHandler())
	// stand-in for OptionalAuth: trust an X-Principal header
	g.Use(func(c *gin.Context) {
		if p := c.GetHeader("X-Principal"); p != "" {
			c.Set(middleware.PrincipalKey, p)
		}
		c.Next()
	})
	svc := service.New(store.NewMemoryMap[marketplace.Product](), store.NewMemoryMap[marketplace.Order](), nil)
	RegisterMarketplaceRoutes(g, svc)
	return g
}

func do(g *gin.Engine, method, path, body, principal string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if principal != "" {
		req.Header.Set("X-Principal", principal)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestProductAndOrderFlow(t *testing.T) {
	g := newRouter()

	w := do(g, http.MethodPost, "/products", `{"title":"Go mentoring","price":100000000,"location":"remote"}`, "ryjl3-tyaaa-aaaaa-aaaba-cai")
	require.Equal(t, http.StatusCreated, w.Code)
	var p marketplace.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, "ryjl3-tyaaa-aaaaa-aaaba-cai", p.Seller)
	require.Equal(t, uint64(100000000), p.Price)

	w = do(g, http.MethodGet, "/products/"+p.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []marketplace.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)

	w = do(g, http.MethodPost, "/orders", `{"productId":"`+p.ID+`"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var o marketplace.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	require.Equal(t, "2vxsx-fae", o.Buyer)
	require.Equal(t, marketplace.OrderPending, o.Status)

	w = do(g, http.MethodGet, "/orders/"+o.ID, "", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMarketplaceErrors(t *testing.T) {
	g := newRouter()
	require.Equal(t, http.StatusBadRequest, do(g, http.MethodPost, "/products", `{"price":5}`, "").Code)
	require.Equal(t, http.StatusBadRequest, do(g, http.MethodPost, "/products", `{"title":"x","attachmentURL":"not a url"}`, "").Code)
	require.Equal(t, http.StatusBadRequest, do(g, http.MethodPost, "/orders", `{}`, "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodPost, "/orders", `{"productId":"ghost"}`, "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodGet, "/products/ghost", "", "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodGet, "/orders/ghost", "", "").Code)
}
