package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal/service"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(middleware.ErrorHandler())
	RegisterProposalRoutes(g, service.New(store.NewMemoryMap[proposal.Proposal]()))
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestProposalLifecycle(t *testing.T) {
	g := newRouter()

	w := do(g, http.MethodPost, "/proposal", `{"title":"Fund workshop","description":"two days"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	require.Contains(t, body["message"], `Proposal "Fund workshop" created with ID `+id)

	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"userId":"alice","vote":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Vote registered for proposal "+id, decode(t, w)["message"])

	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"userId":"bob","vote":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodPost, "/proposal/"+id+"/close", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Proposal "+id+" has been closed.", decode(t, w)["message"])

	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"userId":"carol","vote":true}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "invalid_state", decode(t, w)["error"])

	w = do(g, http.MethodGet, "/proposal/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var p proposal.Proposal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, proposal.StatusClosed, p.Status)
	require.Equal(t, map[string]bool{"alice": true, "bob": false}, p.Votes)

	w = do(g, http.MethodGet, "/proposals", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []proposal.Proposal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestVoteValidation(t *testing.T) {
	g := newRouter()

	w := do(g, http.MethodPost, "/proposal/ghost/vote", `{"userId":"alice","vote":true}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Proposal with ID ghost not found.", decode(t, w)["message"])

	w = do(g, http.MethodPost, "/proposal", `{"title":"t"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	// missing vote value
	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"userId":"alice"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// explicit false is a valid vote
	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"userId":"alice","vote":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodPost, "/proposal/"+id+"/vote", `{"vote":true}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRequiresTitle(t *testing.T) {
	g := newRouter()
	w := do(g, http.MethodPost, "/proposal", `{"description":"no title"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid_input", decode(t, w)["error"])
}

func TestCloseMissingAndArchiveUnavailable(t *testing.T) {
	g := newRouter()
	w := do(g, http.MethodPost, "/proposal/ghost/close", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(g, http.MethodGet, "/proposal/ghost/archive", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
