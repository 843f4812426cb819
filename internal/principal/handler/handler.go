package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/principal"
)

// RegisterPrincipalRoutes mounts GET /principal-to-address/:principal, which
// answers with the hex ledger account id as plain text.
func RegisterPrincipalRoutes(r gin.IRouter) {
	r.GET("/principal-to-address/:principal", func(c *gin.Context) {
		addr, err := principal.AddressFromText(c.Param("principal"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.String(http.StatusOK, addr)
	})
}
