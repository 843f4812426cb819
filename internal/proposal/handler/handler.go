package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal/service"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

type createRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type voteRequest struct {
	UserID string `json:"userId" binding:"required"`
	// pointer so that an explicit false passes the required check
	Vote *bool `json:"vote" binding:"required"`
}

// RegisterProposalRoutes mounts the governance endpoints.
func RegisterProposalRoutes(r gin.IRouter, svc service.Service) {
	r.POST("/proposal", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperror.InvalidInput(err.Error(), err))
			return
		}
		p, msg, err := svc.Create(c.Request.Context(), req.Title, req.Description)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": msg, "id": p.ID, "proposal": p})
	})

	r.GET("/proposals", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/proposal/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/proposal/:id/vote", func(c *gin.Context) {
		var req voteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperror.InvalidInput(err.Error(), err))
			return
		}
		msg, err := svc.Vote(c.Request.Context(), c.Param("id"), req.UserID, *req.Vote)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	})

	r.POST("/proposal/:id/close", func(c *gin.Context) {
		msg, err := svc.Close(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	})

	r.GET("/proposal/:id/archive", func(c *gin.Context) {
		url, err := svc.ArchiveURL(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	})
}
