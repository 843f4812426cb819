package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/profile"
	"github.com/skillshare-dao/skillshare-dao/internal/profile/service"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
)

type upsertRequest struct {
	ID     string       `json:"id" binding:"required"`
	Name   string       `json:"name"`
	Skills []string     `json:"skills"`
	Role   profile.Role `json:"role" binding:"required,oneof=learner professional"`
}

// RegisterProfileRoutes mounts the profile endpoints. Errors are pushed with
// c.Error and rendered by middleware.ErrorHandler.
func RegisterProfileRoutes(r gin.IRouter, svc service.Service) {
	r.POST("/profile", func(c *gin.Context) {
		var req upsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperror.InvalidInput(err.Error(), err))
			return
		}
		msg, err := svc.Upsert(c.Request.Context(), req.ID, req.Name, req.Skills, req.Role)
		if err != nil {
			_ = c.Error(err)
			return
		}
		p, err := svc.Get(c.Request.Context(), req.ID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "profile": p})
	})

	r.GET("/profile/:id", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.GET("/profiles", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	})
}
