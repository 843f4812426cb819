package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace/service"
	"github.com/skillshare-dao/skillshare-dao/internal/principal"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
)

type productRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	AttachmentURL string `json:"attachmentURL" binding:"omitempty,url"`
	Price         uint64 `json:"price"`
}

type orderRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// caller is the authenticated principal, or the anonymous one.
func caller(c *gin.Context) string {
	if p, ok := middleware.Principal(c); ok {
		return p
	}
	return principal.Anonymous.String()
}

// RegisterMarketplaceRoutes mounts product and order endpoints. Install
// middleware.OptionalAuth in front so sellers and buyers are attributed.
func RegisterMarketplaceRoutes(r gin.IRouter, svc service.Service) {
	r.POST("/products", func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperror.InvalidInput(err.Error(), err))
			return
		}
		p, err := svc.CreateProduct(c.Request.Context(), marketplace.ProductInput{
			Title:         req.Title,
			Description:   req.Description,
			Location:      req.Location,
			AttachmentURL: req.AttachmentURL,
			Price:         req.Price,
		}, caller(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	r.GET("/products", func(c *gin.Context) {
		list, err := svc.ListProducts(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		p, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/orders", func(c *gin.Context) {
		var req orderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperror.InvalidInput(err.Error(), err))
			return
		}
		o, err := svc.CreateOrder(c.Request.Context(), req.ProductID, caller(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, o)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, o)
	})
}
