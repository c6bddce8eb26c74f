package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/discount"
	"github.com/fekuna/omnipos-catalog-service/internal/discount/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httputil"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DiscountHandler struct {
	uc     discount.UseCase
	logger logger.ZapLogger
}

func NewDiscountHandler(uc discount.UseCase, log logger.ZapLogger) *DiscountHandler {
	return &DiscountHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DiscountHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/discounts")
	g.GET("", h.ListDiscounts)
	g.POST("", h.CreateDiscount)
	g.GET("/id/:id", h.GetDiscount)
	g.PATCH("/id/:id", h.UpdateDiscount)
	g.DELETE("/id/:id", h.DeleteDiscount)
	g.POST("/id/:id/products/:product_id", h.ApplyDiscount)
	g.DELETE("/id/:id/products/:product_id", h.RemoveDiscount)
}

type createDiscountRequest struct {
	Percentage  *decimal.Decimal `json:"percentage"`
	Description *string          `json:"description"`
}

type updateDiscountRequest struct {
	Percentage  *decimal.Decimal `json:"percentage"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	var req createDiscountRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	if req.Percentage == nil {
		httputil.RespondError(c, h.logger, apperr.Validation("percentage is required"))
		return
	}

	d, err := h.uc.CreateDiscount(c.Request.Context(), &dto.CreateDiscountInput{
		Percentage:  *req.Percentage,
		Description: req.Description,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DiscountHandler) GetDiscount(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	d, err := h.uc.GetDiscount(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DiscountHandler) ListDiscounts(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	discounts, err := h.uc.ListDiscounts(c.Request.Context(), &dto.DiscountFilters{Pagination: page})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, discounts)
}

func (h *DiscountHandler) UpdateDiscount(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	var req updateDiscountRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	d, err := h.uc.UpdateDiscount(c.Request.Context(), &dto.UpdateDiscountInput{
		ID:          id,
		Percentage:  req.Percentage,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DiscountHandler) DeleteDiscount(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	d, err := h.uc.DeleteDiscount(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DiscountHandler) ApplyDiscount(c *gin.Context) {
	discountID, productID, ok := h.linkIDs(c)
	if !ok {
		return
	}

	p, err := h.uc.ApplyDiscount(c.Request.Context(), productID, discountID)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *DiscountHandler) RemoveDiscount(c *gin.Context) {
	discountID, productID, ok := h.linkIDs(c)
	if !ok {
		return
	}

	p, err := h.uc.RemoveDiscountFromProduct(c.Request.Context(), productID, discountID)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *DiscountHandler) linkIDs(c *gin.Context) (discountID, productID int64, ok bool) {
	discountID, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return 0, 0, false
	}
	productID, err = httputil.ParseID(c, "product_id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return 0, 0, false
	}
	return discountID, productID, true
}
