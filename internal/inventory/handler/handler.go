package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/httputil"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	reservations.GET("", h.ListReservations)
	reservations.POST("", h.ReserveProduct)
	reservations.GET("/active", h.ListActiveReservations)
	reservations.GET("/id/:id", h.GetReservation)
	reservations.POST("/id/:id/cancel", h.CancelReservation)
	reservations.DELETE("/id/:id", h.CancelReservation)

	sales := rg.Group("/sales")
	sales.POST("", h.SellProduct)
	sales.GET("/report", h.SalesReport)
}

func (h *InventoryHandler) ReserveProduct(c *gin.Context) {
	var req dto.StockInput
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	reservation, err := h.uc.ReserveProduct(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *InventoryHandler) CancelReservation(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	reservation, err := h.uc.CancelReservation(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *InventoryHandler) GetReservation(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	reservation, err := h.uc.GetReservation(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *InventoryHandler) ListReservations(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	reservations, err := h.uc.ListReservations(c.Request.Context(), page)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *InventoryHandler) ListActiveReservations(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	reservations, err := h.uc.ListActiveReservations(c.Request.Context(), page)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *InventoryHandler) SellProduct(c *gin.Context) {
	var req dto.StockInput
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	sale, err := h.uc.SellProduct(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *InventoryHandler) SalesReport(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	categoryID, err := httputil.OptionalQueryID(c, "category_id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	productID, err := httputil.OptionalQueryID(c, "product_id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	sales, err := h.uc.SalesReport(c.Request.Context(), &dto.SalesFilters{
		CategoryID: categoryID,
		ProductID:  productID,
		Pagination: page,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
