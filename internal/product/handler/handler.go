package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/httputil"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct)
	g.GET("/id/:id", h.GetProduct)
	g.GET("/name/:name", h.GetProductByName)
	g.GET("/category/:category_id", h.ListProductsByCategory)
	g.PATCH("/id/:id", h.UpdateProduct)
	g.PATCH("/id/:id/price", h.UpdatePrice)
	g.DELETE("/id/:id", h.RemoveProduct)
}

type createProductRequest struct {
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	Stock      int64            `json:"stock"`
	CategoryID int64            `json:"category_id"`
}

type updateProductRequest struct {
	Name       *string `json:"name"`
	Stock      *int64  `json:"stock"`
	CategoryID *int64  `json:"category_id"`
}

type updatePriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	if req.Price == nil {
		httputil.RespondError(c, h.logger, apperr.Validation("price is required"))
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		Name:       req.Name,
		Price:      *req.Price,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetProductByName(c *gin.Context) {
	p, err := h.uc.GetProductByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	products, err := h.uc.ListProducts(c.Request.Context(), page)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	categoryID, err := httputil.ParseID(c, "category_id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	products, err := h.uc.ListProductsByCategory(c.Request.Context(), categoryID, page)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	var req updateProductRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:         id,
		Name:       req.Name,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	var req updatePriceRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	if req.Price == nil {
		httputil.RespondError(c, h.logger, apperr.Validation("price is required"))
		return
	}

	p, err := h.uc.UpdatePrice(c.Request.Context(), id, *req.Price)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) RemoveProduct(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	p, err := h.uc.RemoveProduct(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
