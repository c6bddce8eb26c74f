package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/httputil"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/categories")
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.GET("/id/:id", h.GetCategory)
	g.GET("/id/:id/subtree", h.GetSubtree)
	g.GET("/name/:name", h.GetCategoryByName)
	g.PATCH("/id/:id", h.UpdateCategory)
	g.DELETE("/id/:id", h.RemoveCategory)
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

type updateCategoryRequest struct {
	Name     string          `json:"name"`
	ParentID json.RawMessage `json:"parent_id"`
}

type subtreeResponse struct {
	IDs        []int64          `json:"ids"`
	Categories []model.Category `json:"categories"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &dto.CreateCategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	cat, err := h.uc.GetCategory(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) GetCategoryByName(c *gin.Context) {
	cat, err := h.uc.GetCategoryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, err := httputil.Pagination(c)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	categories, err := h.uc.ListCategories(c.Request.Context(), &dto.CategoryFilters{Pagination: page})
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	var req updateCategoryRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	input := &dto.UpdateCategoryInput{ID: id, Name: req.Name}
	if len(req.ParentID) > 0 {
		if err := json.Unmarshal(req.ParentID, &input.ParentID); err != nil {
			httputil.RespondError(c, h.logger, apperr.Validation("invalid parent_id: %v", err))
			return
		}
		input.ParentSet = true
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), input)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) RemoveCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	cat, err := h.uc.RemoveCategory(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) GetSubtree(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	categories, err := h.uc.GetSubtree(c.Request.Context(), id)
	if err != nil {
		httputil.RespondError(c, h.logger, err)
		return
	}

	ids := make([]int64, 0, len(categories))
	for _, cat := range categories {
		ids = append(ids, cat.ID)
	}
	c.JSON(http.StatusOK, subtreeResponse{IDs: ids, Categories: categories})
}
