package handlers

import (
	"net/http"
	"strconv"

	"store-service/internal/dto"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Param q query string false "name search"
// @Param category_id query string false "category id"
// @Param active query bool false "only active products (default true)"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} dto.ProductListResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c, 20, 100)
	onlyActive := true
	if v, err := strconv.ParseBool(c.Query("active")); err == nil {
		onlyActive = v
	}
	raw := c.Query("category_id")
	category, ok := optionalUUID(c, "category_id", &raw)
	if !ok {
		return
	}

	items, total, err := h.catalog.ListProducts(c.Request.Context(), service.ProductListFilter{
		Query:      c.Query("q"),
		CategoryID: category,
		OnlyActive: &onlyActive,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(items)), Total: total, Limit: limit, Offset: offset}
	for i := range items {
		resp.Items = append(resp.Items, dto.ProductFrom(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct godoc
// @Summary Get a product
// @Tags catalog
// @Produce json
// @Param id path string true "product id"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductFrom(p))
}

// CreateProduct godoc
// @Summary Create a product
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Router /api/v1/admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create product request", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	category, ok := optionalUUID(c, "category_id", req.CategoryID)
	if !ok {
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		IsActive:    active,
		CategoryID:  category,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ProductFrom(p))
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partial update. Stock cannot be changed here.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "product id"
// @Param patch body dto.UpdateProductRequest true "fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/admin/products/{id} [patch]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	category, ok := optionalUUID(c, "category_id", req.CategoryID)
	if !ok {
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), id, service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		IsActive:    req.IsActive,
		CategoryID:  category,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductFrom(p))
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	items, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.CategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.CategoryFrom(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateCategory godoc
// @Summary Create a category
// @Description The slug is derived from the name when omitted.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFrom(cat))
}
