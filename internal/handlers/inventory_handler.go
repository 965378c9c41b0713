package handlers

import (
	"net/http"

	"store-service/internal/dto"
	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventory service.InventoryService
	log       *zap.Logger
}

func NewInventoryHandler(inventory service.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, log: log}
}

// CreateFarmTool godoc
// @Summary Register a farm tool
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tool body dto.CreateFarmToolRequest true "tool"
// @Success 201 {object} dto.FarmToolResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/admin/farm-tools [post]
func (h *InventoryHandler) CreateFarmTool(c *gin.Context) {
	var req dto.CreateFarmToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	operational := true
	if req.IsOperational != nil {
		operational = *req.IsOperational
	}

	t, err := h.inventory.CreateFarmTool(c.Request.Context(), service.FarmToolInput{
		Name:          req.Name,
		ToolType:      models.ToolType(req.ToolType),
		Description:   req.Description,
		SerialNumber:  req.SerialNumber,
		IsOperational: operational,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FarmToolFrom(t))
}

// SetInventory godoc
// @Summary Set the stocked quantity of a product or tool at a location
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param inventory body dto.SetInventoryRequest true "item, location and quantity"
// @Success 200 {object} dto.InventoryResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/admin/inventory [put]
func (h *InventoryHandler) SetInventory(c *gin.Context) {
	var req dto.SetInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	id, _ := uuid.Parse(req.ItemID)
	item, err := service.ItemFromRequest(req.ItemKind, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	inv, err := h.inventory.SetInventory(c.Request.Context(), item, req.Location, req.Quantity, req.Unit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.InventoryFrom(inv))
}

// ListInventory godoc
// @Summary List inventory rows
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param kind query string false "product or tool"
// @Success 200 {array} dto.InventoryResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/admin/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	var kind *models.ItemKind
	if q := c.Query("kind"); q != "" {
		k := models.ItemKind(q)
		kind = &k
	}

	rows, err := h.inventory.ListInventory(c.Request.Context(), kind)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]dto.InventoryResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.InventoryFrom(&rows[i]))
	}
	c.JSON(http.StatusOK, resp)
}
