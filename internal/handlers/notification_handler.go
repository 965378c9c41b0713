package handlers

import (
	"net/http"
	"strconv"

	"store-service/internal/dto"
	"store-service/internal/realtime"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notes service.NotificationService
	hub   *realtime.Hub
	log   *zap.Logger
}

func NewNotificationHandler(notes service.NotificationService, hub *realtime.Hub, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notes: notes, hub: hub, log: log}
}

// ListNotifications godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param unread query bool false "only unread"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} dto.NotificationListResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset := pagination(c, 20, 100)
	unread, _ := strconv.ParseBool(c.Query("unread"))

	items, total, err := h.notes.ListNotifications(c.Request.Context(), uid, unread, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.NotificationListResponse{Items: make([]dto.NotificationResponse, 0, len(items)), Total: total, Limit: limit, Offset: offset}
	for i := range items {
		resp.Items = append(resp.Items, dto.NotificationFrom(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UnreadCount godoc
// @Summary Number of unread notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.notes.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: n})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "notification id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), uid, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream godoc
// @Summary Live notification feed (websocket)
// @Description Accepts the token as a Bearer header or ?access_token=.
// @Tags notifications
// @Security BearerAuth
// @Param access_token query string false "access token"
// @Success 101
// @Router /api/v1/notifications/ws [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, uid); err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
	}
}
