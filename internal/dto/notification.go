package dto

import (
	"time"

	"store-service/internal/models"
)

type NotificationResponse struct {
	ID        string  `json:"id"`
	OrderID   *string `json:"order_id,omitempty"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Total  int64                  `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

func NotificationFrom(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if n.OrderID != nil {
		s := n.OrderID.String()
		resp.OrderID = &s
	}
	return resp
}
