package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetNotifications = "notifications retrieved successfully"
	MessageSuccessMarkRead         = "notification marked as read"
	MessageSuccessMarkAllRead      = "all notifications marked as read"
	MessageSuccessGetUnreadCount   = "unread count retrieved successfully"

	MessageFailedGetNotifications = "failed to retrieve notifications"
	MessageFailedMarkRead         = "failed to mark notification as read"
	MessageFailedMarkAllRead      = "failed to mark all notifications as read"
	MessageFailedGetUnreadCount   = "failed to retrieve unread count"

	ErrNotificationNotFound = fmt.Errorf("%w: notification not found", ErrNotFound)
	ErrNotNotificationOwner = fmt.Errorf("%w: not the notification recipient", ErrForbidden)
)

type (
	MarkReadRequest struct {
		NotificationID string `json:"notification_id" validate:"required,uuid"`
	}

	NotificationResponse struct {
		ID             string    `json:"id"`
		FromUserID     string    `json:"from_user_id"`
		FromUserName   string    `json:"from_user_name,omitempty"`
		FromUserAvatar string    `json:"from_user_avatar,omitempty"`
		ItemID         string    `json:"item_id"`
		Title          string    `json:"title"`
		Body           string    `json:"body"`
		Type           string    `json:"type"`
		Read           bool      `json:"read"`
		CreatedAt      time.Time `json:"created_at"`
	}

	UnreadCountResponse struct {
		Unread int64 `json:"unread"`
	}
)
