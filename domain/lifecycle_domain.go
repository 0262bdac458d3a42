package domain

import (
	"fmt"
	"time"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

var (
	MessageSuccessRequestItem    = "item requested successfully"
	MessageSuccessApproveRequest = "request approved successfully"
	MessageSuccessRejectRequest  = "request rejected successfully"
	MessageSuccessMarkDonated    = "item marked as donated"
	MessageSuccessDeleteItem     = "item deleted successfully"
	MessageSuccessGetRequests    = "requests retrieved successfully"

	MessageFailedRequestItem    = "failed to request item"
	MessageFailedApproveRequest = "failed to approve request"
	MessageFailedRejectRequest  = "failed to reject request"
	MessageFailedMarkDonated    = "failed to mark item as donated"
	MessageFailedDeleteItem     = "failed to delete item"
	MessageFailedGetRequests    = "failed to retrieve requests"

	ErrRequestNotFound     = fmt.Errorf("%w: request not found", ErrNotFound)
	ErrOwnItemRequest      = fmt.Errorf("%w: cannot request your own item", ErrForbidden)
	ErrItemNotAvailable    = fmt.Errorf("%w: item is not available", ErrConflict)
	ErrDuplicateRequest    = fmt.Errorf("%w: item already requested by this user", ErrConflict)
	ErrRequestNotPending   = fmt.Errorf("%w: request is no longer pending", ErrConflict)
	ErrRequestItemMismatch = fmt.Errorf("%w: request does not belong to item", ErrConflict)
	ErrItemNotDonatable    = fmt.Errorf("%w: item can only be donated after acceptance", ErrConflict)
)

const (
	NotificationTypeRequestReceived = "request_received"
	NotificationTypeRequestApproved = "request_approved"
	NotificationTypeRequestRejected = "request_rejected"
)

type (
	RequestItemRequest struct {
		ItemID string `json:"item_id" validate:"required,uuid"`
	}

	DecideRequestRequest struct {
		RequestID string `json:"request_id" validate:"required,uuid"`
		ItemID    string `json:"item_id" validate:"required,uuid"`
	}

	MarkDonatedRequest struct {
		ItemID string `json:"item_id" validate:"required,uuid"`
	}

	RequestResponse struct {
		ID            string    `json:"id"`
		ItemID        string    `json:"item_id"`
		ItemTitle     string    `json:"item_title,omitempty"`
		ItemOwnerID   string    `json:"item_owner_id"`
		RequesterID   string    `json:"requester_id"`
		RequesterName string    `json:"requester_name,omitempty"`
		Status        string    `json:"status"`
		CreatedAt     time.Time `json:"created_at"`
	}
)
