package domain

import (
	"fmt"
	"mime/multipart"
	"time"
)

const (
	ItemStatusAvailable = "available"
	ItemStatusRequested = "requested"
	ItemStatusAccepted  = "accepted"
	ItemStatusDonated   = "donated"
)

// ItemCategories is the closed category set. The classifier client enforces
// it as well; anything outside falls back to FallbackCategory.
var ItemCategories = []string{"Books", "Furniture", "Clothes", "Electronics", "Accessories", "Plants"}

const FallbackCategory = "Accessories"

var (
	MessageSuccessCreateItem  = "item created successfully"
	MessageSuccessGetItems    = "items retrieved successfully"
	MessageSuccessGetItem     = "item retrieved successfully"
	MessageSuccessGetOwnItems = "own items retrieved successfully"
	MessageSuccessUpdateItem  = "item updated successfully"

	MessageFailedCreateItem  = "failed to create item"
	MessageFailedGetItems    = "failed to retrieve items"
	MessageFailedGetItem     = "failed to retrieve item"
	MessageFailedGetOwnItems = "failed to retrieve own items"
	MessageFailedUpdateItem  = "failed to update item"

	ErrItemNotFound        = fmt.Errorf("%w: item not found", ErrNotFound)
	ErrNotItemOwner        = fmt.Errorf("%w: not the item owner", ErrForbidden)
	ErrInvalidItemCategory = fmt.Errorf("%w: invalid item category", ErrConflict)
)

func ValidCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}

type (
	CreateItemRequest struct {
		Title         string                `json:"title" validate:"required"`
		Description   string                `json:"description" validate:"required"`
		Category      string                `json:"category" validate:"omitempty,oneof=Books Furniture Clothes Electronics Accessories Plants"`
		ContactNumber string                `json:"contact_number" validate:"required,min=7,max=20"`
		Image         *multipart.FileHeader `json:"image" form:"image"`
	}

	UpdateItemRequest struct {
		Title         string `json:"title" validate:"omitempty"`
		Description   string `json:"description" validate:"omitempty"`
		Category      string `json:"category" validate:"omitempty,oneof=Books Furniture Clothes Electronics Accessories Plants"`
		ContactNumber string `json:"contact_number" validate:"omitempty,min=7,max=20"`
	}

	BrowseItemsRequest struct {
		Category   string `json:"category" validate:"omitempty,oneof=Books Furniture Clothes Electronics Accessories Plants"`
		Status     string `json:"status" validate:"omitempty,oneof=available requested accepted donated"`
		IncludeOwn bool   `json:"include_own"`
	}

	ItemResponse struct {
		ID              string    `json:"id"`
		OwnerID         string    `json:"owner_id"`
		OwnerName       string    `json:"owner_name,omitempty"`
		Title           string    `json:"title"`
		Description     string    `json:"description"`
		Category        string    `json:"category"`
		CategoryByModel bool      `json:"category_by_model,omitempty"`
		ImageURL        string    `json:"image_url,omitempty"`
		ContactNumber   string    `json:"contact_number"`
		Status          string    `json:"status"`
		CreatedAt       time.Time `json:"created_at"`
	}

	ItemDetailResponse struct {
		ItemResponse
		PendingRequest *RequestResponse `json:"pending_request,omitempty"`
	}
)
