package item

import (
	"context"
	"errors"
	"fmt"

	"GiveShare-Backend/domain"
	"GiveShare-Backend/entities"
	"GiveShare-Backend/internal/utils/storage"
	"GiveShare-Backend/pkg/classifier"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ItemService interface {
		CreateItem(ctx context.Context, req domain.CreateItemRequest, userID string) (*domain.ItemResponse, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error
		BrowseItems(ctx context.Context, req domain.BrowseItemsRequest, userID string, page, limit int) ([]*domain.ItemResponse, int64, error)
		GetItemByID(ctx context.Context, id string, userID string) (*domain.ItemDetailResponse, error)
		GetOwnItems(ctx context.Context, userID string, page, limit int) ([]*domain.ItemResponse, int64, error)
	}

	itemService struct {
		itemRepository ItemRepository
		classifier     classifier.ClassifierClient
		s3             storage.AwsS3
	}
)

func NewItemService(itemRepository ItemRepository, classifierClient classifier.ClassifierClient, s3 storage.AwsS3) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		classifier:     classifierClient,
		s3:             s3,
	}
}

func (s *itemService) CreateItem(ctx context.Context, req domain.CreateItemRequest, userID string) (*domain.ItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	itemID := uuid.New()

	var imageURL, imageKey string
	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("item-%s", itemID.String()),
			req.Image,
			"items",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageKey = objectKey
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	// When the donor leaves the category blank the classifier fills it in;
	// it always answers, falling back to a fixed category on any failure.
	category := req.Category
	categoryByModel := false
	if category == "" {
		result := s.classifier.Classify(ctx, imageURL)
		category = result.Category
		categoryByModel = result.UsedModel
	}

	item := &entities.Item{
		ID:            itemID,
		OwnerID:       userUUID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      category,
		ImageURL:      imageURL,
		ImageKey:      imageKey,
		ContactNumber: req.ContactNumber,
		Status:        domain.ItemStatusAvailable,
	}

	if err := s.itemRepository.CreateItem(ctx, item); err != nil {
		if imageKey != "" {
			_ = s.s3.DeleteFile(imageKey)
		}
		return nil, err
	}

	return &domain.ItemResponse{
		ID:              item.ID.String(),
		OwnerID:         item.OwnerID.String(),
		Title:           item.Title,
		Description:     item.Description,
		Category:        item.Category,
		CategoryByModel: categoryByModel,
		ImageURL:        item.ImageURL,
		ContactNumber:   item.ContactNumber,
		Status:          item.Status,
		CreatedAt:       item.CreatedAt,
	}, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	if item.OwnerID.String() != userID {
		return domain.ErrNotItemOwner
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.ContactNumber != "" {
		item.ContactNumber = req.ContactNumber
	}

	return s.itemRepository.UpdateItem(ctx, item)
}

func (s *itemService) BrowseItems(ctx context.Context, req domain.BrowseItemsRequest, userID string, page, limit int) ([]*domain.ItemResponse, int64, error) {
	excludeOwnerID := userID
	if req.IncludeOwn {
		excludeOwnerID = ""
	}

	status := req.Status
	if status == "" {
		status = domain.ItemStatusAvailable
	}

	items, count, err := s.itemRepository.BrowseItems(ctx, excludeOwnerID, req.Category, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	return toItemResponses(items), count, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string, userID string) (*domain.ItemDetailResponse, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	detail := &domain.ItemDetailResponse{ItemResponse: *toItemResponse(item)}

	// Only the owner sees the pending request, so they can decide on it.
	if item.OwnerID.String() == userID && item.Status == domain.ItemStatusRequested {
		request, err := s.itemRepository.GetPendingRequest(ctx, id)
		if err == nil {
			resp := &domain.RequestResponse{
				ID:          request.ID.String(),
				ItemID:      request.ItemID.String(),
				ItemOwnerID: request.ItemOwnerID.String(),
				RequesterID: request.RequesterID.String(),
				Status:      request.Status,
				CreatedAt:   request.CreatedAt,
			}
			if request.Requester != nil {
				resp.RequesterName = request.Requester.Name
			}
			detail.PendingRequest = resp
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return detail, nil
}

func (s *itemService) GetOwnItems(ctx context.Context, userID string, page, limit int) ([]*domain.ItemResponse, int64, error) {
	items, count, err := s.itemRepository.GetUserItems(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toItemResponses(items), count, nil
}

func toItemResponse(item *entities.Item) *domain.ItemResponse {
	resp := &domain.ItemResponse{
		ID:            item.ID.String(),
		OwnerID:       item.OwnerID.String(),
		Title:         item.Title,
		Description:   item.Description,
		Category:      item.Category,
		ImageURL:      item.ImageURL,
		ContactNumber: item.ContactNumber,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt,
	}
	if item.Owner != nil {
		resp.OwnerName = item.Owner.Name
	}
	return resp
}

func toItemResponses(items []*entities.Item) []*domain.ItemResponse {
	result := make([]*domain.ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result
}
