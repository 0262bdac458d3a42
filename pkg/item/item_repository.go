package item

import (
	"context"

	"GiveShare-Backend/entities"

	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		BrowseItems(ctx context.Context, excludeOwnerID, category, status string, page, limit int) ([]*entities.Item, int64, error)
		GetUserItems(ctx context.Context, ownerID string, page, limit int) ([]*entities.Item, int64, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		GetPendingRequest(ctx context.Context, itemID string) (*entities.Request, error)
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) BrowseItems(ctx context.Context, excludeOwnerID, category, status string, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Item{})
	if excludeOwnerID != "" {
		query = query.Where("owner_id <> ?", excludeOwnerID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *itemRepository) GetUserItems(ctx context.Context, ownerID string, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	// Status never changes through this path; the lifecycle engine owns it.
	return r.db.WithContext(ctx).
		Model(item).
		Select("title", "description", "category", "contact_number").
		Updates(item).Error
}

func (r *itemRepository) GetPendingRequest(ctx context.Context, itemID string) (*entities.Request, error) {
	var request entities.Request
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("item_id = ? AND status = ?", itemID, "pending").
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}
