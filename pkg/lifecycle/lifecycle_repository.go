package lifecycle

import (
	"context"

	"GiveShare-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// Store is the document set a single lifecycle transaction may touch.
	// Item and request reads take row locks so racing transitions serialize
	// on the item and the loser re-checks its preconditions against the
	// committed state.
	Store interface {
		GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetItemForUpdate(ctx context.Context, id uuid.UUID) (*entities.Item, error)
		GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*entities.Request, error)
		GetRequestByItemAndRequester(ctx context.Context, itemID, requesterID uuid.UUID) (*entities.Request, error)
		CreateRequest(ctx context.Context, request *entities.Request) error
		UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error
		UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status string) error
		CreateNotification(ctx context.Context, notification *entities.Notification) error
		DeleteItem(ctx context.Context, itemID uuid.UUID) error
	}

	LifecycleRepository interface {
		// WithTx runs fn inside a database transaction; every mutation made
		// through the Store commits together or not at all.
		WithTx(ctx context.Context, fn func(store Store) error) error
		GetIncomingRequests(ctx context.Context, ownerID string, status string) ([]*entities.Request, error)
		GetOutgoingRequests(ctx context.Context, requesterID string) ([]*entities.Request, error)
	}

	lifecycleRepository struct {
		db *gorm.DB
	}

	lifecycleStore struct {
		tx *gorm.DB
	}
)

func NewLifecycleRepository(db *gorm.DB) LifecycleRepository {
	return &lifecycleRepository{db: db}
}

func (r *lifecycleRepository) WithTx(ctx context.Context, fn func(store Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&lifecycleStore{tx: tx})
	})
}

func (r *lifecycleRepository) GetIncomingRequests(ctx context.Context, ownerID string, status string) ([]*entities.Request, error) {
	var requests []*entities.Request
	query := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Requester").
		Where("item_owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *lifecycleRepository) GetOutgoingRequests(ctx context.Context, requesterID string) ([]*entities.Request, error) {
	var requests []*entities.Request
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *lifecycleStore) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := s.tx.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *lifecycleStore) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*entities.Item, error) {
	var item entities.Item
	if err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *lifecycleStore) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*entities.Request, error) {
	var request entities.Request
	if err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *lifecycleStore) GetRequestByItemAndRequester(ctx context.Context, itemID, requesterID uuid.UUID) (*entities.Request, error) {
	var request entities.Request
	if err := s.tx.WithContext(ctx).
		Where("item_id = ? AND requester_id = ?", itemID, requesterID).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *lifecycleStore) CreateRequest(ctx context.Context, request *entities.Request) error {
	return s.tx.WithContext(ctx).Create(request).Error
}

func (s *lifecycleStore) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status string) error {
	return s.tx.WithContext(ctx).
		Model(&entities.Item{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (s *lifecycleStore) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status string) error {
	return s.tx.WithContext(ctx).
		Model(&entities.Request{}).
		Where("id = ?", requestID).
		Update("status", status).Error
}

func (s *lifecycleStore) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	return s.tx.WithContext(ctx).Create(notification).Error
}

func (s *lifecycleStore) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	// Requests referencing the item go with it (ON DELETE CASCADE).
	return s.tx.WithContext(ctx).Where("id = ?", itemID).Delete(&entities.Item{}).Error
}
