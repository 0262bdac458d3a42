package user

import (
	"context"

	"GiveShare-Backend/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		MarkEmailVerified(ctx context.Context, email string) error
		CountItemsByOwner(ctx context.Context, ownerID string) (int64, error)
		CountDonatedByOwner(ctx context.Context, ownerID string) (int64, error)
		CountPendingIncomingRequests(ctx context.Context, ownerID string) (int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("name", "avatar_url").
		Updates(user).Error
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("email = ?", email).
		Update("is_verified", true).Error
}

func (r *userRepository) CountItemsByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountDonatedByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("owner_id = ? AND status = ?", ownerID, "donated").
		Count(&count).Error
	return count, err
}

func (r *userRepository) CountPendingIncomingRequests(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Request{}).
		Where("item_owner_id = ? AND status = ?", ownerID, "pending").
		Count(&count).Error
	return count, err
}
