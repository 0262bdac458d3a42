package notification

import (
	"context"
	"errors"
	"log"

	"GiveShare-Backend/domain"

	"gorm.io/gorm"
)

type (
	NotificationService interface {
		GetNotifications(ctx context.Context, userID string, page, limit int) ([]*domain.NotificationResponse, int64, error)
		GetUnreadCount(ctx context.Context, userID string) (*domain.UnreadCountResponse, error)
		MarkRead(ctx context.Context, notificationID, userID string) error
		MarkAllRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
		profileCache           ProfileCache
	}
)

func NewNotificationService(notificationRepository NotificationRepository, profileCache ProfileCache) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
		profileCache:           profileCache,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, limit int) ([]*domain.NotificationResponse, int64, error) {
	notifications, count, err := s.notificationRepository.GetNotifications(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	profiles := make(map[string]*SenderProfile)
	responses := make([]*domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := &domain.NotificationResponse{
			ID:         n.ID.String(),
			FromUserID: n.FromUserID.String(),
			ItemID:     n.ItemID.String(),
			Title:      n.Title,
			Body:       n.Body,
			Type:       n.Type,
			Read:       n.Read,
			CreatedAt:  n.CreatedAt,
		}
		if profile := s.senderProfile(ctx, n.FromUserID.String(), profiles); profile != nil {
			resp.FromUserName = profile.Name
			resp.FromUserAvatar = profile.AvatarURL
		}
		responses = append(responses, resp)
	}

	return responses, count, nil
}

// senderProfile resolves a sender through the per-call map, then the cache,
// then the database. Cache failures degrade to a database read.
func (s *notificationService) senderProfile(ctx context.Context, fromUserID string, seen map[string]*SenderProfile) *SenderProfile {
	if profile, ok := seen[fromUserID]; ok {
		return profile
	}

	if s.profileCache != nil {
		profile, err := s.profileCache.Get(ctx, fromUserID)
		if err != nil {
			log.Printf("profile cache read failed: %v", err)
		} else if profile != nil {
			seen[fromUserID] = profile
			return profile
		}
	}

	user, err := s.notificationRepository.GetUserByID(ctx, fromUserID)
	if err != nil {
		seen[fromUserID] = nil
		return nil
	}

	profile := &SenderProfile{Name: user.Name, AvatarURL: user.AvatarURL}
	seen[fromUserID] = profile
	if s.profileCache != nil {
		if err := s.profileCache.Set(ctx, fromUserID, profile); err != nil {
			log.Printf("profile cache write failed: %v", err)
		}
	}
	return profile
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*domain.UnreadCountResponse, error) {
	count, err := s.notificationRepository.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.UnreadCountResponse{Unread: count}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return err
	}

	if notification.ToUserID.String() != userID {
		return domain.ErrNotNotificationOwner
	}

	// Re-reading an already read notification is not an error.
	if notification.Read {
		return nil
	}

	return s.notificationRepository.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepository.MarkAllRead(ctx, userID)
}
