package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"

	"GiveShare-Backend/domain"
	"GiveShare-Backend/entities"
	"GiveShare-Backend/internal/live"
	"GiveShare-Backend/internal/metrics"
	"GiveShare-Backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	LifecycleService interface {
		RequestItem(ctx context.Context, req domain.RequestItemRequest, requesterID string) (*domain.RequestResponse, error)
		ApproveRequest(ctx context.Context, req domain.DecideRequestRequest, actingUserID string) error
		RejectRequest(ctx context.Context, req domain.DecideRequestRequest, actingUserID string) error
		MarkDonated(ctx context.Context, req domain.MarkDonatedRequest, actingUserID string) error
		DeleteItem(ctx context.Context, itemID string, actingUserID string) error
		GetIncomingRequests(ctx context.Context, ownerID string, status string) ([]*domain.RequestResponse, error)
		GetOutgoingRequests(ctx context.Context, requesterID string) ([]*domain.RequestResponse, error)
	}

	lifecycleService struct {
		lifecycleRepository LifecycleRepository
		s3                  storage.AwsS3
		hub                 *live.Hub
	}
)

func NewLifecycleService(lifecycleRepository LifecycleRepository, s3 storage.AwsS3, hub *live.Hub) LifecycleService {
	return &lifecycleService{
		lifecycleRepository: lifecycleRepository,
		s3:                  s3,
		hub:                 hub,
	}
}

// RequestItem creates a pending request on an available item, flips the item
// to requested and notifies the owner, all in one transaction. Preconditions
// are checked against the locked row, never against client-supplied state.
func (s *lifecycleService) RequestItem(ctx context.Context, req domain.RequestItemRequest, requesterID string) (*domain.RequestResponse, error) {
	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	var (
		created *entities.Request
		ownerID uuid.UUID
	)
	err = s.lifecycleRepository.WithTx(ctx, func(store Store) error {
		item, err := store.GetItemForUpdate(ctx, itemUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}

		if item.OwnerID == requesterUUID {
			return domain.ErrOwnItemRequest
		}
		if !CanRequest(item.Status) {
			return domain.ErrItemNotAvailable
		}

		_, err = store.GetRequestByItemAndRequester(ctx, itemUUID, requesterUUID)
		if err == nil {
			return domain.ErrDuplicateRequest
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		requester, err := store.GetUser(ctx, requesterUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		request := &entities.Request{
			ID:          uuid.New(),
			ItemID:      item.ID,
			ItemOwnerID: item.OwnerID,
			RequesterID: requesterUUID,
			Status:      domain.RequestStatusPending,
		}
		if err := store.CreateRequest(ctx, request); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateRequest
			}
			return err
		}

		notification := &entities.Notification{
			ID:         uuid.New(),
			ToUserID:   item.OwnerID,
			FromUserID: requesterUUID,
			ItemID:     item.ID,
			Title:      "New item request",
			Body:       fmt.Sprintf("%s requested your item %q", requester.Name, item.Title),
			Type:       domain.NotificationTypeRequestReceived,
		}
		if err := store.CreateNotification(ctx, notification); err != nil {
			return err
		}

		if err := store.UpdateItemStatus(ctx, item.ID, domain.ItemStatusRequested); err != nil {
			return err
		}

		created = request
		ownerID = item.OwnerID
		return nil
	})
	metrics.LifecycleTransitions.WithLabelValues("request", resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	metrics.NotificationsCreated.WithLabelValues(domain.NotificationTypeRequestReceived).Inc()
	s.publish(ownerID, live.KindNotification, req.ItemID, domain.NotificationTypeRequestReceived)
	s.publish(ownerID, live.KindStats, req.ItemID, "")
	s.publish(requesterUUID, live.KindStats, req.ItemID, "")

	return &domain.RequestResponse{
		ID:          created.ID.String(),
		ItemID:      created.ItemID.String(),
		ItemOwnerID: created.ItemOwnerID.String(),
		RequesterID: created.RequesterID.String(),
		Status:      created.Status,
		CreatedAt:   created.CreatedAt,
	}, nil
}

func (s *lifecycleService) ApproveRequest(ctx context.Context, req domain.DecideRequestRequest, actingUserID string) error {
	err := s.decideRequest(ctx, req, actingUserID, true)
	metrics.LifecycleTransitions.WithLabelValues("approve", resultLabel(err)).Inc()
	return err
}

func (s *lifecycleService) RejectRequest(ctx context.Context, req domain.DecideRequestRequest, actingUserID string) error {
	err := s.decideRequest(ctx, req, actingUserID, false)
	metrics.LifecycleTransitions.WithLabelValues("reject", resultLabel(err)).Inc()
	return err
}

// decideRequest resolves a pending request. Approval moves the item to
// accepted; rejection reopens it. The requester is notified either way, and
// request, item and notification commit together.
func (s *lifecycleService) decideRequest(ctx context.Context, req domain.DecideRequestRequest, actingUserID string, approve bool) error {
	actingUUID, err := uuid.Parse(actingUserID)
	if err != nil {
		return domain.ErrParseUUID
	}
	requestUUID, err := uuid.Parse(req.RequestID)
	if err != nil {
		return domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return domain.ErrParseUUID
	}

	var requesterID uuid.UUID
	notificationType := domain.NotificationTypeRequestRejected
	if approve {
		notificationType = domain.NotificationTypeRequestApproved
	}

	err = s.lifecycleRepository.WithTx(ctx, func(store Store) error {
		request, err := store.GetRequestForUpdate(ctx, requestUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return err
		}
		if request.ItemID != itemUUID {
			return domain.ErrRequestItemMismatch
		}
		if request.Status != domain.RequestStatusPending {
			return domain.ErrRequestNotPending
		}

		item, err := store.GetItemForUpdate(ctx, itemUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}
		if item.OwnerID != actingUUID {
			return domain.ErrNotItemOwner
		}

		requestStatus := domain.RequestStatusRejected
		itemStatus := domain.ItemStatusAvailable
		title := "Request rejected"
		body := fmt.Sprintf("Your request for %q was rejected", item.Title)
		if approve {
			requestStatus = domain.RequestStatusApproved
			itemStatus = domain.ItemStatusAccepted
			title = "Request approved"
			body = fmt.Sprintf("Your request for %q was approved, contact the donor at %s", item.Title, item.ContactNumber)
		}

		if err := store.UpdateRequestStatus(ctx, request.ID, requestStatus); err != nil {
			return err
		}
		if err := store.UpdateItemStatus(ctx, item.ID, itemStatus); err != nil {
			return err
		}

		notification := &entities.Notification{
			ID:         uuid.New(),
			ToUserID:   request.RequesterID,
			FromUserID: actingUUID,
			ItemID:     item.ID,
			Title:      title,
			Body:       body,
			Type:       notificationType,
		}
		if err := store.CreateNotification(ctx, notification); err != nil {
			return err
		}

		requesterID = request.RequesterID
		return nil
	})
	if err != nil {
		return err
	}

	metrics.NotificationsCreated.WithLabelValues(notificationType).Inc()
	s.publish(requesterID, live.KindNotification, req.ItemID, notificationType)
	s.publish(requesterID, live.KindStats, req.ItemID, "")
	s.publish(actingUUID, live.KindStats, req.ItemID, "")
	return nil
}

func (s *lifecycleService) MarkDonated(ctx context.Context, req domain.MarkDonatedRequest, actingUserID string) error {
	actingUUID, err := uuid.Parse(actingUserID)
	if err != nil {
		return domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return domain.ErrParseUUID
	}

	err = s.lifecycleRepository.WithTx(ctx, func(store Store) error {
		item, err := store.GetItemForUpdate(ctx, itemUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}
		if item.OwnerID != actingUUID {
			return domain.ErrNotItemOwner
		}
		if !CanMarkDonated(item.Status) {
			return domain.ErrItemNotDonatable
		}

		return store.UpdateItemStatus(ctx, item.ID, domain.ItemStatusDonated)
	})
	metrics.LifecycleTransitions.WithLabelValues("donate", resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	s.publish(actingUUID, live.KindStats, req.ItemID, "")
	return nil
}

// DeleteItem removes the item row (requests cascade with it). The stored
// image is cleaned up afterwards on a best-effort basis: the row delete is
// authoritative, an orphaned blob is only logged.
func (s *lifecycleService) DeleteItem(ctx context.Context, itemID string, actingUserID string) error {
	actingUUID, err := uuid.Parse(actingUserID)
	if err != nil {
		return domain.ErrParseUUID
	}
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return domain.ErrParseUUID
	}

	var imageKey string
	err = s.lifecycleRepository.WithTx(ctx, func(store Store) error {
		item, err := store.GetItemForUpdate(ctx, itemUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrItemNotFound
			}
			return err
		}
		if item.OwnerID != actingUUID {
			return domain.ErrNotItemOwner
		}

		imageKey = item.ImageKey
		return store.DeleteItem(ctx, item.ID)
	})
	metrics.LifecycleTransitions.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		return err
	}

	if imageKey != "" {
		go func(key string) {
			if err := s.s3.DeleteFile(key); err != nil {
				log.Printf("best-effort image cleanup failed for %s: %v", key, err)
			}
		}(imageKey)
	}

	s.publish(actingUUID, live.KindStats, itemID, "")
	return nil
}

func (s *lifecycleService) GetIncomingRequests(ctx context.Context, ownerID string, status string) ([]*domain.RequestResponse, error) {
	requests, err := s.lifecycleRepository.GetIncomingRequests(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *lifecycleService) GetOutgoingRequests(ctx context.Context, requesterID string) ([]*domain.RequestResponse, error) {
	requests, err := s.lifecycleRepository.GetOutgoingRequests(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(requests), nil
}

func (s *lifecycleService) publish(userID uuid.UUID, kind, itemID, notificationType string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(live.Event{
		Kind:   kind,
		UserID: userID.String(),
		ItemID: itemID,
		Type:   notificationType,
	})
}

func toRequestResponses(requests []*entities.Request) []*domain.RequestResponse {
	result := make([]*domain.RequestResponse, 0, len(requests))
	for _, request := range requests {
		resp := &domain.RequestResponse{
			ID:          request.ID.String(),
			ItemID:      request.ItemID.String(),
			ItemOwnerID: request.ItemOwnerID.String(),
			RequesterID: request.RequesterID.String(),
			Status:      request.Status,
			CreatedAt:   request.CreatedAt,
		}
		if request.Item != nil {
			resp.ItemTitle = request.Item.Title
		}
		if request.Requester != nil {
			resp.RequesterName = request.Requester.Name
		}
		result = append(result, resp)
	}
	return result
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
