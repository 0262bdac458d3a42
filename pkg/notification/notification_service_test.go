package notification

import (
	"context"
	"errors"
	"testing"

	"GiveShare-Backend/domain"
	"GiveShare-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeNotificationRepo struct {
	notifications map[string]*entities.Notification
	users         map[string]*entities.User
	userReads     int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		notifications: make(map[string]*entities.Notification),
		users:         make(map[string]*entities.User),
	}
}

func (f *fakeNotificationRepo) GetNotifications(_ context.Context, userID string, page, limit int) ([]*entities.Notification, int64, error) {
	var out []*entities.Notification
	for _, n := range f.notifications {
		if n.ToUserID.String() == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.ToUserID.String() == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) GetNotificationByID(_ context.Context, id string) (*entities.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	n, ok := f.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Read = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range f.notifications {
		if n.ToUserID.String() == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	f.userReads++
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeProfileCache struct {
	entries map[string]*SenderProfile
	getErr  error
	sets    int
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{entries: make(map[string]*SenderProfile)}
}

func (f *fakeProfileCache) Get(_ context.Context, userID string) (*SenderProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[userID], nil
}

func (f *fakeProfileCache) Set(_ context.Context, userID string, profile *SenderProfile) error {
	f.sets++
	f.entries[userID] = profile
	return nil
}

func notificationFixture(repo *fakeNotificationRepo, toUserID, fromUserID uuid.UUID, read bool) *entities.Notification {
	n := &entities.Notification{
		ID:         uuid.New(),
		ToUserID:   toUserID,
		FromUserID: fromUserID,
		ItemID:     uuid.New(),
		Title:      "New request",
		Body:       "Someone wants your item",
		Type:       domain.NotificationTypeRequestReceived,
		Read:       read,
	}
	repo.notifications[n.ID.String()] = n
	return n
}

func TestGetNotificationsResolvesSenderFromCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	cache := newFakeProfileCache()
	me := uuid.New()
	sender := uuid.New()
	notificationFixture(repo, me, sender, false)
	notificationFixture(repo, me, sender, true)
	cache.entries[sender.String()] = &SenderProfile{Name: "Budi", AvatarURL: "https://cdn/a.png"}
	svc := NewNotificationService(repo, cache)

	responses, count, err := svc.GetNotifications(context.Background(), me.String(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(responses) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(responses))
	}
	for _, resp := range responses {
		if resp.FromUserName != "Budi" || resp.FromUserAvatar != "https://cdn/a.png" {
			t.Errorf("sender not resolved: %+v", resp)
		}
	}
	if repo.userReads != 0 {
		t.Errorf("cache hit should not touch the users table, reads=%d", repo.userReads)
	}
}

func TestGetNotificationsCacheMissFallsBackAndPopulates(t *testing.T) {
	repo := newFakeNotificationRepo()
	cache := newFakeProfileCache()
	me := uuid.New()
	sender := uuid.New()
	repo.users[sender.String()] = &entities.User{ID: sender, Name: "Sari"}
	notificationFixture(repo, me, sender, false)
	notificationFixture(repo, me, sender, false)
	svc := NewNotificationService(repo, cache)

	responses, _, err := svc.GetNotifications(context.Background(), me.String(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responses[0].FromUserName != "Sari" {
		t.Errorf("sender not resolved from DB: %+v", responses[0])
	}
	if repo.userReads != 1 {
		t.Errorf("same sender should be read once per call, reads=%d", repo.userReads)
	}
	if cache.sets != 1 {
		t.Errorf("cache should be populated once, sets=%d", cache.sets)
	}
}

func TestGetNotificationsCacheFailureDegradesToDB(t *testing.T) {
	repo := newFakeNotificationRepo()
	cache := newFakeProfileCache()
	cache.getErr = errors.New("redis down")
	me := uuid.New()
	sender := uuid.New()
	repo.users[sender.String()] = &entities.User{ID: sender, Name: "Sari"}
	notificationFixture(repo, me, sender, false)
	svc := NewNotificationService(repo, cache)

	responses, _, err := svc.GetNotifications(context.Background(), me.String(), 1, 10)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if responses[0].FromUserName != "Sari" {
		t.Errorf("expected DB fallback, got %+v", responses[0])
	}
}

func TestGetNotificationsWithoutCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uuid.New()
	sender := uuid.New()
	repo.users[sender.String()] = &entities.User{ID: sender, Name: "Sari"}
	notificationFixture(repo, me, sender, false)
	svc := NewNotificationService(repo, nil)

	responses, _, err := svc.GetNotifications(context.Background(), me.String(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responses[0].FromUserName != "Sari" {
		t.Errorf("nil cache should still resolve senders: %+v", responses[0])
	}
}

func TestMarkReadRecipientOnly(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uuid.New()
	n := notificationFixture(repo, me, uuid.New(), false)
	svc := NewNotificationService(repo, nil)

	err := svc.MarkRead(context.Background(), n.ID.String(), uuid.New().String())
	if !errors.Is(err, domain.ErrNotNotificationOwner) {
		t.Fatalf("expected ErrNotNotificationOwner, got %v", err)
	}
	if n.Read {
		t.Error("notification must stay unread after a forbidden attempt")
	}

	if err := svc.MarkRead(context.Background(), n.ID.String(), me.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Read {
		t.Error("notification should be read")
	}
}

func TestMarkReadNotFound(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationRepo(), nil)

	err := svc.MarkRead(context.Background(), uuid.New().String(), uuid.New().String())
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uuid.New()
	n := notificationFixture(repo, me, uuid.New(), true)
	svc := NewNotificationService(repo, nil)

	if err := svc.MarkRead(context.Background(), n.ID.String(), me.String()); err != nil {
		t.Errorf("marking an already read notification should succeed: %v", err)
	}
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	me := uuid.New()
	other := uuid.New()
	notificationFixture(repo, me, uuid.New(), false)
	notificationFixture(repo, me, uuid.New(), false)
	notificationFixture(repo, me, uuid.New(), true)
	stranger := notificationFixture(repo, other, uuid.New(), false)
	svc := NewNotificationService(repo, nil)

	count, err := svc.GetUnreadCount(context.Background(), me.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Unread != 2 {
		t.Errorf("expected 2 unread, got %d", count.Unread)
	}

	if err := svc.MarkAllRead(context.Background(), me.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, _ = svc.GetUnreadCount(context.Background(), me.String())
	if count.Unread != 0 {
		t.Errorf("expected 0 unread after mark all, got %d", count.Unread)
	}
	if stranger.Read {
		t.Error("mark all read must not touch other users' notifications")
	}
}
