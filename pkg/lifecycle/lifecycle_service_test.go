package lifecycle

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"GiveShare-Backend/domain"
	"GiveShare-Backend/entities"
	"GiveShare-Backend/internal/live"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- in-memory fake with transaction semantics ---

type fakeDB struct {
	users         map[uuid.UUID]entities.User
	items         map[uuid.UUID]entities.Item
	requests      map[uuid.UUID]entities.Request
	notifications map[uuid.UUID]entities.Notification
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:         make(map[uuid.UUID]entities.User),
		items:         make(map[uuid.UUID]entities.Item),
		requests:      make(map[uuid.UUID]entities.Request),
		notifications: make(map[uuid.UUID]entities.Notification),
	}
}

func (db *fakeDB) clone() *fakeDB {
	out := newFakeDB()
	for k, v := range db.users {
		out.users[k] = v
	}
	for k, v := range db.items {
		out.items[k] = v
	}
	for k, v := range db.requests {
		out.requests[k] = v
	}
	for k, v := range db.notifications {
		out.notifications[k] = v
	}
	return out
}

type fakeStore struct {
	db *fakeDB

	failCreateNotification bool
}

func (s *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *fakeStore) GetItemForUpdate(_ context.Context, id uuid.UUID) (*entities.Item, error) {
	item, ok := s.db.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (s *fakeStore) GetRequestForUpdate(_ context.Context, id uuid.UUID) (*entities.Request, error) {
	request, ok := s.db.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &request, nil
}

func (s *fakeStore) GetRequestByItemAndRequester(_ context.Context, itemID, requesterID uuid.UUID) (*entities.Request, error) {
	for _, request := range s.db.requests {
		if request.ItemID == itemID && request.RequesterID == requesterID {
			r := request
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStore) CreateRequest(_ context.Context, request *entities.Request) error {
	for _, existing := range s.db.requests {
		if existing.ItemID == request.ItemID && existing.RequesterID == request.RequesterID {
			return gorm.ErrDuplicatedKey
		}
	}
	request.CreatedAt = time.Now()
	s.db.requests[request.ID] = *request
	return nil
}

func (s *fakeStore) UpdateItemStatus(_ context.Context, itemID uuid.UUID, status string) error {
	item, ok := s.db.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	s.db.items[itemID] = item
	return nil
}

func (s *fakeStore) UpdateRequestStatus(_ context.Context, requestID uuid.UUID, status string) error {
	request, ok := s.db.requests[requestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	request.Status = status
	s.db.requests[requestID] = request
	return nil
}

func (s *fakeStore) CreateNotification(_ context.Context, notification *entities.Notification) error {
	if s.failCreateNotification {
		return errors.New("notification write failed")
	}
	notification.CreatedAt = time.Now()
	s.db.notifications[notification.ID] = *notification
	return nil
}

func (s *fakeStore) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(s.db.items, itemID)
	for id, request := range s.db.requests {
		if request.ItemID == itemID {
			delete(s.db.requests, id)
		}
	}
	return nil
}

// fakeRepo stages every transaction on a copy and commits only on success,
// so partial writes are observable if the service ever produced them.
type fakeRepo struct {
	db *fakeDB

	failCreateNotification bool
}

func (r *fakeRepo) WithTx(_ context.Context, fn func(store Store) error) error {
	staged := r.db.clone()
	store := &fakeStore{db: staged, failCreateNotification: r.failCreateNotification}
	if err := fn(store); err != nil {
		return err
	}
	*r.db = *staged
	return nil
}

func (r *fakeRepo) GetIncomingRequests(_ context.Context, ownerID string, status string) ([]*entities.Request, error) {
	var out []*entities.Request
	for _, request := range r.db.requests {
		if request.ItemOwnerID.String() == ownerID && (status == "" || request.Status == status) {
			req := request
			out = append(out, &req)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetOutgoingRequests(_ context.Context, requesterID string) ([]*entities.Request, error) {
	var out []*entities.Request
	for _, request := range r.db.requests {
		if request.RequesterID.String() == requesterID {
			req := request
			out = append(out, &req)
		}
	}
	return out, nil
}

type fakeS3 struct {
	deleted chan string
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{deleted: make(chan string, 8)}
}

func (f *fakeS3) UploadFile(string, *multipart.FileHeader, string, ...string) (string, error) {
	return "", nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted <- objectKey
	return f.err
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string { return objectKey }

// --- fixtures ---

type fixture struct {
	db        *fakeDB
	repo      *fakeRepo
	s3        *fakeS3
	service   LifecycleService
	owner     uuid.UUID
	requester uuid.UUID
	third     uuid.UUID
	item      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newFakeDB()
	repo := &fakeRepo{db: db}
	s3 := newFakeS3()
	f := &fixture{
		db:        db,
		repo:      repo,
		s3:        s3,
		service:   NewLifecycleService(repo, s3, live.NewHub()),
		owner:     uuid.New(),
		requester: uuid.New(),
		third:     uuid.New(),
		item:      uuid.New(),
	}
	db.users[f.owner] = entities.User{ID: f.owner, Name: "Owner", Email: "owner@example.com"}
	db.users[f.requester] = entities.User{ID: f.requester, Name: "Requester", Email: "req@example.com"}
	db.users[f.third] = entities.User{ID: f.third, Name: "Third", Email: "third@example.com"}
	db.items[f.item] = entities.Item{
		ID:       f.item,
		OwnerID:  f.owner,
		Title:    "Old bookshelf",
		Category: "Furniture",
		ImageKey: "items/bookshelf.jpg",
		Status:   domain.ItemStatusAvailable,
	}
	return f
}

func (f *fixture) requestItem(t *testing.T, requester uuid.UUID) *domain.RequestResponse {
	t.Helper()
	resp, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, requester.String())
	if err != nil {
		t.Fatalf("RequestItem: %v", err)
	}
	return resp
}

func (f *fixture) notificationsTo(userID uuid.UUID) []entities.Notification {
	var out []entities.Notification
	for _, n := range f.db.notifications {
		if n.ToUserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// --- tests ---

func TestRequestItemHappyPath(t *testing.T) {
	f := newFixture(t)

	resp := f.requestItem(t, f.requester)

	if resp.Status != domain.RequestStatusPending {
		t.Errorf("expected pending request, got %q", resp.Status)
	}
	if got := f.db.items[f.item].Status; got != domain.ItemStatusRequested {
		t.Errorf("expected item requested, got %q", got)
	}
	if len(f.db.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(f.db.requests))
	}
	notifs := f.notificationsTo(f.owner)
	if len(notifs) != 1 {
		t.Fatalf("expected 1 notification to owner, got %d", len(notifs))
	}
	if notifs[0].Type != domain.NotificationTypeRequestReceived {
		t.Errorf("expected request_received, got %q", notifs[0].Type)
	}
	if notifs[0].FromUserID != f.requester {
		t.Errorf("notification sender should be the requester")
	}
}

func TestRequestOwnItemForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.owner.String())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.db.requests) != 0 || len(f.db.notifications) != 0 {
		t.Error("failed request must not leave writes behind")
	}
}

func TestRequestMissingItemNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: uuid.NewString()}, f.requester.String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestWhileRequestedConflicts(t *testing.T) {
	f := newFixture(t)
	f.requestItem(t, f.requester)

	_, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.third.String())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.db.requests) != 1 {
		t.Errorf("expected exactly 1 request, got %d", len(f.db.requests))
	}
	if len(f.db.notifications) != 1 {
		t.Errorf("expected no extra notification, got %d", len(f.db.notifications))
	}
}

func TestDuplicateRequestConflicts(t *testing.T) {
	f := newFixture(t)
	f.requestItem(t, f.requester)

	// Reopen the item, then have the same user request again: the dedup
	// constraint, not the item status, must block it.
	item := f.db.items[f.item]
	item.Status = domain.ItemStatusAvailable
	f.db.items[f.item] = item

	_, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.requester.String())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.db.requests) != 1 {
		t.Errorf("expected exactly 1 request for the pair, got %d", len(f.db.requests))
	}
}

func TestApproveRequestHappyPath(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)

	err := f.service.ApproveRequest(context.Background(), domain.DecideRequestRequest{
		RequestID: resp.ID,
		ItemID:    f.item.String(),
	}, f.owner.String())
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}

	request := f.db.requests[uuid.MustParse(resp.ID)]
	if request.Status != domain.RequestStatusApproved {
		t.Errorf("expected approved request, got %q", request.Status)
	}
	if got := f.db.items[f.item].Status; got != domain.ItemStatusAccepted {
		t.Errorf("expected accepted item, got %q", got)
	}
	notifs := f.notificationsTo(f.requester)
	if len(notifs) != 1 {
		t.Fatalf("expected 1 notification to requester, got %d", len(notifs))
	}
	if notifs[0].Type != domain.NotificationTypeRequestApproved {
		t.Errorf("expected request_approved, got %q", notifs[0].Type)
	}
}

func TestApproveRequestNotOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)

	err := f.service.ApproveRequest(context.Background(), domain.DecideRequestRequest{
		RequestID: resp.ID,
		ItemID:    f.item.String(),
	}, f.third.String())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got := f.db.requests[uuid.MustParse(resp.ID)].Status; got != domain.RequestStatusPending {
		t.Errorf("request must stay pending, got %q", got)
	}
	if got := f.db.items[f.item].Status; got != domain.ItemStatusRequested {
		t.Errorf("item must stay requested, got %q", got)
	}
}

func TestApproveNonPendingRequestConflicts(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)
	decide := domain.DecideRequestRequest{RequestID: resp.ID, ItemID: f.item.String()}

	if err := f.service.ApproveRequest(context.Background(), decide, f.owner.String()); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	err := f.service.ApproveRequest(context.Background(), decide, f.owner.String())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on second approve, got %v", err)
	}
	if err := f.service.RejectRequest(context.Background(), decide, f.owner.String()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict rejecting an approved request, got %v", err)
	}
}

func TestDecideRequestItemMismatchConflicts(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)

	otherItem := uuid.New()
	f.db.items[otherItem] = entities.Item{ID: otherItem, OwnerID: f.owner, Title: "Lamp", Status: domain.ItemStatusAvailable}

	err := f.service.ApproveRequest(context.Background(), domain.DecideRequestRequest{
		RequestID: resp.ID,
		ItemID:    otherItem.String(),
	}, f.owner.String())
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRejectRequestReopensItem(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)

	err := f.service.RejectRequest(context.Background(), domain.DecideRequestRequest{
		RequestID: resp.ID,
		ItemID:    f.item.String(),
	}, f.owner.String())
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}

	if got := f.db.items[f.item].Status; got != domain.ItemStatusAvailable {
		t.Errorf("expected item reopened, got %q", got)
	}
	notifs := f.notificationsTo(f.requester)
	if len(notifs) != 1 || notifs[0].Type != domain.NotificationTypeRequestRejected {
		t.Errorf("expected a request_rejected notification, got %+v", notifs)
	}

	// A different user can now request the reopened item.
	if _, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.third.String()); err != nil {
		t.Errorf("request after reject should succeed, got %v", err)
	}
}

func TestMarkDonatedOnlyFromAccepted(t *testing.T) {
	f := newFixture(t)
	mark := domain.MarkDonatedRequest{ItemID: f.item.String()}

	// available -> donated is not a legal edge
	if err := f.service.MarkDonated(context.Background(), mark, f.owner.String()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict from available, got %v", err)
	}

	resp := f.requestItem(t, f.requester)

	// requested -> donated is not a legal edge either
	if err := f.service.MarkDonated(context.Background(), mark, f.owner.String()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict from requested, got %v", err)
	}

	if err := f.service.ApproveRequest(context.Background(), domain.DecideRequestRequest{RequestID: resp.ID, ItemID: f.item.String()}, f.owner.String()); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if err := f.service.MarkDonated(context.Background(), mark, f.owner.String()); err != nil {
		t.Fatalf("MarkDonated: %v", err)
	}
	if got := f.db.items[f.item].Status; got != domain.ItemStatusDonated {
		t.Errorf("expected donated, got %q", got)
	}

	// donated is terminal
	if err := f.service.MarkDonated(context.Background(), mark, f.owner.String()); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict on repeated donate, got %v", err)
	}
	if _, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.third.String()); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict requesting a donated item, got %v", err)
	}
}

func TestMarkDonatedNotOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	item := f.db.items[f.item]
	item.Status = domain.ItemStatusAccepted
	f.db.items[f.item] = item

	err := f.service.MarkDonated(context.Background(), domain.MarkDonatedRequest{ItemID: f.item.String()}, f.requester.String())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteItemCascadesAndCleansImage(t *testing.T) {
	f := newFixture(t)
	f.requestItem(t, f.requester)

	if err := f.service.DeleteItem(context.Background(), f.item.String(), f.owner.String()); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, ok := f.db.items[f.item]; ok {
		t.Error("item should be deleted")
	}
	if len(f.db.requests) != 0 {
		t.Errorf("requests should cascade, %d left", len(f.db.requests))
	}

	select {
	case key := <-f.s3.deleted:
		if key != "items/bookshelf.jpg" {
			t.Errorf("unexpected image key %q", key)
		}
	case <-time.After(time.Second):
		t.Error("expected best-effort image delete")
	}
}

func TestDeleteItemNotOwnerForbidden(t *testing.T) {
	f := newFixture(t)

	err := f.service.DeleteItem(context.Background(), f.item.String(), f.requester.String())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, ok := f.db.items[f.item]; !ok {
		t.Error("item must survive a forbidden delete")
	}
}

func TestDeleteItemSwallowsImageCleanupFailure(t *testing.T) {
	f := newFixture(t)
	f.s3.err = errors.New("s3 unreachable")

	if err := f.service.DeleteItem(context.Background(), f.item.String(), f.owner.String()); err != nil {
		t.Fatalf("metadata delete is authoritative, got %v", err)
	}

	select {
	case <-f.s3.deleted:
	case <-time.After(time.Second):
		t.Error("expected cleanup attempt despite failure")
	}
}

func TestNotificationFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreateNotification = true

	_, err := f.service.RequestItem(context.Background(), domain.RequestItemRequest{ItemID: f.item.String()}, f.requester.String())
	if err == nil {
		t.Fatal("expected failure")
	}
	if got := f.db.items[f.item].Status; got != domain.ItemStatusAvailable {
		t.Errorf("item status must be unchanged, got %q", got)
	}
	if len(f.db.requests) != 0 || len(f.db.notifications) != 0 {
		t.Error("no partial writes may be observable")
	}
}

func TestIncomingRequestsFilterByStatus(t *testing.T) {
	f := newFixture(t)
	resp := f.requestItem(t, f.requester)

	pending, err := f.service.GetIncomingRequests(context.Background(), f.owner.String(), domain.RequestStatusPending)
	if err != nil {
		t.Fatalf("GetIncomingRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != resp.ID {
		t.Fatalf("expected the pending request, got %+v", pending)
	}

	if err := f.service.RejectRequest(context.Background(), domain.DecideRequestRequest{RequestID: resp.ID, ItemID: f.item.String()}, f.owner.String()); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	pending, _ = f.service.GetIncomingRequests(context.Background(), f.owner.String(), domain.RequestStatusPending)
	if len(pending) != 0 {
		t.Errorf("expected no pending requests after reject, got %d", len(pending))
	}
}
