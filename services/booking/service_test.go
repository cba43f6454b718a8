package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"gigbridge/cache"
	bookingRepo "gigbridge/database/repository/booking"
	"gigbridge/models"
	"gigbridge/services/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBookingRepo mirrors the transactional store semantics in memory: the
// conflict checks and the write happen under one lock.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	createErr error
	updateErr error
	listCalls int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) put(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := b
	r.bookings[b.ID] = &copied
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetCommittedForProvider(_ context.Context, providerID, excludeID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Status.IsCommitted() && b.ID != excludeID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountActiveForEventProvider(_ context.Context, eventID, providerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countActivePairLocked(eventID, providerID), nil
}

func (r *fakeBookingRepo) countActivePairLocked(eventID, providerID string) int64 {
	var n int64
	for _, b := range r.bookings {
		if b.EventID == eventID && b.ProviderID == providerID && b.Status.IsActive() {
			n++
		}
	}
	return n
}

func (r *fakeBookingRepo) HasCommittedOverlap(_ context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasCommittedOverlapLocked(providerID, start, end, excludeID), nil
}

func (r *fakeBookingRepo) hasCommittedOverlapLocked(providerID string, start, end time.Time, excludeID string) bool {
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Status.IsCommitted() && b.ID != excludeID &&
			Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) ListForAccount(_ context.Context, accountID string, role models.ActorRole, q models.BookingListQuery) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var matched []models.Booking
	for _, b := range r.bookings {
		switch role {
		case models.RoleOrganizer:
			if b.OrganizerAccountID != accountID {
				continue
			}
		case models.RoleProvider:
			if b.ProviderAccountID != accountID {
				continue
			}
		}
		if q.Status != nil && b.Status != *q.Status {
			continue
		}
		matched = append(matched, *b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	offset := (q.Page - 1) * q.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	endIdx := offset + q.Limit
	if endIdx > len(matched) {
		endIdx = len(matched)
	}
	return matched[offset:endIdx], total, nil
}

func (r *fakeBookingRepo) CreateWithConflictCheck(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.countActivePairLocked(booking.EventID, booking.ProviderID) > 0 {
		return bookingRepo.ErrActivePairExists
	}
	if r.hasCommittedOverlapLocked(booking.ProviderID, booking.Start, booking.End, "") {
		return bookingRepo.ErrCommittedOverlap
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) UpdateStatusTx(_ context.Context, id string, patch models.BookingStatusPatch, checkOverlap bool) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if checkOverlap && r.hasCommittedOverlapLocked(b.ProviderID, b.Start, b.End, b.ID) {
		return nil, bookingRepo.ErrCommittedOverlap
	}
	b.Status = patch.Status
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}
	if patch.CancellationReason != nil {
		b.CancellationReason = patch.CancellationReason
	}
	if patch.ConfirmedAt != nil {
		b.ConfirmedAt = patch.ConfirmedAt
	}
	if patch.CompletedAt != nil {
		b.CompletedAt = patch.CompletedAt
	}
	if patch.CancelledAt != nil {
		b.CancelledAt = patch.CancelledAt
	}
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

type fakeEventRepo struct {
	events map[string]*models.Event
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*models.Event, error) {
	return r.events[id], nil
}

func (r *fakeEventRepo) ListByOrganizerAccount(context.Context, string) ([]models.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) Create(context.Context, *models.Event) error { return nil }

type fakeProviderRepo struct {
	providers map[string]*models.Provider
}

func (r *fakeProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	return r.providers[id], nil
}

func (r *fakeProviderRepo) GetByAccountID(context.Context, string) (*models.Provider, error) {
	return nil, nil
}

func (r *fakeProviderRepo) Create(context.Context, *models.Provider) error { return nil }
func (r *fakeProviderRepo) Update(context.Context, *models.Provider) error { return nil }

type fakeAccountRepo struct {
	accounts map[string]*models.Account
}

func (r *fakeAccountRepo) GetByID(id string) (*models.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetByEmail(string) (*models.Account, error) { return nil, nil }
func (r *fakeAccountRepo) Create(*models.Account) error               { return nil }
func (r *fakeAccountRepo) Update(*models.Account) error               { return nil }

// fakePublisher records published events; publishes run from goroutines, so
// assertions go through Eventually.
type fakePublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.events))
	copy(out, p.events)
	return out
}

type testFixture struct {
	svc      *DefaultBookingService
	bookings *fakeBookingRepo
	bus      *fakePublisher
}

func newTestService(t *testing.T) *testFixture {
	t.Helper()
	bookings := newFakeBookingRepo()
	bus := &fakePublisher{}
	svc := &DefaultBookingService{
		Bookings: bookings,
		Events: &fakeEventRepo{events: map[string]*models.Event{
			"evt-1": {
				ID:                 "evt-1",
				OrganizerID:        "org-1",
				OrganizerAccountID: "acct-org",
				Title:              "Harbor Lights Festival",
			},
		}},
		Providers: &fakeProviderRepo{providers: map[string]*models.Provider{
			"prov-1": {
				ID:          "prov-1",
				AccountID:   "acct-prov",
				DisplayName: "Northside Quartet",
				Category:    "live-music",
			},
		}},
		Accounts: &fakeAccountRepo{accounts: map[string]*models.Account{
			"acct-org":  {ID: "acct-org", Active: true},
			"acct-prov": {ID: "acct-prov", Active: true},
		}},
		Bus:    bus,
		Cache:  cache.NewMemoryCache(),
		Logger: zap.NewNop(),
	}
	svc.Checker = &ConflictChecker{Repo: bookings}
	return &testFixture{svc: svc, bookings: bookings, bus: bus}
}

func validInput(t *testing.T) CreateBookingInput {
	t.Helper()
	return CreateBookingInput{
		EventID:            "evt-1",
		ProviderID:         "prov-1",
		OrganizerAccountID: "acct-org",
		StartDate:          mustTime(t, "2026-09-12T10:00:00Z"),
		EndDate:            mustTime(t, "2026-09-12T14:00:00Z"),
		Rate:               400,
	}
}

func TestCreateBooking(t *testing.T) {
	fx := newTestService(t)

	created, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, created.Status)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, "acct-org", created.OrganizerAccountID)
	assert.Equal(t, "acct-prov", created.ProviderAccountID)
	assert.Nil(t, created.ConfirmedAt)

	require.Eventually(t, func() bool {
		return len(fx.bus.published()) == 1
	}, time.Second, 10*time.Millisecond)
	evt, ok := fx.bus.published()[0].(eventbus.BookingCreated)
	require.True(t, ok)
	assert.Equal(t, created.ID, evt.Booking.ID)
	assert.Equal(t, "Harbor Lights Festival", evt.Event.Title)
}

func TestCreateBookingRejectsBadInterval(t *testing.T) {
	fx := newTestService(t)

	input := validInput(t)
	input.EndDate = input.StartDate
	_, err := fx.svc.CreateBooking(context.Background(), input)
	require.Error(t, err)

	input = validInput(t)
	input.Rate = -1
	_, err = fx.svc.CreateBooking(context.Background(), input)
	require.Error(t, err)
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	fx := newTestService(t)

	input := validInput(t)
	input.EventID = "evt-missing"
	_, err := fx.svc.CreateBooking(context.Background(), input)
	assert.True(t, IsNotFound(err))
}

func TestCreateBookingRequiresEventOwnership(t *testing.T) {
	fx := newTestService(t)

	input := validInput(t)
	input.OrganizerAccountID = "acct-other"
	_, err := fx.svc.CreateBooking(context.Background(), input)
	assert.True(t, IsUnauthorized(err))
}

func TestCreateBookingInactiveProviderAccount(t *testing.T) {
	fx := newTestService(t)
	fx.svc.Accounts = &fakeAccountRepo{accounts: map[string]*models.Account{
		"acct-prov": {ID: "acct-prov", Active: false},
	}}

	_, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	assert.True(t, IsNotFound(err))
}

func TestCreateBookingDuplicateActivePair(t *testing.T) {
	fx := newTestService(t)
	fx.bookings.put(models.Booking{
		ID:         "bk-existing",
		EventID:    "evt-1",
		ProviderID: "prov-1",
		Status:     models.BookingStatusPending,
		Start:      mustTime(t, "2026-10-01T10:00:00Z"),
		End:        mustTime(t, "2026-10-01T12:00:00Z"),
	})

	_, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	assert.True(t, IsConflict(err))
}

func TestCreateBookingCommittedOverlap(t *testing.T) {
	fx := newTestService(t)
	fx.bookings.put(models.Booking{
		ID:         "bk-other",
		EventID:    "evt-other",
		ProviderID: "prov-1",
		Status:     models.BookingStatusConfirmed,
		Start:      mustTime(t, "2026-09-12T12:00:00Z"),
		End:        mustTime(t, "2026-09-12T16:00:00Z"),
	})

	_, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	assert.True(t, IsConflict(err))
}

func TestCreateBookingIgnoresPendingOverlap(t *testing.T) {
	fx := newTestService(t)
	// A pending request for another event holds no calendar slot.
	fx.bookings.put(models.Booking{
		ID:         "bk-other",
		EventID:    "evt-other",
		ProviderID: "prov-1",
		Status:     models.BookingStatusPending,
		Start:      mustTime(t, "2026-09-12T10:00:00Z"),
		End:        mustTime(t, "2026-09-12T14:00:00Z"),
	})

	_, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	require.NoError(t, err)
}

func TestCreateBookingAllowsBackToBack(t *testing.T) {
	fx := newTestService(t)
	fx.bookings.put(models.Booking{
		ID:         "bk-other",
		EventID:    "evt-other",
		ProviderID: "prov-1",
		Status:     models.BookingStatusConfirmed,
		Start:      mustTime(t, "2026-09-12T14:00:00Z"),
		End:        mustTime(t, "2026-09-12T18:00:00Z"),
	})

	created, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, created.Status)
}

func TestCreateBookingSucceedsWhenPublishFails(t *testing.T) {
	fx := newTestService(t)
	fx.bus.err = fmt.Errorf("broker unavailable")

	created, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, created.Status)

	stored, err := fx.bookings.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func pendingBooking(t *testing.T, fx *testFixture) *models.Booking {
	t.Helper()
	created, err := fx.svc.CreateBooking(context.Background(), validInput(t))
	require.NoError(t, err)
	return created
}

func TestUpdateBookingStatusConfirm(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)

	updated, err := fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
	require.NotNil(t, updated.ConfirmedAt)
	assert.Nil(t, updated.CompletedAt)
	assert.Nil(t, updated.CancelledAt)

	require.Eventually(t, func() bool {
		for _, e := range fx.bus.published() {
			if _, ok := e.(eventbus.BookingConfirmed); ok {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestUpdateBookingStatusConfirmLosesRace(t *testing.T) {
	fx := newTestService(t)
	first := pendingBooking(t, fx)

	// A second organizer requested the same window for another event while
	// the first request sat pending.
	second := models.Booking{
		ID:                 "bk-second",
		EventID:            "evt-other",
		ProviderID:         "prov-1",
		OrganizerAccountID: "acct-org2",
		ProviderAccountID:  "acct-prov",
		Status:             models.BookingStatusPending,
		Start:              first.Start,
		End:                first.End,
	}
	fx.bookings.put(second)

	_, err := fx.svc.UpdateBookingStatus(context.Background(), first.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	require.NoError(t, err)

	// Confirming the second must now fail: the window is committed.
	_, err = fx.svc.UpdateBookingStatus(context.Background(), second.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	assert.True(t, IsConflict(err))

	stored, getErr := fx.bookings.GetByID(context.Background(), second.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestUpdateBookingStatusRepeatConfirm(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)

	_, err := fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	require.NoError(t, err)

	// Confirming an already-confirmed booking is rejected as an invalid
	// transition, not accepted idempotently.
	_, err = fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	assert.True(t, IsInvalidTransition(err))

	_, err = fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-org",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	assert.True(t, IsInvalidTransition(err))
}

func TestUpdateBookingStatusUnauthorizedActor(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)

	_, err := fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-stranger",
		UpdateStatusRequest{Status: models.BookingStatusCancelled})
	assert.True(t, IsUnauthorized(err))
}

func TestUpdateBookingStatusInvalidTransition(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)

	// The organizer cannot accept their own request.
	_, err := fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-org",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	assert.True(t, IsInvalidTransition(err))

	// Nor can anyone skip straight to completed.
	_, err = fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusCompleted})
	assert.True(t, IsInvalidTransition(err))
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	fx := newTestService(t)

	_, err := fx.svc.UpdateBookingStatus(context.Background(), "bk-missing", "acct-org",
		UpdateStatusRequest{Status: models.BookingStatusCancelled})
	assert.True(t, IsNotFound(err))
}

func TestUpdateBookingStatusFullLifecycleTimestamps(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)
	ctx := context.Background()

	confirmed, err := fx.svc.UpdateBookingStatus(ctx, created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusConfirmed})
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)

	started, err := fx.svc.UpdateBookingStatus(ctx, created.ID, "acct-org",
		UpdateStatusRequest{Status: models.BookingStatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, started.Status)

	completed, err := fx.svc.UpdateBookingStatus(ctx, created.ID, "acct-prov",
		UpdateStatusRequest{Status: models.BookingStatusCompleted})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	// Earlier timestamps survive later transitions.
	assert.Equal(t, confirmed.ConfirmedAt.Unix(), completed.ConfirmedAt.Unix())
	assert.False(t, completed.CompletedAt.Before(*completed.ConfirmedAt))
	assert.Nil(t, completed.CancelledAt)
}

func TestUpdateBookingStatusCancelRecordsReason(t *testing.T) {
	fx := newTestService(t)
	created := pendingBooking(t, fx)
	reason := "venue flooded"

	cancelled, err := fx.svc.UpdateBookingStatus(context.Background(), created.ID, "acct-org",
		UpdateStatusRequest{Status: models.BookingStatusCancelled, CancellationReason: &reason})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, reason, *cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)

	require.Eventually(t, func() bool {
		for _, e := range fx.bus.published() {
			if evt, ok := e.(eventbus.BookingCancelled); ok {
				return evt.Reason == reason
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestGetBookingsForAccountCachesPages(t *testing.T) {
	fx := newTestService(t)
	pendingBooking(t, fx)
	ctx := context.Background()

	page1, err := fx.svc.GetBookingsForAccount(ctx, "acct-org", models.RoleOrganizer, models.BookingListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page1.Items, 1)
	assert.Equal(t, int64(1), page1.Total)

	callsAfterFirst := fx.bookings.listCalls

	page2, err := fx.svc.GetBookingsForAccount(ctx, "acct-org", models.RoleOrganizer, models.BookingListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, page1.Total, page2.Total)
	assert.Equal(t, callsAfterFirst, fx.bookings.listCalls, "second read should come from cache")
}

func TestGetBookingsForAccountClampsPaging(t *testing.T) {
	fx := newTestService(t)

	page, err := fx.svc.GetBookingsForAccount(context.Background(), "acct-org", models.RoleOrganizer,
		models.BookingListQuery{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.NotNil(t, page.Items)
}

func TestGetBookingNotFound(t *testing.T) {
	fx := newTestService(t)

	_, err := fx.svc.GetBooking(context.Background(), "bk-missing")
	assert.True(t, IsNotFound(err))
}
