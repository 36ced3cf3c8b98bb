package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseld/internal/apperr"
	"counseld/internal/models"
	"counseld/internal/store"
	"counseld/internal/tokens"
)

// fakeStore satisfies both the coordinator's Store and the token service's
// Store, so bookings consume tokens visibly. Reserve holds a mutex for the
// whole callback, the in-memory stand-in for the slot row lock, and commits
// the staged writes only when the callback succeeds.
type fakeStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	slots      map[uuid.UUID]*models.ScheduleSlot
	tokens     map[uuid.UUID]*models.ReservationToken
	applicants []*models.Applicant
	bookings   []*models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[uuid.UUID]*models.User{},
		slots:  map[uuid.UUID]*models.ScheduleSlot{},
		tokens: map[uuid.UUID]*models.ReservationToken{},
	}
}

func (f *fakeStore) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateToken(_ context.Context, t *models.ReservationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.ID] = t
	return nil
}

func (f *fakeStore) TokenByHash(_ context.Context, hash string) (*models.ReservationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == hash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) AppendAudit(_ context.Context, _ *models.AuditLog) error { return nil }

func (f *fakeStore) ApplicantByEmail(_ context.Context, email string) (*models.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.applicants {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CreateApplicant(_ context.Context, a *models.Applicant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applicants = append(f.applicants, a)
	return nil
}

func (f *fakeStore) Reserve(_ context.Context, slotID uuid.UUID, fn func(tx store.ReserveTx, slot *models.ScheduleSlot) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.slots[slotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	snapshot := *slot
	tx := &fakeTx{store: f}
	if err := fn(tx, &snapshot); err != nil {
		return err
	}

	f.bookings = append(f.bookings, tx.bookings...)
	slot.BookedCount += tx.increments
	for id, at := range tx.consumed {
		usedAt := at
		f.tokens[id].UsedAt = &usedAt
	}
	return nil
}

// fakeTx stages writes; fakeStore.Reserve commits them on success only.
type fakeTx struct {
	store      *fakeStore
	bookings   []*models.Booking
	increments int
	consumed   map[uuid.UUID]time.Time
}

func (t *fakeTx) BookingExists(slotID, applicantID uuid.UUID) (bool, error) {
	for _, b := range t.store.bookings {
		if b.SlotID == slotID && b.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) CreateBooking(b *models.Booking) error {
	t.bookings = append(t.bookings, b)
	return nil
}

func (t *fakeTx) IncrementBookedCount(_ uuid.UUID) error {
	t.increments++
	return nil
}

func (t *fakeTx) ConsumeToken(tokenID uuid.UUID, usedAt time.Time) error {
	if t.consumed == nil {
		t.consumed = map[uuid.UUID]time.Time{}
	}
	t.consumed[tokenID] = usedAt
	return nil
}

type noopMailer struct{}

func (noopMailer) SendReservationLink(_, _ string) error { return nil }

type fixture struct {
	store       *fakeStore
	svc         *Service
	now         time.Time
	counselorID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newFakeStore()
	// Wall-clock time: the token service validates expiry with time.Now, so
	// fixture tokens are minted relative to the same clock.
	now := time.Now()

	tokenSvc := tokens.NewService(st, noopMailer{}, "https://booking.example.com")
	svc := NewService(st, tokenSvc)
	svc.now = func() time.Time { return now }

	counselorID := uuid.New()
	st.users[counselorID] = &models.User{ID: counselorID, Email: "counselor@example.com", Role: models.RoleCounselor}

	return &fixture{store: st, svc: svc, now: now, counselorID: counselorID}
}

func (f *fixture) addSlot(mutate func(*models.ScheduleSlot)) *models.ScheduleSlot {
	start := f.now.Add(time.Hour)
	slot := &models.ScheduleSlot{
		ID:          uuid.New(),
		CounselorID: f.counselorID,
		StartAt:     start,
		EndAt:       start.Add(models.SlotDuration),
		Capacity:    models.SlotCapacity,
		Status:      models.SlotOpen,
	}
	if mutate != nil {
		mutate(slot)
	}
	f.store.slots[slot.ID] = slot
	return slot
}

func (f *fixture) mintToken(counselorID uuid.UUID) string {
	raw := uuid.NewString()
	tok := &models.ReservationToken{
		ID:          uuid.New(),
		CounselorID: counselorID,
		TokenHash:   tokens.HashToken(raw),
		ExpiresAt:   f.now.Add(24 * time.Hour),
	}
	f.store.tokens[tok.ID] = tok
	return raw
}

func request(token string, slotID uuid.UUID, email string) CreateRequest {
	return CreateRequest{
		Token:  token,
		SlotID: slotID.String(),
		Email:  email,
		Name:   "Test Applicant",
	}
}

func TestCreateBooksSlotAndConsumesToken(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(nil)
	raw := f.mintToken(f.counselorID)

	result, err := f.svc.Create(context.Background(), request(raw, slot.ID, "a@example.com"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.BookingID == uuid.Nil {
		t.Fatal("Create() returned a zero booking id")
	}

	if slot.BookedCount != 1 {
		t.Fatalf("BookedCount = %d, want 1", slot.BookedCount)
	}
	if len(f.store.bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(f.store.bookings))
	}
	for _, tok := range f.store.tokens {
		if tok.UsedAt == nil {
			t.Fatal("token should be consumed after a successful booking")
		}
	}
}

func TestCreateValidationErrors(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(nil)

	tests := []struct {
		name     string
		req      CreateRequest
		wantKind apperr.Kind
	}{
		{
			name:     "missing token",
			req:      CreateRequest{SlotID: slot.ID.String(), Email: "a@example.com", Name: "A"},
			wantKind: apperr.InvalidInput,
		},
		{
			name:     "unknown token",
			req:      CreateRequest{Token: "bogus", SlotID: slot.ID.String(), Email: "a@example.com", Name: "A"},
			wantKind: apperr.Unauthorized,
		},
		{
			name:     "malformed slot id",
			req:      CreateRequest{Token: f.mintToken(f.counselorID), SlotID: "not-a-uuid", Email: "a@example.com", Name: "A"},
			wantKind: apperr.InvalidInput,
		},
		{
			name:     "missing email",
			req:      CreateRequest{Token: f.mintToken(f.counselorID), SlotID: slot.ID.String(), Name: "A"},
			wantKind: apperr.InvalidInput,
		},
		{
			name:     "missing name",
			req:      CreateRequest{Token: f.mintToken(f.counselorID), SlotID: slot.ID.String(), Email: "a@example.com"},
			wantKind: apperr.InvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.req)
			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("Create() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestCreateSlotGuards(t *testing.T) {
	f := newFixture(t)
	otherCounselor := uuid.New()
	f.store.users[otherCounselor] = &models.User{ID: otherCounselor, Role: models.RoleCounselor}

	openSlot := f.addSlot(nil)
	closedSlot := f.addSlot(func(s *models.ScheduleSlot) { s.Status = models.SlotClosed })
	pastSlot := f.addSlot(func(s *models.ScheduleSlot) { s.StartAt = f.now.Add(-time.Minute) })
	fullSlot := f.addSlot(func(s *models.ScheduleSlot) { s.BookedCount = s.Capacity })

	tests := []struct {
		name     string
		slotID   uuid.UUID
		tokenFor uuid.UUID
		wantKind apperr.Kind
	}{
		{"unknown slot", uuid.New(), f.counselorID, apperr.NotFound},
		{"token for a different counselor", openSlot.ID, otherCounselor, apperr.Unauthorized},
		{"closed slot", closedSlot.ID, f.counselorID, apperr.Conflict},
		{"slot already started", pastSlot.ID, f.counselorID, apperr.Conflict},
		{"slot at capacity", fullSlot.ID, f.counselorID, apperr.Conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := f.mintToken(tt.tokenFor)
			_, err := f.svc.Create(context.Background(), request(raw, tt.slotID, "guard@example.com"))
			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("Create() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}

	if len(f.store.bookings) != 0 {
		t.Fatalf("no bookings should survive failed attempts, got %d", len(f.store.bookings))
	}
	for _, tok := range f.store.tokens {
		if tok.UsedAt != nil {
			t.Fatal("failed attempts must not consume tokens")
		}
	}
}

func TestCreateRejectsDoubleSubmit(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(nil)

	if _, err := f.svc.Create(context.Background(), request(f.mintToken(f.counselorID), slot.ID, "dup@example.com")); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.svc.Create(context.Background(), request(f.mintToken(f.counselorID), slot.ID, "dup@example.com"))
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("second booking for same applicant: err = %v, want Conflict", err)
	}

	if slot.BookedCount != 1 {
		t.Fatalf("BookedCount = %d, want 1", slot.BookedCount)
	}
	if len(f.store.applicants) != 1 {
		t.Fatalf("applicants = %d, want 1 (reused by email)", len(f.store.applicants))
	}
}

func TestCreateTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	first := f.addSlot(nil)
	second := f.addSlot(func(s *models.ScheduleSlot) { s.StartAt = f.now.Add(2 * time.Hour) })
	raw := f.mintToken(f.counselorID)

	if _, err := f.svc.Create(context.Background(), request(raw, first.ID, "one@example.com")); err != nil {
		t.Fatalf("first use: %v", err)
	}

	_, err := f.svc.Create(context.Background(), request(raw, second.ID, "two@example.com"))
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("second use of a consumed token: err = %v, want Unauthorized", err)
	}
	if second.BookedCount != 0 {
		t.Fatalf("second slot BookedCount = %d, want 0", second.BookedCount)
	}
}

func TestCreateConcurrentAttemptsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(nil) // capacity 3

	const attempts = 5
	raws := make([]string, attempts)
	for i := range raws {
		raws[i] = f.mintToken(f.counselorID)
	}

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(),
				request(raws[i], slot.ID, fmt.Sprintf("applicant%d@example.com", i)))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsKind(err, apperr.Conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}

	if ok != slot.Capacity || conflicts != attempts-slot.Capacity {
		t.Fatalf("ok = %d, conflicts = %d; want %d and %d", ok, conflicts, slot.Capacity, attempts-slot.Capacity)
	}
	if slot.BookedCount != slot.Capacity {
		t.Fatalf("BookedCount = %d, want %d", slot.BookedCount, slot.Capacity)
	}
	if len(f.store.bookings) != slot.Capacity {
		t.Fatalf("bookings = %d, want %d", len(f.store.bookings), slot.Capacity)
	}

	var consumed int
	for _, tok := range f.store.tokens {
		if tok.UsedAt != nil {
			consumed++
		}
	}
	if consumed != slot.Capacity {
		t.Fatalf("consumed tokens = %d, want %d", consumed, slot.Capacity)
	}
}
