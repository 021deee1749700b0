package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/apperr"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) GetByID(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*Booking)
	return b, args.Error(1)
}

func (m *mockStore) ExecCreate(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 1
	}
	return args.Error(0)
}

func (m *mockStore) ExecTransition(ctx context.Context, id int64, to string) (bool, error) {
	args := m.Called(ctx, id, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]Booking, error) {
	args := m.Called(ctx, bookerID, state, now)
	list, _ := args.Get(0).([]Booking)
	return list, args.Error(1)
}

func (m *mockStore) ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]Booking, error) {
	args := m.Called(ctx, ownerID, state, now)
	list, _ := args.Get(0).([]Booking)
	return list, args.Error(1)
}

func (m *mockStore) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) GetItem(ctx context.Context, id int64) (*itemRow, error) {
	args := m.Called(ctx, id)
	it, _ := args.Get(0).(*itemRow)
	return it, args.Error(1)
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store bookingStore) *Service {
	logger := zerolog.Nop()
	return &Service{store: store, clock: fixedClock{at: testNow}, logger: &logger}
}

func createReq(start, end time.Time, itemID int64) CreateBookingRequest {
	return CreateBookingRequest{Start: &start, End: &end, ItemID: itemID}
}

func TestCreate(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("GetItem", mock.Anything, int64(10)).Return(&itemRow{ID: 10, Name: "drill", OwnerID: 1, Available: true}, nil)
	store.On("ExecCreate", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.Status == StatusWaiting && b.BookerID == 2 && b.ItemID == 10
	})).Return(nil)

	svc := newTestService(store)
	resp, err := svc.Create(context.Background(), 2, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), 10))
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, resp.Status)
	assert.Equal(t, int64(2), resp.Booker.ID)
	assert.Equal(t, "drill", resp.Item.Name)
	store.AssertExpectations(t)
}

func TestCreate_EndNotAfterStart(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	start := testNow.Add(2 * time.Hour)
	_, err := svc.Create(context.Background(), 2, createReq(start, start, 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

	_, err = svc.Create(context.Background(), 2, createReq(start, start.Add(-time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	store.AssertNotCalled(t, "UserExists", mock.Anything, mock.Anything)
}

func TestCreate_StartInPast(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), 2, createReq(testNow.Add(-time.Hour), testNow.Add(time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestCreate_BookerNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(2)).Return(false, nil)

	svc := newTestService(store)
	_, err := svc.Create(context.Background(), 2, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreate_ItemNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("GetItem", mock.Anything, int64(10)).Return(nil, nil)

	svc := newTestService(store)
	_, err := svc.Create(context.Background(), 2, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestCreate_ItemUnavailable(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("GetItem", mock.Anything, int64(10)).Return(&itemRow{ID: 10, OwnerID: 1, Available: false}, nil)

	svc := newTestService(store)
	_, err := svc.Create(context.Background(), 2, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestCreate_OwnItem(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(1)).Return(true, nil)
	store.On("GetItem", mock.Anything, int64(10)).Return(&itemRow{ID: 10, OwnerID: 1, Available: true}, nil)

	svc := newTestService(store)
	_, err := svc.Create(context.Background(), 1, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), 10))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	store.AssertNotCalled(t, "ExecCreate", mock.Anything, mock.Anything)
}

func waitingBooking() *Booking {
	return &Booking{
		ID:          7,
		Start:       testNow.Add(time.Hour),
		End:         testNow.Add(2 * time.Hour),
		ItemID:      10,
		ItemName:    "drill",
		ItemOwnerID: 1,
		BookerID:    2,
		Status:      StatusWaiting,
	}
}

func TestApprove(t *testing.T) {
	store := new(mockStore)
	store.On("GetByID", mock.Anything, int64(7)).Return(waitingBooking(), nil)
	store.On("ExecTransition", mock.Anything, int64(7), StatusApproved).Return(true, nil)

	svc := newTestService(store)
	resp, err := svc.Approve(context.Background(), 1, 7, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
}

func TestApprove_Reject(t *testing.T) {
	store := new(mockStore)
	store.On("GetByID", mock.Anything, int64(7)).Return(waitingBooking(), nil)
	store.On("ExecTransition", mock.Anything, int64(7), StatusRejected).Return(true, nil)

	svc := newTestService(store)
	resp, err := svc.Approve(context.Background(), 1, 7, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resp.Status)
}

func TestApprove_NotOwner(t *testing.T) {
	store := new(mockStore)
	store.On("GetByID", mock.Anything, int64(7)).Return(waitingBooking(), nil)

	svc := newTestService(store)
	_, err := svc.Approve(context.Background(), 2, 7, true)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	store.AssertNotCalled(t, "ExecTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_AlreadyDecided(t *testing.T) {
	b := waitingBooking()
	b.Status = StatusApproved
	store := new(mockStore)
	store.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

	svc := newTestService(store)
	_, err := svc.Approve(context.Background(), 1, 7, true)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestApprove_LostRace(t *testing.T) {
	// The read sees WAITING but a concurrent decision lands first; the
	// compare-and-set reports no row moved.
	store := new(mockStore)
	store.On("GetByID", mock.Anything, int64(7)).Return(waitingBooking(), nil)
	store.On("ExecTransition", mock.Anything, int64(7), StatusApproved).Return(false, nil)

	svc := newTestService(store)
	_, err := svc.Approve(context.Background(), 1, 7, true)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestGetByID_Authorization(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		wantCode apperr.Code
		ok       bool
	}{
		{"booker", 2, "", true},
		{"owner", 1, "", true},
		{"stranger", 3, apperr.CodeForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			store.On("UserExists", mock.Anything, tt.userID).Return(true, nil)
			store.On("GetByID", mock.Anything, int64(7)).Return(waitingBooking(), nil)

			svc := newTestService(store)
			resp, err := svc.GetByID(context.Background(), tt.userID, 7)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, int64(7), resp.ID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}
}

func TestGetUserBookings_StateFolding(t *testing.T) {
	store := new(mockStore)
	store.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("ListByBooker", mock.Anything, int64(2), StateAll, testNow).Return([]Booking{*waitingBooking()}, nil)

	svc := newTestService(store)
	resp, err := svc.GetUserBookings(context.Background(), 2, "NO_SUCH_STATE")
	require.NoError(t, err)
	assert.Len(t, resp, 1)
	store.AssertExpectations(t)
}

// Whole lifecycle over one store: the booker books the owner's item,
// the owner approves, a repeat approval conflicts, and a stranger may
// not read the booking.
func TestBookingLifecycle(t *testing.T) {
	const (
		ownerID    = int64(1)
		bookerID   = int64(2)
		strangerID = int64(3)
		itemID     = int64(10)
	)

	store := new(mockStore)
	store.On("UserExists", mock.Anything, bookerID).Return(true, nil)
	store.On("UserExists", mock.Anything, strangerID).Return(true, nil)
	store.On("GetItem", mock.Anything, itemID).Return(&itemRow{ID: itemID, Name: "drill", OwnerID: ownerID, Available: true}, nil)
	store.On("ExecCreate", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(store)

	created, err := svc.Create(context.Background(), bookerID, createReq(testNow.Add(time.Hour), testNow.Add(2*time.Hour), itemID))
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, created.Status)

	waiting := FromResponse(*created)
	waiting.ItemOwnerID = ownerID
	store.On("GetByID", mock.Anything, created.ID).Return(&waiting, nil).Once()
	store.On("ExecTransition", mock.Anything, created.ID, StatusApproved).Return(true, nil).Once()

	decided, err := svc.Approve(context.Background(), ownerID, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)

	approved := waiting
	approved.Status = StatusApproved
	store.On("GetByID", mock.Anything, created.ID).Return(&approved, nil)

	_, err = svc.Approve(context.Background(), ownerID, created.ID, true)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	_, err = svc.GetByID(context.Background(), strangerID, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestParseState(t *testing.T) {
	tests := []struct {
		token string
		want  State
	}{
		{"ALL", StateAll},
		{"current", StateCurrent},
		{"Past", StatePast},
		{"FUTURE", StateFuture},
		{"waiting", StateWaiting},
		{"REJECTED", StateRejected},
		{"", StateAll},
		{"garbage", StateAll},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseState(tt.token), "token %q", tt.token)
	}
}
