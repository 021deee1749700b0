package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The response view carries no owner id, so the round trip covers every
// field except ItemOwnerID.
func TestBookingResponseRoundTrip(t *testing.T) {
	b := Booking{
		ID:       7,
		Start:    time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC),
		ItemID:   10,
		ItemName: "drill",
		BookerID: 2,
		Status:   StatusWaiting,
	}
	assert.Equal(t, b, FromResponse(buildBookingResponse(&b)))
}
