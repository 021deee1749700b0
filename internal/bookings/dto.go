package bookings

import "time"

type CreateBookingRequest struct {
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
	ItemID int64      `json:"itemId" binding:"required"`
}

type BookerShort struct {
	ID int64 `json:"id"`
}

type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64       `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Booker BookerShort `json:"booker"`
	Item   ItemShort   `json:"item"`
}

func buildBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Booker: BookerShort{ID: b.BookerID},
		Item:   ItemShort{ID: b.ItemID, Name: b.ItemName},
	}
}

// FromResponse rebuilds the persisted shape from its transfer shape.
func FromResponse(r BookingResponse) Booking {
	return Booking{
		ID:       r.ID,
		Start:    r.Start,
		End:      r.End,
		Status:   r.Status,
		BookerID: r.Booker.ID,
		ItemID:   r.Item.ID,
		ItemName: r.Item.Name,
	}
}
