package items

import (
	"database/sql"
	"time"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"required,max=512"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1,max=512"`
	Available   *bool   `json:"available,omitempty"`
	RequestID   *int64  `json:"requestId,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=1024"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	OwnerID     int64             `json:"ownerId"`
	RequestID   *int64            `json:"requestId,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

// BookingShort is the owner-only last/next booking summary.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemDetailResponse is the enriched view: booking fields stay null for
// callers other than the item's owner.
type ItemDetailResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId,omitempty"`
	LastBooking *BookingShort     `json:"lastBooking"`
	NextBooking *BookingShort     `json:"nextBooking"`
	Comments    []CommentResponse `json:"comments"`
}

func buildItemResponse(it *Item, comments []CommentResponse) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		Comments:    comments,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		resp.RequestID = &v
	}
	if resp.Comments == nil {
		resp.Comments = []CommentResponse{}
	}
	return resp
}

func buildItemDetailResponse(it *Item, last, next *ApprovedBooking, comments []CommentResponse) ItemDetailResponse {
	resp := ItemDetailResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		Comments:    comments,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		resp.RequestID = &v
	}
	if last != nil {
		resp.LastBooking = &BookingShort{ID: last.ID, BookerID: last.BookerID, Start: last.Start, End: last.End}
	}
	if next != nil {
		resp.NextBooking = &BookingShort{ID: next.ID, BookerID: next.BookerID, Start: next.Start, End: next.End}
	}
	if resp.Comments == nil {
		resp.Comments = []CommentResponse{}
	}
	return resp
}

func buildCommentResponse(cm *Comment) CommentResponse {
	return CommentResponse{ID: cm.ID, Text: cm.Text, AuthorName: cm.AuthorName, Created: cm.Created}
}

// FromResponse rebuilds the persisted shape from its transfer shape.
func FromResponse(r ItemResponse) Item {
	it := Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Available:   r.Available,
		OwnerID:     r.OwnerID,
	}
	if r.RequestID != nil {
		it.RequestID = sql.NullInt64{Int64: *r.RequestID, Valid: true}
	}
	return it
}
