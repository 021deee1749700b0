package requests

import "time"

// ItemRequest is a row of the requests table.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
}

// AnswerItem is an item listed in answer to a request.
type AnswerItem struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   int64
}
