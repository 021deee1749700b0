package requests

import "time"

type CreateRequestRequest struct {
	Description string `json:"description" binding:"required,max=1024"`
}

type AnswerItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   int64  `json:"requestId"`
}

type RequestResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	Created     time.Time            `json:"created"`
	Items       []AnswerItemResponse `json:"items"`
}

func buildRequestResponse(r *ItemRequest, items []AnswerItemResponse) RequestResponse {
	if items == nil {
		items = []AnswerItemResponse{}
	}
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       items,
	}
}

func buildAnswerItemResponse(it *AnswerItem) AnswerItemResponse {
	return AnswerItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}
}
