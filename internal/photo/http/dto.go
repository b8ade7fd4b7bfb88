package http

import (
	"time"

	"github.com/renttogether/renttogether-backend/internal/photo"
)

// PhotoResponse is the API shape of a car photo.
type PhotoResponse struct {
	ID           string    `json:"id"`
	CarID        string    `json:"car_id"`
	PhotoURL     string    `json:"photo_url"`
	IsMain       bool      `json:"is_main"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	return PhotoResponse{
		ID:           p.ID,
		CarID:        p.CarID,
		PhotoURL:     p.PhotoURL,
		IsMain:       p.IsMain,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt,
	}
}

func newPhotoResponses(photos []*photo.Photo) []PhotoResponse {
	items := make([]PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = NewPhotoResponse(p)
	}
	return items
}
