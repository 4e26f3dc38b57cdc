package models

import "time"

type Photo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	AlbumID     string    `json:"album"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PhotoUpdate carries the editable photo fields; nil means unchanged.
type PhotoUpdate struct {
	Title       *string
	URL         *string
	Description *string
}

// AlbumUpdate carries the editable album fields; nil means unchanged.
type AlbumUpdate struct {
	Title       *string
	Description *string
}
