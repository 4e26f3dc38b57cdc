package models

import "time"

// Album groups photos. Photos holds photo ids in insertion order; the ids are
// weak references kept consistent by the photo service and the reconciler.
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasPhoto reports whether photoID is listed on the album.
func (a *Album) HasPhoto(photoID string) bool {
	for _, id := range a.Photos {
		if id == photoID {
			return true
		}
	}
	return false
}
