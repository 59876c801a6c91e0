package domain

import "time"

// Collection is one app's set of screens together with its saved camera.
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PanX      float64   `json:"panX"`
	PanY      float64   `json:"panY"`
	Zoom      float64   `json:"zoom"`
	GridSnap  bool      `json:"gridSnap"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CollectionStore interface {
	CreateCollection(c *Collection) error
	GetCollection(id string) (*Collection, error)
	ListCollections() ([]Collection, error)
	UpdateCollection(c *Collection) error
	DeleteCollection(id string) error
}
