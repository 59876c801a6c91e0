package domain

import "time"

// Point is a position in world space (top-left corner for nodes).
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Screen is a rendered mockup registered on a collection. The board only
// knows its id; content belongs to the rendering collaborator.
type Screen struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId"`
	Name         string    `json:"name"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ScreenNode is a screen placed on the canvas.
type ScreenNode struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Position Point  `json:"position"`
}

type ScreenStore interface {
	CreateScreen(s *Screen) error
	ListScreens(collectionID string) ([]Screen, error)
	DeleteScreen(collectionID, id string) error
	DeleteScreensByCollection(collectionID string) error
}
