package domain

import (
	"context"
	"time"
)

// LayoutStore is the persisted layout contract: an opaque get/set pair per
// collection for positions and connections.
type LayoutStore interface {
	LoadPositions(ctx context.Context, collectionID string) (map[string]Point, error)
	SavePositions(ctx context.Context, collectionID string, positions map[string]Point) error
	LoadConnections(ctx context.Context, collectionID string) ([]Connection, error)
	SaveConnections(ctx context.Context, collectionID string, conns []Connection) error
	DeleteCollection(ctx context.Context, collectionID string) error
}

// HistoryEntry is one saved position snapshot of a collection.
type HistoryEntry struct {
	ID           string           `json:"id"`
	CollectionID string           `json:"collectionId"`
	ParentID     *string          `json:"parentId"`
	Label        string           `json:"label"`
	Positions    map[string]Point `json:"positions"`
	CreatedAt    time.Time        `json:"createdAt"`
}
