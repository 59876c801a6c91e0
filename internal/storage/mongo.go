package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"mockboard/internal/domain"
)

const layoutsCollection = "layouts"

// layoutDoc is one collection's layout: a single document keyed by the
// collection id.
type layoutDoc struct {
	ID          string                  `bson:"_id"`
	Positions   map[string]domain.Point `bson:"positions,omitempty"`
	Connections []domain.Connection     `bson:"connections,omitempty"`
	UpdatedAt   time.Time               `bson:"updatedAt"`
}

// MongoLayoutStore implements domain.LayoutStore on MongoDB so several
// machines can share one board.
type MongoLayoutStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoLayoutStore connects to uri and verifies the server is reachable.
func NewMongoLayoutStore(ctx context.Context, uri, database string) (*MongoLayoutStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoLayoutStore{
		client: client,
		coll:   client.Database(database).Collection(layoutsCollection),
	}, nil
}

// Close disconnects the client.
func (s *MongoLayoutStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoLayoutStore) load(ctx context.Context, collectionID string) (*layoutDoc, error) {
	var doc layoutDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": collectionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &layoutDoc{ID: collectionID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MongoLayoutStore) set(ctx context.Context, collectionID, field string, value any) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": collectionID},
		bson.M{"$set": bson.M{field: value, "updatedAt": time.Now()}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoLayoutStore) LoadPositions(ctx context.Context, collectionID string) (map[string]domain.Point, error) {
	doc, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}
	if doc.Positions == nil {
		return map[string]domain.Point{}, nil
	}
	return doc.Positions, nil
}

func (s *MongoLayoutStore) SavePositions(ctx context.Context, collectionID string, positions map[string]domain.Point) error {
	if err := s.set(ctx, collectionID, "positions", positions); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

func (s *MongoLayoutStore) LoadConnections(ctx context.Context, collectionID string) ([]domain.Connection, error) {
	doc, err := s.load(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load connections: %w", err)
	}
	return doc.Connections, nil
}

func (s *MongoLayoutStore) SaveConnections(ctx context.Context, collectionID string, conns []domain.Connection) error {
	if conns == nil {
		conns = []domain.Connection{}
	}
	if err := s.set(ctx, collectionID, "connections", conns); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	return nil
}

func (s *MongoLayoutStore) DeleteCollection(ctx context.Context, collectionID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": collectionID}); err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

var _ domain.LayoutStore = (*MongoLayoutStore)(nil)
var _ domain.LayoutStore = (*LayoutStore)(nil)
