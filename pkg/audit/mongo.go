package audit

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoEvent mirrors Event with bson tags so storage stays decoupled from
// the JSON wire shape.
type mongoEvent struct {
	ID         string         `bson:"_id"`
	TenantID   string         `bson:"tenant_id"`
	UserID     string         `bson:"user_id"`
	RequestID  string         `bson:"request_id,omitempty"`
	Action     string         `bson:"action"`
	Resource   string         `bson:"resource,omitempty"`
	ResourceID string         `bson:"resource_id,omitempty"`
	Result     string         `bson:"result"`
	Error      string         `bson:"error,omitempty"`
	Metadata   map[string]any `bson:"metadata,omitempty"`
	CreatedAt  bson.DateTime  `bson:"created_at"`
}

func toMongoEvent(e Event) mongoEvent {
	return mongoEvent{
		ID:         e.ID,
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		RequestID:  e.RequestID,
		Action:     e.Action,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		Result:     string(e.Result),
		Error:      e.Error,
		Metadata:   e.Metadata,
		CreatedAt:  bson.NewDateTimeFromTime(e.CreatedAt),
	}
}

func (m mongoEvent) toEvent() Event {
	return Event{
		ID:         m.ID,
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		RequestID:  m.RequestID,
		Action:     m.Action,
		Resource:   m.Resource,
		ResourceID: m.ResourceID,
		Result:     Result(m.Result),
		Error:      m.Error,
		Metadata:   m.Metadata,
		CreatedAt:  m.CreatedAt.Time(),
	}
}

// MongoStorage persists events in a MongoDB collection. It implements
// BatchStorage and QueryStorage.
type MongoStorage struct {
	collection *mongo.Collection
}

// NewMongoStorage wraps an existing collection.
func NewMongoStorage(collection *mongo.Collection) *MongoStorage {
	if collection == nil {
		panic("audit: mongo collection cannot be nil")
	}
	return &MongoStorage{collection: collection}
}

func (s *MongoStorage) Store(ctx context.Context, event Event) error {
	if _, err := s.collection.InsertOne(ctx, toMongoEvent(event)); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *MongoStorage) StoreBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]any, len(events))
	for i, e := range events {
		docs[i] = toMongoEvent(e)
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

func (s *MongoStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if criteria.Limit > 0 {
		opts = opts.SetLimit(int64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		opts = opts.SetSkip(int64(criteria.Offset))
	}

	cursor, err := s.collection.Find(ctx, mongoFilter(criteria), opts)
	if err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEvent
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStorageFailure, err)
	}

	events := make([]Event, len(docs))
	for i, doc := range docs {
		events[i] = doc.toEvent()
	}
	return events, nil
}

func (s *MongoStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, mongoFilter(criteria))
	if err != nil {
		return 0, errors.Join(ErrStorageFailure, err)
	}
	return count, nil
}

func mongoFilter(criteria Criteria) bson.M {
	filter := bson.M{}
	if criteria.TenantID != "" {
		filter["tenant_id"] = criteria.TenantID
	}
	if criteria.UserID != "" {
		filter["user_id"] = criteria.UserID
	}
	if criteria.Action != "" {
		filter["action"] = criteria.Action
	}
	if criteria.Resource != "" {
		filter["resource"] = criteria.Resource
	}

	created := bson.M{}
	if !criteria.Since.IsZero() {
		created["$gte"] = bson.NewDateTimeFromTime(criteria.Since)
	}
	if !criteria.Until.IsZero() {
		created["$lt"] = bson.NewDateTimeFromTime(criteria.Until)
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}
