package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/placementcell/internal/models"
	"github.com/yoockh/placementcell/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsCollection = "events"

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByEventID(ctx context.Context, eventID string) (*models.Event, error)
	Replace(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, eventID string) error
	List(ctx context.Context, limit int64) ([]models.Event, error)
	// Upcoming returns active events dated at or after from, soonest first.
	Upcoming(ctx context.Context, from time.Time, limit int64) ([]models.Event, error)
}

type eventRepo struct {
	col *mongo.Collection
}

func NewEventRepo(db *mongo.Database) EventRepository {
	return &eventRepo{col: db.Collection(EventsCollection)}
}

func (r *eventRepo) Create(ctx context.Context, e *models.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *eventRepo) GetByEventID(ctx context.Context, eventID string) (*models.Event, error) {
	var e models.Event
	err := r.col.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) Replace(ctx context.Context, e *models.Event) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"event_id": e.EventID},
		bson.M{"$set": bson.M{
			"title":       e.Title,
			"description": e.Description,
			"event_date":  e.EventDate.UTC(),
			"venue":       e.Venue,
			"type":        e.Type,
			"is_active":   e.IsActive,
			"updated_at":  e.UpdatedAt.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, eventID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *eventRepo) List(ctx context.Context, limit int64) ([]models.Event, error) {
	if limit <= 0 {
		limit = 200
	}
	return r.find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "event_date", Value: -1}}).SetLimit(limit))
}

func (r *eventRepo) Upcoming(ctx context.Context, from time.Time, limit int64) ([]models.Event, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.find(ctx,
		bson.M{"is_active": true, "event_date": bson.M{"$gte": from.UTC()}},
		options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}).SetLimit(limit))
}

func (r *eventRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
