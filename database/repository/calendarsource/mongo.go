package calendarsourceRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/database"
	"gatherly/models"
)

type mongoCalendarSourceRepo struct {
	coll *mongo.Collection
}

// NewMongoCalendarSourceRepo returns a CalendarSourceRepository backed by MongoDB.
func NewMongoCalendarSourceRepo() CalendarSourceRepository {
	return &mongoCalendarSourceRepo{coll: database.Collection("calendar_sources")}
}

func (r *mongoCalendarSourceRepo) Create(ctx context.Context, source *models.CalendarSource) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	_, err := r.coll.InsertOne(ctx, source)
	return err
}

func (r *mongoCalendarSourceRepo) GetByID(ctx context.Context, id string) (*models.CalendarSource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var source models.CalendarSource
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&source)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *mongoCalendarSourceRepo) GetActiveByUser(ctx context.Context, userID string) ([]models.CalendarSource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sources []models.CalendarSource
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *mongoCalendarSourceRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"userId": userID})
}

func (r *mongoCalendarSourceRepo) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string, syncedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"syncStatus":   status,
		"syncError":    syncErr,
		"lastSyncedAt": syncedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCalendarSourceRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"displayName": displayName}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCalendarSourceRepo) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
