package blockedRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gatherly/database"
	"gatherly/models"
)

type mongoBlockedRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockedRepo returns a BlockedPeriodRepository backed by MongoDB.
func NewMongoBlockedRepo() BlockedPeriodRepository {
	return &mongoBlockedRepo{coll: database.Collection("blocked_periods")}
}

func (r *mongoBlockedRepo) Get(ctx context.Context, userID string, periodStart time.Time) (*models.BlockedPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "periodStart": periodStart}
	var period models.BlockedPeriod
	err := r.coll.FindOne(ctx, filter).Decode(&period)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *mongoBlockedRepo) GetAllForUser(ctx context.Context, userID string) ([]models.BlockedPeriod, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var periods []models.BlockedPeriod
	if err := cursor.All(ctx, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *mongoBlockedRepo) Upsert(ctx context.Context, period *models.BlockedPeriod) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": period.UserID, "periodStart": period.PeriodStart}
	update := bson.M{"$set": bson.M{"bitmap": period.Bitmap}}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *mongoBlockedRepo) Delete(ctx context.Context, userID string, periodStart time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID, "periodStart": periodStart})
	return err
}

func (r *mongoBlockedRepo) ListUserIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, "userId", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}
