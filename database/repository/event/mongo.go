package eventRepo

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

type mongoEventRepo struct {
	events       *mongo.Collection
	participants *mongo.Collection
}

// NewMongoEventRepo returns an EventRepository backed by MongoDB.
func NewMongoEventRepo() EventRepository {
	return &mongoEventRepo{
		events:       database.Collection("events"),
		participants: database.Collection("event_participants"),
	}
}

func (r *mongoEventRepo) Create(ctx context.Context, event *models.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	_, err := r.events.InsertOne(ctx, event)
	return err
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var event models.Event
	err := r.events.FindOne(ctx, bson.M{"id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *mongoEventRepo) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.events.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoEventRepo) AddParticipant(ctx context.Context, participant *models.EventParticipant) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.participants.InsertOne(ctx, participant)
	return err
}

func (r *mongoEventRepo) MarkLeft(ctx context.Context, eventID, userID string, leftAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"eventId": eventID, "userId": userID, "leftAt": nil}
	update := bson.M{"$set": bson.M{"leftAt": leftAt}}
	res, err := r.participants.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoEventRepo) GetActiveParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.participants.Find(ctx, bson.M{"eventId": eventID, "leftAt": nil})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participants []models.EventParticipant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *mongoEventRepo) CountActiveParticipants(ctx context.Context, eventID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.participants.CountDocuments(ctx, bson.M{"eventId": eventID, "leftAt": nil})
}

func (r *mongoEventRepo) GetActiveParticipant(ctx context.Context, eventID, userID string) (*models.EventParticipant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var participant models.EventParticipant
	err := r.participants.FindOne(ctx, bson.M{"eventId": eventID, "userId": userID, "leftAt": nil}).Decode(&participant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *mongoEventRepo) ListFlexibleEventIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"type":   models.EventTypeFlexible,
		"status": bson.M{"$in": []models.EventStatus{models.StatusRecruiting, models.StatusRecruitmentComplete}},
	}
	cursor, err := r.events.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var event models.Event
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		ids = append(ids, event.ID)
	}
	return ids, cursor.Err()
}
