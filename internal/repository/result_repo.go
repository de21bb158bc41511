package repository

import (
	"context"
	"quizarena/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo handles MongoDB operations for session results
type ResultRepo interface {
	Save(ctx context.Context, result *model.SessionResult) error
	Get(ctx context.Context, sessionID string) (*model.SessionResult, error)
	ListByPlayer(ctx context.Context, playerName string, limit int64) ([]model.SessionResult, error)
}

type resultRepo struct {
	results *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		results: db.Collection("session_results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, result *model.SessionResult) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.results.ReplaceOne(ctx, bson.M{"sessionId": result.SessionID}, result, opts)
	return err
}

func (r *resultRepo) Get(ctx context.Context, sessionID string) (*model.SessionResult, error) {
	var result model.SessionResult
	err := r.results.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) ListByPlayer(ctx context.Context, playerName string, limit int64) ([]model.SessionResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "endedAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.results.Find(ctx, bson.M{"playerName": playerName}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.SessionResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
