package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindtrack-backend/internal/database"
	"mindtrack-backend/internal/models"
)

type ProgressRepo struct {
	col *mongo.Collection
}

func NewProgressRepo(db *mongo.Database) *ProgressRepo {
	return &ProgressRepo{col: db.Collection(database.ProgressCollection)}
}

// Get returns the user's progress document, creating a zeroed one on first
// access. The upsert keeps concurrent first reads from racing each other.
func (r *ProgressRepo) Get(ctx context.Context, userID string) (*models.UserProgress, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":             uid,
			"attempted_questions": []string{},
			"completed_questions": []string{},
			"total_attempts":      0,
			"correct_answers":     0,
			"skills":              bson.M{},
			"created_at":          now,
			"updated_at":          now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var progress models.UserProgress
	err = r.col.FindOneAndUpdate(ctx, bson.M{"user_id": uid}, update, opts).Decode(&progress)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}
	return &progress, nil
}

// ApplyAnswer records one evaluated submission with field-level atomic
// operators only: counters via $inc, id sets via $addToSet. Two concurrent
// submissions by the same user therefore never clobber each other. Returns
// the post-increment document so the caller can recompute mastery.
func (r *ProgressRepo) ApplyAnswer(ctx context.Context, userID, questionID string, skills []string, isCorrect bool) (*models.UserProgress, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	now := time.Now().UTC()
	inc := bson.M{"total_attempts": 1}
	addToSet := bson.M{"attempted_questions": questionID}

	if isCorrect {
		inc["correct_answers"] = 1
		addToSet["completed_questions"] = questionID
	}

	for _, skill := range skills {
		inc["skills."+skill+".attempts"] = 1
		if isCorrect {
			inc["skills."+skill+".correct"] = 1
		}
	}

	update := bson.M{
		"$inc":      inc,
		"$addToSet": addToSet,
		"$set":      bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"user_id":    uid,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var progress models.UserProgress
	err = r.col.FindOneAndUpdate(ctx, bson.M{"user_id": uid}, update, opts).Decode(&progress)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress for user %s: %w", userID, err)
	}
	return &progress, nil
}

// SetMastery writes recomputed mastery levels for the given skills.
func (r *ProgressRepo) SetMastery(ctx context.Context, userID string, levels map[string]float64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for skill, level := range levels {
		set["skills."+skill+".mastery_level"] = level
	}

	_, err = r.col.UpdateOne(ctx, bson.M{"user_id": uid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update mastery for user %s: %w", userID, err)
	}
	return nil
}
