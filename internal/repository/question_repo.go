package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindtrack-backend/internal/database"
	"mindtrack-backend/internal/models"
)

// ErrNotFound reports an absent document on a read path. Callers translate
// it into a 404; it never carries store internals.
var ErrNotFound = errors.New("not found")

type QuestionRepo struct {
	col *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) *QuestionRepo {
	return &QuestionRepo{col: db.Collection(database.QuestionsCollection)}
}

// GetByID looks up a question by its hex id. A malformed id is reported as
// not-found, logged for diagnostics rather than surfaced to the client.
func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		log.Printf("question lookup with malformed id %q: %v", id, err)
		return nil, ErrNotFound
	}

	var q models.Question
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch question %s: %w", id, err)
	}
	return &q, nil
}

// Find returns up to limit questions matching the filter conjunction,
// sorted ascending by priority when requested.
func (r *QuestionRepo) Find(ctx context.Context, f models.QuestionFilter, limit int) ([]models.Question, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	opts := options.Find().SetLimit(int64(limit))
	if f.ByPriority {
		opts.SetSort(bson.D{{Key: "priority", Value: 1}})
	}

	cursor, err := r.col.Find(ctx, buildQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// FindOne returns a single matching question, or ErrNotFound.
func (r *QuestionRepo) FindOne(ctx context.Context, f models.QuestionFilter) (*models.Question, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var q models.Question
	err := r.col.FindOne(ctx, buildQuery(f)).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query question: %w", err)
	}
	return &q, nil
}

func buildQuery(f models.QuestionFilter) bson.M {
	query := bson.M{}

	switch len(f.Difficulties) {
	case 0:
	case 1:
		query["difficulty"] = f.Difficulties[0]
	default:
		query["difficulty"] = bson.M{"$in": f.Difficulties}
	}
	if f.Subject != "" {
		query["subject"] = f.Subject
	}
	if f.Topic != "" {
		query["topic"] = f.Topic
	}
	if f.Skill != "" {
		query["skills"] = f.Skill
	}
	if len(f.SkillsAny) > 0 {
		query["skills"] = bson.M{"$in": f.SkillsAny}
	}
	if len(f.ExcludeIDs) > 0 {
		query["_id"] = bson.M{"$nin": toObjectIDs(f.ExcludeIDs)}
	}

	return query
}

// toObjectIDs converts hex ids, silently dropping malformed entries: an
// unparseable id cannot match any document, so excluding it is a no-op.
func toObjectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return oids
}
