package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"mindtrack-backend/internal/database"
	"mindtrack-backend/internal/models"
)

// AnswerRepo appends submission records. The collection is write-once: no
// update or delete operations exist on it.
type AnswerRepo struct {
	col *mongo.Collection
}

func NewAnswerRepo(db *mongo.Database) *AnswerRepo {
	return &AnswerRepo{col: db.Collection(database.AnswersCollection)}
}

func (r *AnswerRepo) Insert(ctx context.Context, record *models.AnswerRecord) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}
