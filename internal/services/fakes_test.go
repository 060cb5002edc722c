package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/repository"
)

// fakeCatalog serves questions from a slice, honoring the same filter
// semantics the Mongo repository implements.
type fakeCatalog struct {
	questions []models.Question
}

func (f *fakeCatalog) GetByID(ctx context.Context, id string) (*models.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID.Hex() == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCatalog) Find(ctx context.Context, filter models.QuestionFilter, limit int) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if matchesFilter(q, filter) {
			out = append(out, q)
		}
	}
	if filter.ByPriority {
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) FindOne(ctx context.Context, filter models.QuestionFilter) (*models.Question, error) {
	for _, q := range f.questions {
		if matchesFilter(q, filter) {
			q := q
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func matchesFilter(q models.Question, f models.QuestionFilter) bool {
	if len(f.Difficulties) > 0 && !containsString(f.Difficulties, q.Difficulty) {
		return false
	}
	if f.Subject != "" && q.Subject != f.Subject {
		return false
	}
	if f.Topic != "" && q.Topic != f.Topic {
		return false
	}
	if f.Skill != "" && !containsString(q.Skills, f.Skill) {
		return false
	}
	if len(f.SkillsAny) > 0 {
		any := false
		for _, s := range f.SkillsAny {
			if containsString(q.Skills, s) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	if containsString(f.ExcludeIDs, q.ID.Hex()) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fakeProgressStore mimics the store's upsert and field-level atomic
// update semantics in memory.
type fakeProgressStore struct {
	byUser map[string]*models.UserProgress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{byUser: make(map[string]*models.UserProgress)}
}

func (f *fakeProgressStore) Get(ctx context.Context, userID string) (*models.UserProgress, error) {
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		uid = primitive.NewObjectID()
	}
	p := &models.UserProgress{
		UserID:             uid,
		AttemptedQuestions: []string{},
		CompletedQuestions: []string{},
		Skills:             map[string]models.SkillProgress{},
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	f.byUser[userID] = p
	return p, nil
}

func (f *fakeProgressStore) ApplyAnswer(ctx context.Context, userID, questionID string, skills []string, isCorrect bool) (*models.UserProgress, error) {
	p, _ := f.Get(ctx, userID)

	p.TotalAttempts++
	if !containsString(p.AttemptedQuestions, questionID) {
		p.AttemptedQuestions = append(p.AttemptedQuestions, questionID)
	}
	if isCorrect {
		p.CorrectAnswers++
		if !containsString(p.CompletedQuestions, questionID) {
			p.CompletedQuestions = append(p.CompletedQuestions, questionID)
		}
	}
	for _, skill := range skills {
		sp := p.Skills[skill]
		sp.Attempts++
		if isCorrect {
			sp.Correct++
		}
		p.Skills[skill] = sp
	}
	p.UpdatedAt = time.Now().UTC()
	return p, nil
}

func (f *fakeProgressStore) SetMastery(ctx context.Context, userID string, levels map[string]float64) error {
	p, _ := f.Get(ctx, userID)
	for skill, level := range levels {
		sp := p.Skills[skill]
		sp.MasteryLevel = level
		p.Skills[skill] = sp
	}
	return nil
}

// fakeAnswerLog collects inserted records.
type fakeAnswerLog struct {
	records []*models.AnswerRecord
}

func (f *fakeAnswerLog) Insert(ctx context.Context, record *models.AnswerRecord) error {
	f.records = append(f.records, record)
	return nil
}
