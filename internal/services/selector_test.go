package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mindtrack-backend/internal/models"
)

func newQuestion(topic, difficulty string, priority int, skills ...string) models.Question {
	return models.Question{
		ID:         primitive.NewObjectID(),
		Type:       models.QuestionTypeMultipleChoice,
		Topic:      topic,
		Difficulty: difficulty,
		Skills:     skills,
		Priority:   priority,
	}
}

func TestSelectorNext_CountValidation(t *testing.T) {
	selector := NewSelector(&fakeCatalog{}, newFakeProgressStore())

	for _, count := range []int{0, -1, 11, 100} {
		_, err := selector.Next(context.Background(), primitive.NewObjectID().Hex(), count, SelectorFilters{})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Expected ValidationError for count %d, got %v", count, err)
		}
	}
}

func TestSelectorNext_PrefersPriorityOrder(t *testing.T) {
	low := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	mid := newQuestion("algebra", models.DifficultyEasy, 5, "equations")
	high := newQuestion("algebra", models.DifficultyEasy, 9, "equations")
	catalog := &fakeCatalog{questions: []models.Question{high, low, mid}}

	selector := NewSelector(catalog, newFakeProgressStore())
	got, err := selector.Next(context.Background(), primitive.NewObjectID().Hex(), 3, SelectorFilters{Topic: "algebra"})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected 3 questions, got %d", len(got))
	}
	if got[0].ID != low.ID || got[1].ID != mid.ID || got[2].ID != high.ID {
		t.Errorf("Questions not in priority order: %v", ids(got))
	}
}

func TestSelectorNext_SkipsCompletedQuestions(t *testing.T) {
	done := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	fresh := newQuestion("algebra", models.DifficultyEasy, 2, "equations")
	catalog := &fakeCatalog{questions: []models.Question{done, fresh}}

	store := newFakeProgressStore()
	userID := primitive.NewObjectID().Hex()
	p, _ := store.Get(context.Background(), userID)
	p.CompletedQuestions = []string{done.ID.Hex()}

	selector := NewSelector(catalog, store)
	got, err := selector.Next(context.Background(), userID, 2, SelectorFilters{Topic: "algebra"})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	for _, q := range got {
		if q.ID == done.ID {
			t.Error("Selector returned a completed question")
		}
	}
	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Errorf("Expected only the fresh question, got %v", ids(got))
	}
}

func TestSelectorNext_TargetsWeakestSkill(t *testing.T) {
	fractions := newQuestion("math", models.DifficultyMedium, 1, "fractions")
	algebra := newQuestion("math", models.DifficultyMedium, 1, "algebra")
	catalog := &fakeCatalog{questions: []models.Question{algebra, fractions}}

	store := newFakeProgressStore()
	userID := primitive.NewObjectID().Hex()
	p, _ := store.Get(context.Background(), userID)
	p.Skills = map[string]models.SkillProgress{
		"algebra":   {MasteryLevel: 80},
		"fractions": {MasteryLevel: 20},
	}

	selector := NewSelector(catalog, store)
	got, err := selector.Next(context.Background(), userID, 1, SelectorFilters{Subject: ""})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got[0].ID != fractions.ID {
		t.Errorf("Expected the weakest-skill question, got %v", ids(got))
	}
}

func TestSelectorNext_RelaxesTopicThenEverything(t *testing.T) {
	// One on-topic question, one off-topic same difficulty, one unrelated.
	onTopic := newQuestion("geometry", models.DifficultyEasy, 1, "angles")
	offTopic := newQuestion("algebra", models.DifficultyEasy, 2, "angles")
	unrelated := newQuestion("history", models.DifficultyHard, 3, "dates")
	catalog := &fakeCatalog{questions: []models.Question{onTopic, offTopic, unrelated}}

	selector := NewSelector(catalog, newFakeProgressStore())
	got, err := selector.Next(context.Background(), primitive.NewObjectID().Hex(), 3,
		SelectorFilters{Topic: "geometry", Difficulty: models.DifficultyEasy})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Expected relaxation to fill all 3 slots, got %d", len(got))
	}
	if got[0].ID != onTopic.ID {
		t.Errorf("Expected the exact match first, got %v", ids(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q.ID.Hex()] {
			t.Errorf("Duplicate question %s in batch", q.ID.Hex())
		}
		seen[q.ID.Hex()] = true
	}
}

func TestSelectorNext_EmptyCatalog(t *testing.T) {
	selector := NewSelector(&fakeCatalog{}, newFakeProgressStore())

	_, err := selector.Next(context.Background(), primitive.NewObjectID().Hex(), 5, SelectorFilters{})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func TestSelectorNext_NeverOverfills(t *testing.T) {
	var questions []models.Question
	for i := 0; i < 20; i++ {
		questions = append(questions, newQuestion("algebra", models.DifficultyEasy, i, "equations"))
	}
	catalog := &fakeCatalog{questions: questions}

	selector := NewSelector(catalog, newFakeProgressStore())
	got, err := selector.Next(context.Background(), primitive.NewObjectID().Hex(), 4, SelectorFilters{})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Expected exactly 4 questions, got %d", len(got))
	}
}

func TestWeakestSkill(t *testing.T) {
	tests := []struct {
		name     string
		skills   map[string]models.SkillProgress
		expected string
	}{
		{"no skills", nil, ""},
		{"single skill", map[string]models.SkillProgress{"algebra": {MasteryLevel: 90}}, "algebra"},
		{
			"lowest mastery wins",
			map[string]models.SkillProgress{
				"algebra":  {MasteryLevel: 40},
				"geometry": {MasteryLevel: 10},
			},
			"geometry",
		},
		{
			"ties broken by name",
			map[string]models.SkillProgress{
				"geometry": {MasteryLevel: 25},
				"algebra":  {MasteryLevel: 25},
			},
			"algebra",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := weakestSkill(tc.skills); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func ids(questions []models.Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.ID.Hex()
	}
	return out
}
