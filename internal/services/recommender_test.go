package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mindtrack-backend/internal/models"
)

func TestRecommenderNext_CorrectAdvancesToHarder(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	harder := newQuestion("algebra", models.DifficultyMedium, 1, "equations")
	easier := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	catalog := &fakeCatalog{questions: []models.Question{easier, harder}}

	rec := NewRecommender(catalog, newFakeProgressStore())
	got, err := rec.Next(context.Background(), primitive.NewObjectID().Hex(), &current, true)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got != harder.ID.Hex() {
		t.Errorf("Expected the harder question %s, got %s", harder.ID.Hex(), got)
	}
}

func TestRecommenderNext_CorrectSkipsCompleted(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	done := newQuestion("algebra", models.DifficultyHard, 1, "equations")
	fresh := newQuestion("algebra", models.DifficultyMedium, 2, "equations")
	catalog := &fakeCatalog{questions: []models.Question{done, fresh}}

	store := newFakeProgressStore()
	userID := primitive.NewObjectID().Hex()
	p, _ := store.Get(context.Background(), userID)
	p.CompletedQuestions = []string{done.ID.Hex()}

	rec := NewRecommender(catalog, store)
	got, err := rec.Next(context.Background(), userID, &current, true)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got != fresh.ID.Hex() {
		t.Errorf("Expected %s, got %s", fresh.ID.Hex(), got)
	}
}

func TestRecommenderNext_IncorrectStaysAtOrBelowWithSharedSkill(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyMedium, 1, "equations", "factoring")
	harder := newQuestion("algebra", models.DifficultyHard, 1, "equations")
	sameSkill := newQuestion("algebra", models.DifficultyEasy, 1, "factoring")
	otherSkill := newQuestion("algebra", models.DifficultyEasy, 1, "graphing")
	catalog := &fakeCatalog{questions: []models.Question{harder, otherSkill, sameSkill}}

	rec := NewRecommender(catalog, newFakeProgressStore())
	got, err := rec.Next(context.Background(), primitive.NewObjectID().Hex(), &current, false)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got != sameSkill.ID.Hex() {
		t.Errorf("Expected the shared-skill question %s, got %s", sameSkill.ID.Hex(), got)
	}
}

func TestRecommenderNext_IncorrectMayRepeatCompleted(t *testing.T) {
	// A missed question warrants revisiting material, even material the user
	// completed before.
	current := newQuestion("algebra", models.DifficultyMedium, 1, "equations")
	done := newQuestion("algebra", models.DifficultyEasy, 1, "equations")
	catalog := &fakeCatalog{questions: []models.Question{done}}

	store := newFakeProgressStore()
	userID := primitive.NewObjectID().Hex()
	p, _ := store.Get(context.Background(), userID)
	p.CompletedQuestions = []string{done.ID.Hex()}

	rec := NewRecommender(catalog, store)
	got, err := rec.Next(context.Background(), userID, &current, false)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got != done.ID.Hex() {
		t.Errorf("Expected the completed question %s, got %s", done.ID.Hex(), got)
	}
}

func TestRecommenderNext_FallsBackAcrossTopics(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyHard, 1, "equations")
	elsewhere := newQuestion("geometry", models.DifficultyEasy, 1, "angles")
	catalog := &fakeCatalog{questions: []models.Question{elsewhere}}

	rec := NewRecommender(catalog, newFakeProgressStore())
	got, err := rec.Next(context.Background(), primitive.NewObjectID().Hex(), &current, true)
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if got != elsewhere.ID.Hex() {
		t.Errorf("Expected the fallback question %s, got %s", elsewhere.ID.Hex(), got)
	}
}

func TestRecommenderNext_ExhaustedPoolIsNotAnError(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyHard, 1, "equations")
	catalog := &fakeCatalog{questions: []models.Question{current}}

	rec := NewRecommender(catalog, newFakeProgressStore())
	got, err := rec.Next(context.Background(), primitive.NewObjectID().Hex(), &current, true)
	if err != nil {
		t.Fatalf("Expected no error on exhausted pool, got %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty recommendation, got %s", got)
	}
}

func TestRecommenderNext_NeverRecommendsCurrent(t *testing.T) {
	current := newQuestion("algebra", models.DifficultyMedium, 1, "equations")
	catalog := &fakeCatalog{questions: []models.Question{current}}

	rec := NewRecommender(catalog, newFakeProgressStore())
	for _, wasCorrect := range []bool{true, false} {
		got, err := rec.Next(context.Background(), primitive.NewObjectID().Hex(), &current, wasCorrect)
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		if got == current.ID.Hex() {
			t.Error("Recommender returned the question just answered")
		}
	}
}
