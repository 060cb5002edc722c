package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question types known to the evaluator. Anything else in the catalog is a
// catalog authoring error, not a learner error.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
)

// Difficulty categories, ordered easy < medium < hard.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var difficultyRank = map[string]int{
	DifficultyEasy:   1,
	DifficultyMedium: 2,
	DifficultyHard:   3,
}

// HarderThan returns the difficulty categories strictly above d. An unknown
// or empty difficulty is treated as medium.
func HarderThan(d string) []string {
	rank, ok := difficultyRank[d]
	if !ok {
		rank = difficultyRank[DifficultyMedium]
	}
	var out []string
	for _, c := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if difficultyRank[c] > rank {
			out = append(out, c)
		}
	}
	return out
}

// AtMost returns the difficulty categories at or below d. An unknown or
// empty difficulty is treated as medium.
func AtMost(d string) []string {
	rank, ok := difficultyRank[d]
	if !ok {
		rank = difficultyRank[DifficultyMedium]
	}
	var out []string
	for _, c := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if difficultyRank[c] <= rank {
			out = append(out, c)
		}
	}
	return out
}

// Question is a catalog record. Canonical answers and explanations are never
// serialized to clients; the json tags strip them from every response.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type          string             `bson:"type" json:"type"`
	Text          string             `bson:"text" json:"text"`
	Options       []string           `bson:"options,omitempty" json:"options,omitempty"`
	Difficulty    string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Subject       string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Topic         string             `bson:"topic,omitempty" json:"topic,omitempty"`
	Skills        []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	CorrectAnswer string             `bson:"correct_answer" json:"-"`
	Explanations  map[string]string  `bson:"explanations,omitempty" json:"-"`
	Explanation   string             `bson:"explanation,omitempty" json:"-"`
	Points        int                `bson:"points,omitempty" json:"points,omitempty"`
	Priority      int                `bson:"priority,omitempty" json:"priority,omitempty"`
}

// QuestionFilter is a conjunction over optional catalog fields. Empty fields
// are ignored. The repository translates it into a store query.
type QuestionFilter struct {
	Difficulties []string // match any of these categories
	Subject      string
	Topic        string
	Skill        string   // questions tagged with this skill
	SkillsAny    []string // questions tagged with at least one of these
	ExcludeIDs   []string // hex ids to exclude; malformed entries are skipped
	ByPriority   bool     // sort ascending by priority
}
