package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnswerRecord is one submission. Append-only; never updated or deleted.
type AnswerRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	QuestionID primitive.ObjectID `bson:"question_id" json:"question_id"`
	UserAnswer string             `bson:"user_answer" json:"user_answer"`
	IsCorrect  bool               `bson:"is_correct" json:"is_correct"`
	TimeTaken  float64            `bson:"time_taken" json:"time_taken"`
	Score      int                `bson:"score" json:"score"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// SkillProgress tracks one skill tag. MasteryLevel is a decayed exponential
// average, always within [0,100].
type SkillProgress struct {
	MasteryLevel float64 `bson:"mastery_level" json:"mastery_level"`
	Attempts     int     `bson:"attempts" json:"attempts"`
	Correct      int     `bson:"correct" json:"correct"`
}

// UserProgress is the per-user learning state. One document per user,
// created lazily on first access. Invariants: completed ⊆ attempted and
// correct_answers ≤ total_attempts.
type UserProgress struct {
	ID                 primitive.ObjectID       `bson:"_id,omitempty" json:"-"`
	UserID             primitive.ObjectID       `bson:"user_id" json:"user_id"`
	AttemptedQuestions []string                 `bson:"attempted_questions" json:"attempted_questions"`
	CompletedQuestions []string                 `bson:"completed_questions" json:"completed_questions"`
	TotalAttempts      int                      `bson:"total_attempts" json:"total_attempts"`
	CorrectAnswers     int                      `bson:"correct_answers" json:"correct_answers"`
	Skills             map[string]SkillProgress `bson:"skills" json:"skills"`
	CreatedAt          time.Time                `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time                `bson:"updated_at" json:"updated_at"`
}

// SkillLevel is a skill entry in a performance summary.
type SkillLevel struct {
	Skill        string  `json:"skill"`
	MasteryLevel float64 `json:"mastery_level"`
	Attempts     int     `json:"attempts"`
}

// Performance summarizes a user's learning state for API responses.
type Performance struct {
	Accuracy                 float64      `json:"accuracy"`
	TotalQuestionsAttempted  int          `json:"total_questions_attempted"`
	UniqueQuestionsCompleted int          `json:"unique_questions_completed"`
	UniqueQuestionsAttempted int          `json:"unique_questions_attempted"`
	Strengths                []SkillLevel `json:"strengths"`
	Weaknesses               []SkillLevel `json:"weaknesses"`
}

// SubmitAnswerRequest is the POST /questions/{id}/answer body.
type SubmitAnswerRequest struct {
	Answer    string  `json:"answer"`
	TimeTaken float64 `json:"time_taken"`
}

// SubmitAnswerResponse is returned after an answer is evaluated and recorded.
type SubmitAnswerResponse struct {
	Correct        bool         `json:"correct"`
	Score          int          `json:"score"`
	Feedback       string       `json:"feedback"`
	Performance    *Performance `json:"performance"`
	NextQuestionID string       `json:"next_question_id,omitempty"`
}
