package services

// Typed service errors. Handlers map them onto HTTP statuses centrally; the
// zoo stays small on purpose.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// ConfigError reports a misauthored catalog record, e.g. a question whose
// type the evaluator does not know. Surfaced as a server error, never
// blamed on the learner.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }
