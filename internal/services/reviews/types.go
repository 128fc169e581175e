// Package reviews defines the review record that flows through every
// pipeline stage
// stages only ever add fields, a downstream record is a strict superset of
// its upstream form, which is what keeps redelivery byte-identical
package reviews

// Record is the unit of work
// identity is the object key, stable across containers
type Record struct {
	ReviewID   string `json:"review_id,omitempty"`
	ReviewerID string `json:"reviewer_id"             validate:"required"`
	ProductID  string `json:"product_id,omitempty"`
	ReviewText string `json:"review_text"`
	Summary    string `json:"summary,omitempty"`
	Rating     int    `json:"rating,omitempty"        validate:"omitempty,min=1,max=5"`

	// added by the preprocessing stage
	Tokens []string `json:"tokens,omitempty"`
	Lemmas []string `json:"lemmas,omitempty"`

	// added by the moderation stage
	IsFlagged      *bool    `json:"is_flagged,omitempty"`
	ProfanityScore *float64 `json:"profanity_score,omitempty"`
	ViolationCount *int64   `json:"violation_count,omitempty"`
	ReviewerBanned *bool    `json:"reviewer_banned,omitempty"`

	// added by the sentiment stage
	SentimentLabel string   `json:"sentiment_label,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
}

// Flagged reports the moderation outcome, false before moderation ran
func (r Record) Flagged() bool { return r.IsFlagged != nil && *r.IsFlagged }

// Bool returns a pointer to b, for the optional stage fields
func Bool(b bool) *bool { return &b }

// Int64 returns a pointer to n
func Int64(n int64) *int64 { return &n }

// Float64 returns a pointer to f
func Float64(f float64) *float64 { return &f }
