package domain

import "time"

// Comment is a visitor feedback entry, optionally attached to one analysis.
type Comment struct {
	ID         string    `bson:"_id" json:"id"`
	AnalysisID string    `bson:"analysis_id,omitempty" json:"analysisId,omitempty"`
	UserName   string    `bson:"user_name" json:"userName"`
	Message    string    `bson:"message" json:"message"`
	Rating     int       `bson:"rating" json:"rating"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
