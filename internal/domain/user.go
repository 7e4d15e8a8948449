package domain

import "time"

type User struct {
	ID         string    `bson:"_id" json:"id"`
	Email      string    `bson:"email" json:"email"`
	Name       string    `bson:"name" json:"name"`
	Headline   string    `bson:"headline,omitempty" json:"headline,omitempty"`
	TargetRole string    `bson:"target_role,omitempty" json:"targetRole,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
