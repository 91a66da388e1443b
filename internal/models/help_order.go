package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HelpOrder is a student question document, answered at most once by staff.
// Stored in MongoDB rather than the relational schema.
type HelpOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID string             `bson:"student_id" json:"student_id"`
	Question  string             `bson:"question" json:"question"`
	Answer    *string            `bson:"answer,omitempty" json:"answer,omitempty"`
	AnswerAt  *time.Time         `bson:"answer_at,omitempty" json:"answer_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
