package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task represents a task document in the `tasks` collection.  Every task
// belongs to exactly one user; all queries filter by Owner so a task owned
// by someone else behaves like a missing one.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool               `bson:"completed" json:"completed"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
