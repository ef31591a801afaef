// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values. Only approved projects are eligible for matching.
const (
	ProjectPending  = "pending"
	ProjectApproved = "approved"
	ProjectRejected = "rejected"
)

// Project is a capstone project posted by a client and approved by an
// instructor. TeamSize is the fixed capacity of the team that will be
// formed for it; it must be at least 1.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ClientID    primitive.ObjectID `bson:"client_id,omitempty" json:"client_id,omitempty"`

	Status   string `bson:"status" json:"status"` // pending | approved | rejected
	TeamSize int    `bson:"team_size" json:"team_size"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
