package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Chat struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID       int64              `bson:"chat_id" json:"chat_id"`
	Name         string             `bson:"name" json:"name"`
	CreatorID    int64              `bson:"creator_id" json:"creator_id"`
	Participants []int64            `bson:"participants" json:"participants"` // user IDs only
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// HasParticipant reports membership; order of Participants carries no meaning.
func (c *Chat) HasParticipant(userID int64) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
