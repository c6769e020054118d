package message

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is the single persisted entity of the board. ID and CreatedAt are
// assigned when the message is stored; Text is kept verbatim, empty included.
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
