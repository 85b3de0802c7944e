package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventPrePlacementTalk EventType = "PRE_PLACEMENT_TALK"
	EventTest             EventType = "TEST"
	EventInterview        EventType = "INTERVIEW"
	EventWorkshop         EventType = "WORKSHOP"
	EventOther            EventType = "OTHER"
)

func (t EventType) Valid() bool {
	switch t {
	case EventPrePlacementTalk, EventTest, EventInterview, EventWorkshop, EventOther:
		return true
	}
	return false
}

// Event is informational only; stored in MongoDB.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID     string             `bson:"event_id" json:"id"` // uuid v4
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EventDate   time.Time          `bson:"event_date" json:"eventDate"`
	Venue       string             `bson:"venue" json:"venue"`
	Type        EventType          `bson:"type" json:"type"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
