package events

import "time"

type Event struct {
	EventID            int64     `json:"event_id"`
	EventName          string    `json:"event_name"`
	CategoryID         *int64    `json:"category_id"`
	CategoryName       *string   `json:"category_name,omitempty"`
	EventDate          *string   `json:"event_date"`
	EventPicture       *string   `json:"event_picture"`
	Rulebook           *string   `json:"rulebook"`
	Description        *string   `json:"description"`
	IsRegistrationOpen bool      `json:"is_registration_open"`
	Fees               []Fee     `json:"fees,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type Category struct {
	CategoryID    int64     `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Description   *string   `json:"description"`
	CategoryImage *string   `json:"category_image"`
	CreatedAt     time.Time `json:"created_at"`
}

// Fee is a pricing tier for an event: solo/duet/group, with a fixed price
// in rupees and member bounds for team entries.
type Fee struct {
	FeeID             int64  `json:"fee_id"`
	ParticipationType string `json:"participation_type"`
	Price             int    `json:"price"`
	MinMembers        *int   `json:"min_members"`
	MaxMembers        *int   `json:"max_members"`
}
