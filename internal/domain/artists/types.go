package artists

import "time"

type Artist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Genre       *string   `json:"genre"`
	Bio         *string   `json:"bio"`
	ImageURL    *string   `json:"image_url"`
	ConcertID   *int64    `json:"concert_id"`
	ConcertName *string   `json:"concert_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Concert struct {
	ConcertID   int64     `json:"concert_id"`
	ConcertName string    `json:"concert_name"`
	ConcertDate *string   `json:"concert_date"`
	Venue       *string   `json:"venue"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
