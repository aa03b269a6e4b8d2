package mailer

import "embed"

const (
	FromName                     = "Synapse '26"
	maxRetries                   = 3
	RegistrationTicketTemplate   = "registration_ticket.tmpl"
	AccommodationBookingTemplate = "accommodation_booking.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
