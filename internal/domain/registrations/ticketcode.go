package registrations

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	hashids "github.com/speps/go-hashids/v2"
)

// TicketCodeGenerator produces short human-readable ticket codes from
// registration ids, printable on entry passes. hashids keeps them
// non-sequential without a lookup table.
type TicketCodeGenerator struct {
	h *hashids.HashID
}

func NewTicketCodeGenerator(salt string) (*TicketCodeGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	hd.Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("ticket code generator: %w", err)
	}
	return &TicketCodeGenerator{h: h}, nil
}

func (g *TicketCodeGenerator) Generate(registrationID int64) string {
	code, err := g.h.EncodeInt64([]int64{registrationID})
	if err != nil {
		// hashids only fails on empty input; fall back to a random tag
		code = strings.ToUpper(uuid.NewString()[:8])
	}
	return "SYN26-" + strings.ToUpper(code)
}
