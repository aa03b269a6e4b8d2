package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        string   `json:"id"` // uuid
	Email     string   `json:"email"`
	FullName  *string  `json:"full_name"`
	Phone     *string  `json:"phone"`
	College   *string  `json:"college"`
	AvatarURL *string  `json:"avatar_url"`
	Role      string   `json:"role"` // user | admin
	Password  password `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool { return u.Role == "admin" }

// password keeps plaintext and hash together so Create can hash once and
// the plaintext never leaves the struct.
type password struct {
	text *string
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash
	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

func (p *password) Hash() []byte { return p.hash }

func (p *password) SetHash(hash []byte) { p.hash = hash }
