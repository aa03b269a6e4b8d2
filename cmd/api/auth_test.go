package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synapse/internal/auth"
	"synapse/internal/domain/users"
	"synapse/internal/store"
)

// fakeUsersStore mimics the profiles table: Create assigns the id the way
// the INSERT's RETURNING clause does.
type fakeUsersStore struct {
	byEmail map[string]*users.User
	nextID  int
}

func (s *fakeUsersStore) Create(_ context.Context, u *users.User) error {
	if s.byEmail == nil {
		s.byEmail = map[string]*users.User{}
	}
	if _, exists := s.byEmail[u.Email]; exists {
		return users.ErrDuplicateEmail
	}
	s.nextID++
	u.ID = fmt.Sprintf("uuid-db-%d", s.nextID)
	if u.Role == "" {
		u.Role = "user"
	}
	s.byEmail[u.Email] = u
	return nil
}

func (s *fakeUsersStore) GetByID(_ context.Context, id string) (*users.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUsersStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	return s.byEmail[email], nil
}

func newAuthTestApp(usersStore *fakeUsersStore) *application {
	return &application{
		logger:        zap.NewNop().Sugar(),
		store:         store.Storage{Users: usersStore},
		authenticator: auth.NewJWTAuthenticator("access-secret", "refresh-secret", "Synapse", "Synapse"),
	}
}

func registerPayload() map[string]any {
	return map[string]any{
		"email":     "Ada@Example.com",
		"password":  "correct-horse",
		"full_name": "Ada Lovelace",
	}
}

func TestRegisterUser(t *testing.T) {
	usersStore := &fakeUsersStore{}
	app := newAuthTestApp(usersStore)

	rr := postJSON(t, app.registerUserHandler, "/v1/authentication/user", registerPayload())

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	data := body["data"].(map[string]any)

	// the id is whatever the repository handed back, nothing client- or
	// handler-generated
	assert.Equal(t, "uuid-db-1", data["id"])
	assert.Equal(t, "ada@example.com", data["email"], "email is stored lowercased")
	assert.Equal(t, "user", data["role"])

	stored := usersStore.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, stored.Password.Compare("correct-horse"))
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	usersStore := &fakeUsersStore{}
	app := newAuthTestApp(usersStore)

	first := postJSON(t, app.registerUserHandler, "/v1/authentication/user", registerPayload())
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, app.registerUserHandler, "/v1/authentication/user", registerPayload())
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestCreateToken(t *testing.T) {
	usersStore := &fakeUsersStore{}
	app := newAuthTestApp(usersStore)

	require.Equal(t, http.StatusCreated,
		postJSON(t, app.registerUserHandler, "/v1/authentication/user", registerPayload()).Code)

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		rr := postJSON(t, app.createTokenHandler, "/v1/authentication/token",
			map[string]any{"email": "ada@example.com", "password": "correct-horse"})

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		data := decodeBody(t, rr)["data"].(map[string]any)
		assert.NotEmpty(t, data["access_token"])
		assert.NotEmpty(t, data["refresh_token"])
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rr := postJSON(t, app.createTokenHandler, "/v1/authentication/token",
			map[string]any{"email": "ada@example.com", "password": "wrong-password"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		rr := postJSON(t, app.createTokenHandler, "/v1/authentication/token",
			map[string]any{"email": "nobody@example.com", "password": "correct-horse"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
