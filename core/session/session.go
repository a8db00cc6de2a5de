// Package session holds the bearer tokens and identity of the actor calling the backend.
// Sessions are passed explicitly to API clients.
package session

import (
	"strings"
	"sync"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// IsAuthor reports whether the role may edit courses and questions.
func (r Role) IsAuthor() bool {
	return r == RoleAdmin || r == RoleTeacher
}

var (
	ErrNoToken        = errors.New("missing bearer token")
	ErrMalformedToken = errors.New("malformed bearer token")
	ErrInvalidToken   = errors.New("invalid bearer token")
	ErrUnknownRole    = errors.New("unknown role")
)

// Actor is the identity of the logged in user.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// Session is what a client needs to call the backend on behalf of an actor.
type Session struct {
	Role  Role
	Token string
	Actor Actor
}

func (s Session) AuthorizationHeader() string {
	return "Bearer " + s.Token
}

// Claims represents the claims of the backend issued JWTs.
type Claims struct {
	jwt.StandardClaims
	ID        string   `json:"id,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role,omitempty"`
	IsStudent bool     `json:"is_student,omitempty"`
	IsTeacher bool     `json:"is_teacher,omitempty"`
	IsAdmin   bool     `json:"is_admin,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// role returns the most privileged role found in the claims.
func (c *Claims) role() Role {
	has := func(r Role) bool {
		if Role(c.Role) == r {
			return true
		}
		for _, role := range c.Roles {
			if Role(role) == r {
				return true
			}
		}
		return false
	}
	switch {
	case c.IsAdmin || has(RoleAdmin):
		return RoleAdmin
	case c.IsTeacher || has(RoleTeacher):
		return RoleTeacher
	case c.IsStudent || has(RoleStudent):
		return RoleStudent
	default:
		return ""
	}
}

// ParseActor decodes the actor identity of a token without verifying its signature.
// Only use it for tokens the caller typed in itself, which are forwarded to the backend.
func ParseActor(token string) (Actor, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Actor{}, errors.Wrap(ErrMalformedToken, err.Error())
	}
	return claims.actor(), nil
}

// VerifyActor checks the HS256 signature and the expiry of a token, then decodes its actor.
func VerifyActor(token string, key []byte) (Actor, error) {
	if len(key) == 0 {
		return Actor{}, errors.Wrap(ErrInvalidToken, "no verification key")
	}
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorMalformed != 0 {
			return Actor{}, errors.Wrap(ErrMalformedToken, err.Error())
		}
		return Actor{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	return claims.actor(), nil
}

func (c *Claims) actor() Actor {
	id := c.ID
	if id == "" {
		id = c.Subject
	}
	return Actor{ID: id, Username: c.Username, Email: c.Email, Role: c.role()}
}

// FromBearer builds a session from an Authorization header value, verifying the token with key.
func FromBearer(header string, key []byte) (Session, error) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Session{}, ErrNoToken
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return Session{}, ErrNoToken
	}
	actor, err := VerifyActor(token, key)
	if err != nil {
		return Session{}, err
	}
	return Session{Role: actor.Role, Token: token, Actor: actor}, nil
}

// Store keeps one bearer token per role. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tokens map[Role]string
}

func NewStore() *Store {
	return &Store{tokens: make(map[Role]string)}
}

func (s *Store) Set(role Role, token string) error {
	if !role.Valid() {
		return ErrUnknownRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[role] = token
	return nil
}

func (s *Store) Clear(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, role)
}

// Session returns the session of the given role. The actor is decoded from the token;
// its role is the one the token was stored for.
func (s *Store) Session(role Role) (Session, error) {
	s.mu.RLock()
	token, ok := s.tokens[role]
	s.mu.RUnlock()
	if !ok || token == "" {
		return Session{}, ErrNoToken
	}
	actor, err := ParseActor(token)
	if err != nil {
		return Session{}, err
	}
	actor.Role = role
	return Session{Role: role, Token: token, Actor: actor}, nil
}
