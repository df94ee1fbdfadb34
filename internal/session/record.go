package session

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/model"
)

// Record is the serialized identity+role payload representing a logged-in
// principal. The same payload is held in the ephemeral store, the durable
// store and the auth cookies; all copies are expected to agree on role and
// identity, though nothing enforces that atomically.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

var ErrMalformedRecord = errors.New("malformed session record")

func RecordFromUser(u model.PublicUser) Record {
	return Record{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, AvatarURL: u.AvatarURL}
}

func (r Record) IsAdmin() bool {
	return r.Role == model.RoleAdmin
}

// Codec converts a Record to and from its cookie/storage representation.
type Codec interface {
	Encode(Record) (string, error)
	Decode(string) (Record, error)
}

// JSONCodec reproduces the plain JSON payload the browser clients write.
// The payload is client-readable and client-editable; see SignedCodec for
// the hardened alternative.
type JSONCodec struct{}

func (JSONCodec) Encode(r Record) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONCodec) Decode(raw string) (Record, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Record{}, ErrMalformedRecord
	}

	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Record{}, ErrMalformedRecord
	}
	if r.ID == "" || !model.ValidRole(r.Role) {
		return Record{}, ErrMalformedRecord
	}

	return r, nil
}

// SignedCodec wraps the record in an HS256 token so the role claim cannot
// be edited client-side. Unsigned or tampered payloads decode as malformed,
// which the guard layer already treats as an absent session.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewSignedCodec(secret string, ttl time.Duration) *SignedCodec {
	return &SignedCodec{secret: []byte(secret), ttl: ttl}
}

func (c *SignedCodec) Encode(r Record) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       r.ID,
		"name":      r.Name,
		"email":     r.Email,
		"role":      r.Role,
		"avatarUrl": r.AvatarURL,
		"iat":       now.Unix(),
		"exp":       now.Add(c.ttl).Unix(),
	})
	return token.SignedString(c.secret)
}

func (c *SignedCodec) Decode(raw string) (Record, error) {
	parsed, err := jwt.Parse(strings.TrimSpace(raw), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedRecord
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Record{}, ErrMalformedRecord
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Record{}, ErrMalformedRecord
	}

	r := Record{}
	r.ID, _ = claims["sub"].(string)
	r.Name, _ = claims["name"].(string)
	r.Email, _ = claims["email"].(string)
	r.Role, _ = claims["role"].(string)
	r.AvatarURL, _ = claims["avatarUrl"].(string)

	if r.ID == "" || !model.ValidRole(r.Role) {
		return Record{}, ErrMalformedRecord
	}

	return r, nil
}
