package session

import (
	"encoding/base64"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

type plainPayload struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// PlainCodec stores the session as base64url(JSON). Anyone holding the cookie can change it.
type PlainCodec struct{}

// NewPlainCodec returns a PlainCodec.
func NewPlainCodec() PlainCodec {
	return PlainCodec{}
}

// Encode implements Codec.
func (PlainCodec) Encode(session Session) (string, error) {
	if _, err := validate(session); err != nil {
		return "", err
	}

	data, err := jsoniter.ConfigFastest.Marshal(plainPayload{
		ID:       session.UserID,
		Role:     string(session.Role),
		Username: session.Username,
	})
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode implements Codec.
func (PlainCodec) Decode(token string) (Session, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Session{}, invalid("malformed token")
	}

	var payload plainPayload
	if err := jsoniter.ConfigFastest.Unmarshal(data, &payload); err != nil {
		return Session{}, invalid("malformed payload")
	}

	return validate(Session{
		UserID:   payload.ID,
		Role:     core.Role(payload.Role),
		Username: payload.Username,
	})
}
