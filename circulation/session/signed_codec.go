package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// DefaultTTL is how long a signed session stays valid when no TTL is configured.
const DefaultTTL = 12 * time.Hour

// ErrEmptySecret is returned when a SignedCodec is built without a secret.
var ErrEmptySecret = errors.New("session secret must not be empty")

type claims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignedCodec stores the session as an HS256 JWT.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SignedOption configures a SignedCodec.
type SignedOption func(*SignedCodec)

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) SignedOption {
	return func(c *SignedCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithNow replaces the clock used for iat, exp, and expiry checks.
func WithNow(now func() time.Time) SignedOption {
	return func(c *SignedCodec) {
		c.now = now
	}
}

// NewSignedCodec returns a codec signing with secret.
func NewSignedCodec(secret string, opts ...SignedOption) (SignedCodec, error) {
	if secret == "" {
		return SignedCodec{}, ErrEmptySecret
	}

	codec := SignedCodec{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(&codec)
	}

	return codec, nil
}

// Encode implements Codec.
func (c SignedCodec) Encode(session Session) (string, error) {
	if _, err := validate(session); err != nil {
		return "", err
	}

	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:     string(session.Role),
		Username: session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	return signed, nil
}

// Decode implements Codec.
func (c SignedCodec) Decode(token string) (Session, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var parsed claims
	_, err := parser.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.secret, nil
	})
	if err != nil {
		return Session{}, invalid("token rejected")
	}

	// Expiry is checked against the codec's clock, not the parser's.
	if parsed.ExpiresAt == nil || !c.now().Before(parsed.ExpiresAt.Time) {
		return Session{}, invalid("token expired")
	}

	return validate(Session{
		UserID:   parsed.Subject,
		Role:     core.Role(parsed.Role),
		Username: parsed.Username,
	})
}
