package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/staffcredentials"
	"github.com/AntonStoeckl/library-circulation/circulation/session"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

const (
	LogMsgLoginSucceeded   = "login succeeded"
	LogMsgLoginRejected    = "login rejected"
	LogMsgLoginRateLimited = "login rate limited"
	LogMsgLimiterFailed    = "login limiter failed, attempt not counted"

	LogAttrUsername = "username"
	LogAttrClientIP = "client_ip"
	LogAttrUserID   = "user_id"
	LogAttrError    = "error"
)

// dummyHash is compared against when the username is unknown so that both failure paths
// cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return string(hash)
})

// CredentialsReader looks up the credentials of an open account by username.
type CredentialsReader interface {
	Handle(ctx context.Context, query staffcredentials.Query) (staffcredentials.Credentials, error)
}

// Service checks credentials and rate limits login attempts.
type Service struct {
	credentials CredentialsReader
	limiter     Limiter
	logger      shell.ContextualLogger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithContextualLogger sets the logger for login outcomes.
func WithContextualLogger(logger shell.ContextualLogger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService returns a login service. A nil limiter means an in-memory one with defaults.
func NewService(credentials CredentialsReader, limiter Limiter, opts ...ServiceOption) Service {
	if limiter == nil {
		limiter = NewMemoryLimiter(DefaultAttemptLimit, DefaultAttemptWindow)
	}

	service := Service{credentials: credentials, limiter: limiter}
	for _, opt := range opts {
		opt(&service)
	}

	return service
}

// Login returns the session for username when password matches.
// It never tells whether the username or the password was wrong.
func (s Service) Login(ctx context.Context, username, password, clientIP string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return session.Session{}, core.ErrValidation.WithDetail("Username and password are required")
	}

	key := strings.ToLower(username) + "|" + clientIP

	decision, err := s.limiter.Allow(ctx, key)
	switch {
	case err != nil:
		s.log(ctx, LogMsgLimiterFailed, LogAttrUsername, username, LogAttrError, err.Error())
	case !decision.Allowed:
		s.log(ctx, LogMsgLoginRateLimited, LogAttrUsername, username, LogAttrClientIP, clientIP)
		return session.Session{}, core.ErrTooManyLoginAttempts
	}

	credentials, err := s.credentials.Handle(ctx, staffcredentials.BuildQuery(username))
	if err != nil && !errors.Is(err, core.ErrStaffAccountNotFound) {
		return session.Session{}, err
	}

	if err != nil {
		PasswordMatches(dummyHash(), password)
		s.log(ctx, LogMsgLoginRejected, LogAttrUsername, username, LogAttrClientIP, clientIP)

		return session.Session{}, core.ErrInvalidCredentials
	}

	if !PasswordMatches(credentials.PasswordHash, password) {
		s.log(ctx, LogMsgLoginRejected, LogAttrUsername, username, LogAttrClientIP, clientIP)
		return session.Session{}, core.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log(ctx, LogMsgLimiterFailed, LogAttrUsername, username, LogAttrError, err.Error())
	}

	s.log(ctx, LogMsgLoginSucceeded, LogAttrUsername, credentials.Username, LogAttrUserID, credentials.UserID)

	return session.Session{
		UserID:   credentials.UserID,
		Role:     credentials.Role,
		Username: credentials.Username,
	}, nil
}

func (s Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}

	if msg == LogMsgLoginSucceeded {
		s.logger.InfoContext(ctx, msg, args...)
		return
	}

	s.logger.WarnContext(ctx, msg, args...)
}
