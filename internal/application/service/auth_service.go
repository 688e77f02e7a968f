package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
	"github.com/sangkips/billing-counter/pkg/utils"
)

// AuthService signs operators in at the counter. Credentials are checked by
// the backend; the counter keeps the backend token for later calls and
// hands the terminal a token of its own.
type AuthService struct {
	auth        repository.Authenticator
	sessionRepo repository.SessionRepository
	jwtManager  *utils.JWTManager
	log         *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	auth repository.Authenticator,
	sessionRepo repository.SessionRepository,
	jwtManager *utils.JWTManager,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		auth:        auth,
		sessionRepo: sessionRepo,
		jwtManager:  jwtManager,
		log:         log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Session     *entity.CounterSession
	AccessToken string
	ExpiresAt   time.Time
}

// Login authenticates the operator against the backend and stores the
// session.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	requestID := logger.RequestID(ctx)
	username := strings.TrimSpace(input.Username)

	result, err := s.auth.Login(ctx, username, input.Password)
	if err != nil {
		s.log.Warn("auth_login", requestID, "login failed for "+username, err)
		return nil, apperror.ErrAuthenticationFailed
	}

	session := &entity.CounterSession{
		Username:  username,
		FirstName: result.FirstName,
		Role:      result.Role,
		Token:     result.Token,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.jwtManager.GenerateAccessToken(session.Username, session.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("auth_login", requestID, username+" signed in as "+session.Role)
	return &LoginOutput{
		Session:     session,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout forgets the stored session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessionRepo.Delete(ctx); err != nil {
		return err
	}
	s.log.Info("auth_logout", logger.RequestID(ctx), "counter session cleared")
	return nil
}

// CurrentSession returns the signed-in operator, or nil.
func (s *AuthService) CurrentSession(ctx context.Context) (*entity.CounterSession, error) {
	return s.sessionRepo.Get(ctx)
}

// SessionToken returns a token source for backend calls that reads the
// stored session. It yields "" when nobody is signed in.
func SessionToken(sessions repository.SessionRepository) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		session, err := sessions.Get(ctx)
		if err != nil || session == nil {
			return ""
		}
		return session.Token
	}
}
