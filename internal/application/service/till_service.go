package service

import (
	"context"
	"strings"
	"sync"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/events"
	"github.com/sangkips/billing-counter/pkg/apperror"
	"github.com/sangkips/billing-counter/pkg/logger"
)

// TillService opens and closes the till. Both directions ask the backend to
// verify the operator's credentials again.
type TillService struct {
	auth      repository.Authenticator
	tillRepo  repository.TillRepository
	publisher events.Publisher
	log       *logger.Logger

	mu sync.Mutex
}

// NewTillService creates a new till service
func NewTillService(
	auth repository.Authenticator,
	tillRepo repository.TillRepository,
	publisher events.Publisher,
	log *logger.Logger,
) *TillService {
	return &TillService{
		auth:      auth,
		tillRepo:  tillRepo,
		publisher: publisher,
		log:       log,
	}
}

// Status returns the persisted till state. A till that was never opened is
// closed.
func (s *TillService) Status(ctx context.Context) (*entity.TillSession, error) {
	return s.tillRepo.Get(ctx)
}

// RequireOpen returns ErrTillClosed unless the till is open.
func (s *TillService) RequireOpen(ctx context.Context) (*entity.TillSession, error) {
	till, err := s.tillRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !till.IsOpen {
		return nil, apperror.ErrTillClosed
	}
	return till, nil
}

// Open re-authenticates the operator and opens the till in their name.
func (s *TillService) Open(ctx context.Context, username, password string) (*entity.TillSession, error) {
	return s.transition(ctx, true, username, password)
}

// Close re-authenticates the operator and closes the till.
func (s *TillService) Close(ctx context.Context, username, password string) (*entity.TillSession, error) {
	return s.transition(ctx, false, username, password)
}

func (s *TillService) transition(ctx context.Context, open bool, username, password string) (*entity.TillSession, error) {
	requestID := logger.RequestID(ctx)
	action := "till_close"
	if open {
		action = "till_open"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.tillRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if open && current.IsOpen {
		return nil, apperror.ErrTillAlreadyOpen
	}
	if !open && !current.IsOpen {
		return nil, apperror.ErrTillAlreadyClosed
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "credentials", Message: "username and password are required"},
		})
	}

	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.log.Warn(action, requestID, "re-authentication failed for "+username, err)
		return nil, apperror.ErrAuthenticationFailed
	}

	next := &entity.TillSession{}
	if open {
		next = &entity.TillSession{IsOpen: true, OpenedBy: username, OpenedByRole: result.Role}
	}
	if err := s.tillRepo.Save(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info(action, requestID, "till "+tillState(open)+" by "+username)
	if err := s.publisher.Publish(ctx, events.NewTillEvent(open, username)); err != nil {
		s.log.Warn(action, requestID, "publish till event", err)
	}
	return next, nil
}

func tillState(open bool) string {
	if open {
		return "opened"
	}
	return "closed"
}
