package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"library_service/pkg/apperr"
	"library_service/pkg/jwtutil"
	"library_service/pkg/lockout"
	"library_service/pkg/models"
	"library_service/pkg/repository"
)

type AuthService struct {
	store   repository.Store
	hasher  PasswordHasher
	tokens  *jwtutil.JWTUtil
	tracker *lockout.Tracker
	log     *zap.Logger
}

func NewAuthService(store repository.Store, hasher PasswordHasher, tokens *jwtutil.JWTUtil, tracker *lockout.Tracker, log *zap.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, tracker: tracker, log: log}
}

// Login checks the credentials and issues a bearer token. Too many failed
// attempts lock the account until an admin unlocks it.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if isNotFound(err) {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return "", nil, err
	}
	if !user.AccountNonLocked {
		s.log.Warn("Login attempt on locked account", zap.String("email", email))
		return "", nil, apperr.Forbidden("account %s is locked", email)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if s.tracker.RecordFailure(email) {
			if err := s.store.Users().SetLocked(ctx, user.ID, true); err != nil {
				return "", nil, fmt.Errorf("lock account: %w", err)
			}
			s.log.Warn("Account locked after repeated failed logins", zap.String("email", email))
		}
		return "", nil, apperr.Unauthorized("invalid credentials")
	}
	s.tracker.RecordSuccess(email)

	token, err := s.tokens.GenerateToken(user.Email, user.ID, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	s.log.Info("User logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return token, user, nil
}
