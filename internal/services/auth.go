package services

import (
	"context"
	"errors"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/repository"
)

// AuthService issues and redeems one-time pins and mints session
// tokens. The signing key lives in the injected SessionManager, built
// once at startup.
type AuthService struct {
	userRepo repository.UserRepository
	pinRepo  repository.PassPinRepository
	sessions *pkg.SessionManager
	logger   *pkg.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	pinRepo repository.PassPinRepository,
	sessions *pkg.SessionManager,
	logger *pkg.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		pinRepo:  pinRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// IssuePinRequest represents a pin issuance request
type IssuePinRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// RedeemPinRequest represents a pin redemption request
type RedeemPinRequest struct {
	Username string `json:"username" validate:"required"`
	Pin      string `json:"pin" validate:"required"`
}

// RedeemPinResponse carries the authenticated user and their session
type RedeemPinResponse struct {
	User         *models.User `json:"user"`
	SessionToken string       `json:"sessionToken"`
}

// IssuePin looks up or creates the user and issues a fresh pin. The
// returned plaintext is the only copy that ever exists; the store
// keeps its hash. When a password is supplied it is persisted on
// first visit and verified on return visits before any pin is issued.
func (s *AuthService) IssuePin(ctx context.Context, req *IssuePinRequest) (string, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return "", pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, pkg.ErrUserNotFound) {
			return "", pkg.ErrUpstreamFailure.WithCause(err)
		}
		user, err = s.createUser(ctx, req.Username, req.Password)
		if err != nil {
			return "", err
		}
	} else if req.Password != "" {
		if user.HasPassword() {
			if !pkg.VerifyPassword(req.Password, user.PasswordHash) {
				return "", pkg.ErrInvalidCredentials
			}
		} else {
			if err := s.setPassword(ctx, user, req.Password); err != nil {
				return "", err
			}
		}
	}

	plainToken, err := pkg.GeneratePinToken(models.PinLength)
	if err != nil {
		return "", pkg.ErrInternalServer.WithCause(err)
	}

	pin := &models.PassPin{
		UserID:      user.ID,
		HashedToken: pkg.HashString(plainToken),
		ExpiresAt:   time.Now().Add(models.PinTTL),
		Used:        false,
	}
	if err := s.pinRepo.Create(ctx, pin); err != nil {
		return "", pkg.ErrUpstreamFailure.WithCause(err)
	}

	s.logger.Info("Issued pass pin", map[string]interface{}{
		"user_id":  user.ID.Hex(),
		"username": user.Username,
	})

	return plainToken, nil
}

// RedeemPin exchanges a valid pin for the user and a session token.
// Redemption is atomic against concurrent redeemers: exactly one call
// per pin succeeds, every other outcome is PIN_INVALID_OR_EXPIRED.
func (s *AuthService) RedeemPin(ctx context.Context, req *RedeemPinRequest) (*RedeemPinResponse, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrUserNotFound) {
			return nil, pkg.ErrUserNotFound
		}
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	if _, err := s.pinRepo.Redeem(ctx, user.ID, pkg.HashString(req.Pin), time.Now()); err != nil {
		if errors.Is(err, pkg.ErrPinInvalidOrExpired) {
			return nil, pkg.ErrPinInvalidOrExpired
		}
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}

	token, err := s.sessions.Mint(user.ID, user.Username)
	if err != nil {
		return nil, pkg.ErrInternalServer.WithCause(err)
	}

	s.logger.Info("Pass pin redeemed", map[string]interface{}{
		"user_id":  user.ID.Hex(),
		"username": user.Username,
	})

	return &RedeemPinResponse{
		User:         user,
		SessionToken: token,
	}, nil
}

// VerifySession validates a session token. Nil means unauthenticated,
// never a fault.
func (s *AuthService) VerifySession(token string) *pkg.SessionClaims {
	return s.sessions.Verify(token)
}

// SessionTTL exposes the configured session lifetime for cookies
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.SessionTTL()
}

func (s *AuthService) createUser(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{Username: username}
	if password != "" {
		hash, err := pkg.HashPassword(password)
		if err != nil {
			return nil, pkg.ErrInternalServer.WithCause(err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, pkg.ErrUpstreamFailure.WithCause(err)
	}
	return user, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := pkg.HashPassword(password)
	if err != nil {
		return pkg.ErrInternalServer.WithCause(err)
	}

	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return pkg.ErrUpstreamFailure.WithCause(err)
	}
	user.PasswordHash = hash
	return nil
}
