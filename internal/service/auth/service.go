// Package auth implements doctor account management: registration,
// token issuance, profile edits and token revocation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/pkg/apperror"
	"github.com/centek/clinic-api/pkg/auth"
	"github.com/centek/clinic-api/pkg/security"
)

// usernameChars limits usernames to word characters, dots and hyphens.
// Adjacency rules (no leading/trailing or doubled separators) are
// checked separately since they need lookaround.
var usernameChars = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// TokenRevoker is the denylist consulted on every authenticated request.
// A nil revoker disables logout but keeps token validation working.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service struct {
	users        repository.UserRepository
	specialities repository.SpecialityRepository
	tx           repository.Transactor
	jwt          auth.JWTService
	hasher       security.PasswordHasher
	revoker      TokenRevoker

	defaultAvatar string
}

func NewService(
	users repository.UserRepository,
	specialities repository.SpecialityRepository,
	tx repository.Transactor,
	jwt auth.JWTService,
	hasher security.PasswordHasher,
	revoker TokenRevoker,
	defaultAvatar string,
) *Service {
	return &Service{
		users:         users,
		specialities:  specialities,
		tx:            tx,
		jwt:           jwt,
		hasher:        hasher,
		revoker:       revoker,
		defaultAvatar: defaultAvatar,
	}
}

// Register creates a doctor account. The speciality is deduplicated by
// name, so two doctors naming the same speciality share one row.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, apperror.Validation(err.Error(), nil)
	}

	taken, err := s.users.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apperror.ConflictWithStatus("user with this username already exists", 403)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Surname:      req.Surname,
		Photo:        s.defaultAvatar,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		speciality, err := s.specialities.FindOrCreate(ctx, req.Speciality.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve speciality: %w", err)
		}
		user.SpecialityID = speciality.ID
		user.Speciality = speciality.Name

		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.ConflictWithStatus("user with this username already exists", 403)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("doctor registered")
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.InvalidCredentials("incorrect username or password")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.InvalidCredentials("incorrect username or password")
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds, last_login is informational.
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to update last login")
	}

	return &model.TokenResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// ValidateAccess resolves a bearer token into the account it belongs
// to, rejecting revoked tokens.
func (s *Service) ValidateAccess(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperror.Unauthorized("token expired", err)
		}
		return nil, apperror.Unauthorized("could not validate credentials", err)
	}

	if s.revoker != nil && claims.TokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, apperror.Unauthorized("token revoked", nil)
		}
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("could not validate credentials", nil)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// Logout denylists the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil {
		return nil
	}
	ttl := time.Until(claims.ExpireAt)
	if err := s.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// UsernameAvailable backs the registration form's inline probe.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := s.users.UsernameTaken(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return !taken, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// ChangePassword rotates the password after re-verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.OldPassword); err != nil {
		return apperror.Validation("old password is incorrect", nil)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

// UpdateProfile applies a partial name edit. An empty patch is a no-op
// that returns the current profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch *model.UserPatch) (*model.User, error) {
	if !patch.Empty() {
		if err := s.users.UpdateProfile(ctx, userID, patch); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("user")
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.Get(ctx, userID)
}

// SetAvatar stores the saved photo path on the account. An empty path
// resets the avatar to the default one.
func (s *Service) SetAvatar(ctx context.Context, userID int64, photo string) (*model.User, error) {
	if photo == "" {
		photo = s.defaultAvatar
	}
	if err := s.users.UpdatePhoto(ctx, userID, photo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return s.Get(ctx, userID)
}

// validateUsername enforces the account naming rules: word characters,
// dots and hyphens only, with separators neither doubled nor at either
// end.
func validateUsername(username string) error {
	if !usernameChars.MatchString(username) {
		return errors.New("username may contain only letters, digits, dots, hyphens and underscores")
	}
	if isSeparator(username[0]) || isSeparator(username[len(username)-1]) {
		return errors.New("username must not start or end with a separator")
	}
	for i := 0; i+1 < len(username); i++ {
		if isSeparator(username[i]) && isSeparator(username[i+1]) {
			return errors.New("username must not contain consecutive separators")
		}
	}
	return nil
}

func isSeparator(c byte) bool {
	return c == '-' || c == '.' || c == '_'
}
