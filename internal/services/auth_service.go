package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gridworks/plotregistry/api/internal/logger"
	"github.com/gridworks/plotregistry/api/internal/mailer"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/gridworks/plotregistry/api/internal/repository"
)

const (
	// resetTokenBytes is the entropy behind a reset token (hex-encoded on
	// the wire).
	resetTokenBytes = 32

	// resetTokenTTL is how long a reset token stays redeemable.
	resetTokenTTL = time.Hour

	defaultRole = "user"
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService defines authentication and account management operations.
type AuthService interface {
	// Login verifies a username/password pair and returns the user with
	// the credential fields stripped. Returns ErrInvalidCredentials for
	// both unknown users and wrong passwords.
	Login(ctx context.Context, username, password string) (*models.User, error)

	// CreateUser registers a new account. An empty role defaults to "user".
	CreateUser(ctx context.Context, username, password string, email, name *string, role string) error

	// UpdatePassword sets a new password for a user by id.
	// Returns ErrUserNotFound when the id matches no row.
	UpdatePassword(ctx context.Context, userID int, newPassword string) error

	// RequestPasswordReset issues a reset token and mails a reset link to
	// the user matching identifier (username or email). Unknown
	// identifiers and mail failures are logged but not surfaced, so
	// callers cannot probe which accounts exist.
	RequestPasswordReset(ctx context.Context, identifier string) error

	// ResetPassword redeems a reset token: the new password hash replaces
	// the old one and the token is cleared in the same statement.
	// Returns ErrInvalidResetToken when the token is unknown or expired.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// authService is the concrete implementation of AuthService.
type authService struct {
	repo                 repository.UserRepository
	mail                 mailer.Mailer
	log                  *logger.Logger
	resetURLBase         string
	allowLegacyPlaintext bool
}

// NewAuthService creates a new instance of AuthService.
// allowLegacyPlaintext re-enables acceptance of pre-migration rows whose
// stored credential is the plaintext password itself.
func NewAuthService(repo repository.UserRepository, mail mailer.Mailer, log *logger.Logger, resetURLBase string, allowLegacyPlaintext bool) AuthService {
	return &authService{
		repo:                 repo,
		mail:                 mail,
		log:                  log,
		resetURLBase:         resetURLBase,
		allowLegacyPlaintext: allowLegacyPlaintext,
	}
}

// HashPassword returns the hex sha256 digest the users_react table stores.
// The dataset predates salted hashing; the stored format is fixed by the
// existing rows.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to look up user for login", err, map[string]interface{}{
			"username": username,
		})
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	valid := subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(HashPassword(password))) == 1
	if !valid && s.allowLegacyPlaintext {
		valid = subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(password)) == 1
		if valid {
			s.log.Warn("Login via legacy plaintext credential", map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	s.log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	// Never hand the credential fields back to callers.
	out := *user
	out.PasswordHash = ""
	out.ResetToken = nil
	out.ResetExpires = nil
	return &out, nil
}

func (s *authService) CreateUser(ctx context.Context, username, password string, email, name *string, role string) error {
	if role == "" {
		role = defaultRole
	}
	if err := s.repo.Create(ctx, username, HashPassword(password), email, name, role); err != nil {
		s.log.Error("Failed to create user", err, map[string]interface{}{
			"username": username,
		})
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User created", map[string]interface{}{
		"username": username,
		"role":     role,
	})
	return nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID int, newPassword string) error {
	updated, err := s.repo.UpdatePassword(ctx, userID, HashPassword(newPassword))
	if err != nil {
		s.log.Error("Failed to update password", err, map[string]interface{}{
			"user_id": userID,
		})
		return fmt.Errorf("failed to update password: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}

	s.log.Info("Password updated", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, identifier string) error {
	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		s.log.Error("Failed to look up user for password reset", err, nil)
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// Stay silent about unknown identifiers.
		s.log.Info("Password reset requested for unknown identifier", nil)
		return nil
	}
	if user.Email == nil || *user.Email == "" {
		s.log.Warn("Password reset requested for user without email", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		s.log.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s?token=%s", s.resetURLBase, token)
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.",
		link,
	)
	if err := s.mail.Send(*user.Email, "Password reset", body); err != nil {
		// The token is stored; a delivery failure must not reveal whether
		// the account exists.
		s.log.Error("Failed to send reset mail", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}

	s.log.Info("Password reset mail sent", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	redeemed, err := s.repo.RedeemResetToken(ctx, token, HashPassword(newPassword))
	if err != nil {
		s.log.Error("Failed to redeem reset token", err, nil)
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}
	if !redeemed {
		return ErrInvalidResetToken
	}

	s.log.Info("Password reset completed", nil)
	return nil
}

// newResetToken returns a hex-encoded random token.
func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
