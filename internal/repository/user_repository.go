package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridworks/plotregistry/api/internal/database"
	"github.com/gridworks/plotregistry/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// userSelectList is the column list scanned into models.User.
const userSelectList = `id, username, email, name, role, password_hash, reset_token, reset_expires`

// UserRepository defines data access for the users_react table.
type UserRepository interface {
	// FindByUsername returns the user with that exact username,
	// or nil, nil when no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIdentifier looks a user up by username or email.
	// Returns nil, nil when no user matches.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// Create inserts a new user row.
	Create(ctx context.Context, username, passwordHash string, email, name *string, role string) error

	// UpdatePassword replaces the stored hash for a user.
	// Returns false when no row was updated.
	UpdatePassword(ctx context.Context, userID int, passwordHash string) (bool, error)

	// SetResetToken stores a reset token and its expiry on a user,
	// overwriting any previous token.
	SetResetToken(ctx context.Context, userID int, token string, expires time.Time) error

	// RedeemResetToken atomically replaces the hash and clears the token
	// for the user holding an unexpired matching token. Returns false
	// when the token is unknown or expired.
	RedeemResetToken(ctx context.Context, token, passwordHash string) (bool, error)
}

// userRepository is the concrete implementation of UserRepository.
type userRepository struct {
	db *database.Database
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM users_react WHERE username = $1`, userSelectList)
	return r.queryUser(ctx, sql, username)
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM users_react WHERE username = $1 OR email = $1`, userSelectList)
	return r.queryUser(ctx, sql, identifier)
}

// queryUser runs a single-row user query, mapping ErrNoRows to nil, nil.
func (r *userRepository) queryUser(ctx context.Context, sql string, args ...any) (*models.User, error) {
	var user models.User
	err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.PasswordHash,
		&user.ResetToken,
		&user.ResetExpires,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, username, passwordHash string, email, name *string, role string) error {
	sql := `
		INSERT INTO users_react (username, password_hash, email, name, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Pool.Exec(ctx, sql, username, passwordHash, email, name, role); err != nil {
		return fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) (bool, error) {
	sql := `UPDATE users_react SET password_hash = $1 WHERE id = $2`
	tag, err := r.db.Pool.Exec(ctx, sql, passwordHash, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update password for user %d: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int, token string, expires time.Time) error {
	sql := `UPDATE users_react SET reset_token = $1, reset_expires = $2 WHERE id = $3`
	if _, err := r.db.Pool.Exec(ctx, sql, token, expires, userID); err != nil {
		return fmt.Errorf("failed to store reset token for user %d: %w", userID, err)
	}
	return nil
}

func (r *userRepository) RedeemResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	// Single statement so the hash swap and token clear cannot be split.
	sql := `
		UPDATE users_react
		SET password_hash = $1, reset_token = NULL, reset_expires = NULL
		WHERE reset_token = $2 AND reset_expires > NOW()
	`
	tag, err := r.db.Pool.Exec(ctx, sql, passwordHash, token)
	if err != nil {
		return false, fmt.Errorf("failed to redeem reset token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
