package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `INSERT INTO users (email, full_name, password, created_at) VALUES (?, ?, ?, NOW())`
	result, err := r.DB.ExecContext(ctx, query, user.Email, user.FullName, user.Password)
	if err != nil {
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT id, email, full_name, password, avatar_url, created_at, updated_at FROM users WHERE id = ?`
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Password, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail returns a zero user and no error when nothing matches, the
// way sign-up duplicate checks expect.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT id, email, full_name, password, avatar_url, created_at, updated_at FROM users WHERE email = ?`
	var user models.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Password, &user.AvatarURL,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.User{}, nil
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.User, error) {
	query := `UPDATE users SET full_name = ?, avatar_url = COALESCE(?, avatar_url), updated_at = NOW() WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, req.FullName, req.AvatarURL, userID)
	if err != nil {
		return models.User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if rowsAffected == 0 {
		return models.User{}, ErrUserNotFound
	}
	return r.GetUserByID(ctx, userID)
}

func (r *UserRepository) SetSession(ctx context.Context, userID int, session models.Session) error {
	query := `UPDATE users SET refresh_token = ?, session_expires_at = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, session.RefreshToken, session.ExpiresAt, userID)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	query := `SELECT id, refresh_token, session_expires_at FROM users WHERE refresh_token = ?`
	var (
		session   models.Session
		expiresAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.UserID, &session.RefreshToken, &expiresAt,
	)
	if err == sql.ErrNoRows {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	if expiresAt.Valid {
		session.ExpiresAt = expiresAt.Time
	} else {
		session.ExpiresAt = time.Time{}
	}
	return session, nil
}

func (r *UserRepository) ClearSession(ctx context.Context, userID int) error {
	query := `UPDATE users SET refresh_token = NULL, session_expires_at = NULL WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

func (r *UserRepository) SetDeviceToken(ctx context.Context, userID int, token string) error {
	query := `INSERT INTO device_tokens (user_id, token) VALUES (?, ?)
	          ON DUPLICATE KEY UPDATE token = VALUES(token)`
	_, err := r.DB.ExecContext(ctx, query, userID, token)
	return err
}

func (r *UserRepository) GetDeviceToken(ctx context.Context, userID int) (string, error) {
	var token string
	err := r.DB.QueryRowContext(ctx,
		`SELECT token FROM device_tokens WHERE user_id = ?`, userID).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return token, err
}
