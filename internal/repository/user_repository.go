package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/utils"
)

// UserRepo persists user accounts.  Usernames are the identity key the
// rest of the system references; they are normalized to lower case once,
// here, at the storage boundary.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a freshly salted password digest and returns
// its ID.  A duplicate username maps to ErrUsernameExists; the unique key
// on users.username is the arbiter, not a prior existence check.
func (r *UserRepo) Create(ctx context.Context, username, password, userType string) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	hash, salt, err := utils.HashPassword(password)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, salt, user_type) VALUES (?,?,?,?)",
		username, hash, salt, userType)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by normalized username.  sql.ErrNoRows is
// returned untouched so callers can treat "unknown user" and "bad
// password" identically.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,salt,user_type,created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Salt, &u.UserType, &u.CreatedAt)
	return u, err
}

// Verify checks a username/password pair and returns the stored user on
// success.  The boolean is false for unknown users and wrong passwords
// alike.
func (r *UserRepo) Verify(ctx context.Context, username, password string) (model.User, bool, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, false, nil
		}
		return model.User{}, false, err
	}
	if !utils.VerifyPassword(u.PasswordHash, u.Salt, password) {
		return model.User{}, false, nil
	}
	return u, true, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist
// yet.  Called once at startup with explicit configuration; losing the
// race to a concurrent instance is fine, the existing row wins.
func (r *UserRepo) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := r.Create(ctx, username, password, model.RoleAdmin)
	if err == ErrUsernameExists {
		return nil
	}
	return err
}
