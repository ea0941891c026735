package model

import "time"

// Roles a user account can hold.  The value is stored in the
// users.user_type column and carried in the JWT "role" claim.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an application user record as stored in the `users`
// table.  The username is the immutable identity key; reservations and
// refresh tokens reference it directly.  Passwords are never stored in
// clear: only a salted PBKDF2-SHA256 digest and its salt are persisted.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – hex PBKDF2-SHA256 digest of password+salt.
//  Salt         – hex random salt used for the digest.
//  UserType     – account role, RoleCustomer or RoleAdmin.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Salt         string    // users.salt
	UserType     string    // users.user_type
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a username and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	Username  string     // refresh_tokens.username
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
