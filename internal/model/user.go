package model

import "time"

// Staff roles carried in the JWT "role" claim.  AGENT is issued to the
// voice-agent integration only and can reach nothing but the agent
// booking webhook.
const (
	RoleAdmin     = "ADMIN"
	RoleFrontDesk = "FRONT_DESK"
	RoleAgent     = "AGENT"
)

// User represents a staff account as stored in the `users` table.
// Staff accounts are created from the CLI; there is no self sign-up.
//
// Fields:
//  ID           – primary key (uuid).
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or FRONT_DESK.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
	ID        string     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
