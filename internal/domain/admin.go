package domain

import "time"

// Admin is a back-office account. Usernames are unique and case-sensitive.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminSession is a bearer session. Only the token's SHA-256 is stored.
type AdminSession struct {
	ID        int64     `json:"id"`
	AdminID   int64     `json:"admin_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IPAddress string    `json:"ip_address,omitempty"`
}

// IsExpired reports whether the session has expired at the given time.
func (s *AdminSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// LoginAttempt is an audit row for one login try.
type LoginAttempt struct {
	ID        int64     `json:"id"`
	IPAddress string    `json:"ip_address"`
	Username  string    `json:"username"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
