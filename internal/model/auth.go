// Package model defines the data models for the application.
package model

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse represents the login response body.
type LoginResponse struct {
	Token       string `json:"token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	RoleCode    string `json:"role_code,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// CreateRoleRequest represents the role creation body.
type CreateRoleRequest struct {
	Code        string   `json:"code" validate:"required,role_code"`
	Name        string   `json:"name" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=255"`
	Patterns    []string `json:"patterns" validate:"required,min=1,dive,permission"`
	RedirectURL string   `json:"redirect_url" validate:"max=255"`
}

// UpdateRoleRequest represents the role update body. Nil fields are left
// unchanged.
type UpdateRoleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=64"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Patterns    *[]string `json:"patterns" validate:"omitempty,min=1,dive,permission"`
	RedirectURL *string   `json:"redirect_url" validate:"omitempty,max=255"`
}

// UpsertProfileRequest represents the profile create-or-replace body.
type UpsertProfileRequest struct {
	RoleCode              string               `json:"role_code" validate:"required,role_code"`
	PrimaryDomain         string               `json:"primary_domain" validate:"max=64"`
	SecondaryDomains      []string             `json:"secondary_domains"`
	IPAllowlist           []string             `json:"ip_allowlist" validate:"omitempty,dive,ip"`
	AccessHours           map[string]HourRange `json:"access_hours"`
	MaxConcurrentSessions int                  `json:"max_concurrent_sessions" validate:"min=0"`
}

// CheckAccessRequest asks whether the calling user would pass the given
// requirement. Used by UIs to grey out actions before attempting them.
type CheckAccessRequest struct {
	Permissions []string `json:"permissions" validate:"omitempty,dive,permission"`
	Roles       []string `json:"roles" validate:"omitempty,dive,role_code"`
	Domain      string   `json:"domain" validate:"max=64"`
}

// CheckAccessResponse is the outcome of a CheckAccessRequest.
type CheckAccessResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// SessionInfo describes one active session for the session listing.
type SessionInfo struct {
	Token        string `json:"token"`
	IP           string `json:"ip"`
	UserAgent    string `json:"user_agent"`
	LastActivity int64  `json:"last_activity"`
	ExpiresAt    int64  `json:"expires_at"`
	Current      bool   `json:"current"`
}
