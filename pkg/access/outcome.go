package access

// DenyReason classifies why the gate denied a request. The values are wire
// stable; callers map them to transport responses.
type DenyReason string

const (
	// DenyAuthenticationRequired means the request carried no
	// authenticated principal.
	DenyAuthenticationRequired DenyReason = "authentication_required"

	// DenyPermissionDenied means the principal's role does not grant the
	// required permission(s) or role membership.
	DenyPermissionDenied DenyReason = "permission_denied"

	// DenySessionLimitExceeded means the principal is at or over the
	// concurrent-session ceiling.
	DenySessionLimitExceeded DenyReason = "concurrent_session_limit_exceeded"

	// DenyIPNotAllowed means the request's source address is not in the
	// principal's non-empty IP allowlist.
	DenyIPNotAllowed DenyReason = "ip_not_allowed"

	// DenyAccessHours means the request arrived outside the principal's
	// access window for the current weekday.
	DenyAccessHours DenyReason = "access_hours_violation"
)

// Detail carries the structured context of a denial: which permission, role,
// domain or address failed. It drives both the HTTP response body and the
// audit record, and never exposes role pattern internals.
type Detail struct {
	// Permissions are the permissions that were required.
	Permissions []string `json:"permissions,omitempty"`

	// Roles are the role codes that were required.
	Roles []string `json:"roles,omitempty"`

	// UserRole is the principal's actual role code, reported on role
	// denials.
	UserRole string `json:"user_role,omitempty"`

	// Domain is the engineering domain that was required.
	Domain string `json:"domain,omitempty"`

	// IP is the rejected source address.
	IP string `json:"ip,omitempty"`

	// Redirect is where an unauthenticated caller should be sent.
	Redirect string `json:"redirect,omitempty"`
}

// Outcome is the result of one gate evaluation: either Allow, or Deny with a
// typed reason and structured detail.
type Outcome struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
	Detail  Detail     `json:"detail,omitempty"`
}

// Allow is the passing outcome.
func Allow() Outcome {
	return Outcome{Allowed: true}
}

// Deny builds a denial outcome.
func Deny(reason DenyReason, detail Detail) Outcome {
	return Outcome{Allowed: false, Reason: reason, Detail: detail}
}
