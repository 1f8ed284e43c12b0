package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Access-control errors. The HTTP statuses here are part of the public API
// contract: clients key retry and redirect behavior off them.
var (
	// ErrAuthenticationRequired indicates an unauthenticated caller hit a
	// protected endpoint.
	ErrAuthenticationRequired = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryAuth, 0),
		HTTP:      http.StatusUnauthorized,
		GRPCCode:  codes.Unauthenticated,
		MessageEN: "Authentication required",
		MessageZH: "需要认证",
	})

	// ErrPermissionDenied indicates the caller's role does not grant the
	// required permissions.
	ErrPermissionDenied = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 0),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Insufficient permissions",
		MessageZH: "权限不足",
	})

	// ErrRoleDenied indicates the caller's role is not in the required set.
	ErrRoleDenied = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 1),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Insufficient role privileges",
		MessageZH: "角色权限不足",
	})

	// ErrIPNotAllowed indicates the request address is outside the
	// caller's IP allowlist.
	ErrIPNotAllowed = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 2),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Access denied from this IP address",
		MessageZH: "该 IP 地址禁止访问",
	})

	// ErrAccessHours indicates the request falls outside the caller's
	// allowed access hours.
	ErrAccessHours = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 3),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Access denied outside allowed hours",
		MessageZH: "超出允许的访问时间",
	})

	// ErrDomainDenied indicates the caller may not work in the requested
	// engineering domain.
	ErrDomainDenied = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryPermission, 4),
		HTTP:      http.StatusForbidden,
		GRPCCode:  codes.PermissionDenied,
		MessageEN: "Access denied to domain",
		MessageZH: "禁止访问该领域",
	})

	// ErrRoleNotFound indicates the role code does not exist.
	ErrRoleNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Role not found",
		MessageZH: "角色不存在",
	})

	// ErrProfileNotFound indicates the principal has no access profile.
	ErrProfileNotFound = Register(&Errno{
		Code:      MakeCode(ServiceAccess, CategoryResource, 1),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Access profile not found",
		MessageZH: "访问档案不存在",
	})
)

// Session errors.
var (
	// ErrSessionLimitExceeded indicates the caller is at their concurrent
	// session ceiling.
	ErrSessionLimitExceeded = Register(&Errno{
		Code:      MakeCode(ServiceSession, CategoryRateLimit, 0),
		HTTP:      http.StatusTooManyRequests,
		GRPCCode:  codes.ResourceExhausted,
		MessageEN: "Maximum concurrent sessions exceeded",
		MessageZH: "并发会话数超限",
	})

	// ErrSessionNotFound indicates the session token is unknown or expired.
	ErrSessionNotFound = Register(&Errno{
		Code:      MakeCode(ServiceSession, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		GRPCCode:  codes.NotFound,
		MessageEN: "Session not found",
		MessageZH: "会话不存在",
	})
)
