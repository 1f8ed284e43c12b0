package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	assert.Equal(t, 203000, MakeCode(ServiceAccess, CategoryPermission, 0))
	assert.Equal(t, 306000, MakeCode(ServiceSession, CategoryRateLimit, 0))
	assert.Equal(t, 0, MakeCode(ServiceCommon, CategorySuccess, 0))

	service, category, sequence := ParseCode(203042)
	assert.Equal(t, ServiceAccess, service)
	assert.Equal(t, CategoryPermission, category)
	assert.Equal(t, 42, sequence)
}

func TestCodeClassification(t *testing.T) {
	assert.True(t, IsClientError(ErrPermissionDenied.Code))
	assert.True(t, IsClientError(ErrSessionLimitExceeded.Code))
	assert.False(t, IsClientError(ErrDatabase.Code))
	assert.True(t, IsServerError(ErrDatabase.Code))
	assert.False(t, IsServerError(ErrAuthenticationRequired.Code))
}

func TestAccessErrnoStatuses(t *testing.T) {
	tests := []struct {
		errno    *Errno
		http     int
		grpcCode codes.Code
	}{
		{ErrAuthenticationRequired, http.StatusUnauthorized, codes.Unauthenticated},
		{ErrPermissionDenied, http.StatusForbidden, codes.PermissionDenied},
		{ErrRoleDenied, http.StatusForbidden, codes.PermissionDenied},
		{ErrIPNotAllowed, http.StatusForbidden, codes.PermissionDenied},
		{ErrAccessHours, http.StatusForbidden, codes.PermissionDenied},
		{ErrSessionLimitExceeded, http.StatusTooManyRequests, codes.ResourceExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.errno.MessageEN, func(t *testing.T) {
			assert.Equal(t, tt.http, tt.errno.HTTPStatus())
			assert.Equal(t, tt.grpcCode, tt.errno.GRPCStatus())
		})
	}
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := ErrDatabase.WithCause(cause)

	assert.Equal(t, ErrDatabase.Code, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")

	// the shared value is untouched
	assert.NoError(t, ErrDatabase.Unwrap())
}

func TestWithMessage(t *testing.T) {
	err := ErrInvalidParam.WithMessagef("field %q is required", "username")
	assert.Equal(t, ErrInvalidParam.Code, err.Code)
	assert.Equal(t, `field "username" is required`, err.MessageEN)
	assert.Equal(t, ErrInvalidParam.MessageEN, "Invalid parameter")
}

func TestErrnoIs(t *testing.T) {
	wrapped := ErrPermissionDenied.WithCause(fmt.Errorf("role VIEWER lacks drawing.upload"))
	assert.ErrorIs(t, wrapped, ErrPermissionDenied)
	assert.NotErrorIs(t, wrapped, ErrIPNotAllowed)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrForbidden, FromError(ErrForbidden))

	plain := fmt.Errorf("boom")
	converted := FromError(plain)
	assert.Equal(t, ErrInternal.Code, converted.Code)
	assert.ErrorIs(t, converted, plain)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	e := Register(&Errno{
		Code:      MakeCode(ServiceAPI, CategoryInternal, 999),
		HTTP:      http.StatusInternalServerError,
		GRPCCode:  codes.Internal,
		MessageEN: "registered once",
	})
	require.NotNil(t, e)

	got, ok := Lookup(e.Code)
	require.True(t, ok)
	assert.Same(t, e, got)

	assert.Panics(t, func() {
		Register(&Errno{Code: e.Code, MessageEN: "registered twice"})
	})
}

func TestMessageLanguage(t *testing.T) {
	assert.Equal(t, "权限不足", ErrPermissionDenied.Message("zh"))
	assert.Equal(t, "Insufficient permissions", ErrPermissionDenied.Message("en"))
	assert.Equal(t, "Insufficient permissions", ErrPermissionDenied.Message(""))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrForbidden.Code, GetCode(ErrForbidden))
	assert.Equal(t, -1, GetCode(fmt.Errorf("not an errno")))
	assert.True(t, IsCode(ErrForbidden, ErrForbidden.Code))
	assert.False(t, IsCode(fmt.Errorf("not an errno"), ErrForbidden.Code))
}
