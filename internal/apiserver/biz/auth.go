package biz

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/kart-io/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
	"github.com/petrel-io/petrel/pkg/security/auth/jwt"
	"github.com/petrel-io/petrel/pkg/session"
)

// dummyHash is a valid bcrypt hash compared against when the username does
// not exist.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// LoginContext carries the request metadata recorded with each attempt.
type LoginContext struct {
	IP        string
	UserAgent string
}

// AuthService handles login, logout and session management.
type AuthService struct {
	store    store.Factory
	sessions session.Store
	tokens   *jwt.JWT
	tracker  *access.Tracker
}

// NewAuthService creates a new AuthService.
func NewAuthService(factory store.Factory, sessions session.Store, tokens *jwt.JWT, tracker *access.Tracker) *AuthService {
	return &AuthService{
		store:    factory,
		sessions: sessions,
		tokens:   tokens,
		tracker:  tracker,
	}
}

// Login authenticates the user, enforces the concurrent-session ceiling and
// opens a new session backed by a signed token. The token's ID is the
// session token, so deleting the session revokes the token.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest, lc LoginContext) (*model.LoginResponse, error) {
	user, err := s.store.Users().Get(ctx, req.Username)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		// burn a hash compare anyway so missing and wrong-password
		// responses take comparable time
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		s.logAttempt(ctx, "", req.Username, lc, model.LoginFailed, "unknown user")
		return nil, errors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}

	principalID := strconv.FormatUint(user.ID, 10)

	if !user.Enabled() {
		s.logAttempt(ctx, principalID, user.Username, lc, model.LoginFailed, "account disabled")
		return nil, errors.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.logAttempt(ctx, principalID, user.Username, lc, model.LoginFailed, "wrong password")
		return nil, errors.ErrInvalidCredentials
	}

	principal := access.Principal{
		ID:            principalID,
		Username:      user.Username,
		Authenticated: true,
		SuperUser:     user.IsSuperUser,
	}
	ok, err := s.tracker.CheckConcurrency(ctx, principal)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	if !ok {
		s.logAttempt(ctx, principalID, user.Username, lc, model.LoginFailed, "session limit")
		return nil, errors.ErrSessionLimitExceeded
	}

	token, tokenID, err := s.tokens.Sign(ctx, jwt.Identity{
		PrincipalID: principalID,
		Username:    user.Username,
		SuperUser:   user.IsSuperUser,
	})
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}

	now := time.Now()
	if err := s.sessions.Create(ctx, access.Session{
		Token:        tokenID,
		PrincipalID:  principalID,
		IP:           lc.IP,
		UserAgent:    lc.UserAgent,
		LastActivity: now,
		ExpiresAt:    now.Add(s.tokens.Expiry()),
	}); err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}

	s.logAttempt(ctx, principalID, user.Username, lc, model.LoginSucceed, "")
	s.recordLoginIP(ctx, user, lc.IP)

	resp := &model.LoginResponse{
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresIn: token.ExpiresIn,
		UserID:    user.ID,
		Username:  user.Username,
	}
	s.fillRoleInfo(ctx, user.ID, resp)
	return resp, nil
}

// recordLoginIP stores the login IP on the user's profile when it changed.
// Best effort; a failed write never fails the login.
func (s *AuthService) recordLoginIP(ctx context.Context, user *model.User, ip string) {
	if ip == "" {
		return
	}
	if err := s.store.Profiles().UpdateLastLoginIP(ctx, user.ID, ip); err != nil {
		logger.Warnw("record last login ip", "error", err, "username", user.Username)
	}
}

// fillRoleInfo adds the role code and post-login redirect when the user has
// a profile. Best effort; a missing profile leaves the fields empty.
func (s *AuthService) fillRoleInfo(ctx context.Context, userID uint64, resp *model.LoginResponse) {
	profile, err := s.store.Profiles().GetByUserID(ctx, userID)
	if err != nil {
		return
	}
	resp.RoleCode = profile.RoleCode

	role, err := s.store.Roles().Get(ctx, profile.RoleCode)
	if err != nil {
		return
	}
	resp.RedirectURL = role.RedirectURL
}

// Logout deletes the caller's session, revoking the token it backs.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessions.Delete(ctx, sessionToken); err != nil {
		return errors.ErrInternal.WithCause(err)
	}
	return nil
}

// LogoutOthers deletes every session of the principal except the current
// one and returns how many were removed. This is the recovery path when the
// session ceiling is hit.
func (s *AuthService) LogoutOthers(ctx context.Context, principalID, keepToken string) (int, error) {
	n, err := s.sessions.DeleteOthers(ctx, principalID, keepToken)
	if err != nil {
		return 0, errors.ErrInternal.WithCause(err)
	}
	return n, nil
}

// Sessions lists the principal's active sessions, marking the current one.
func (s *AuthService) Sessions(ctx context.Context, principalID, currentToken string) ([]model.SessionInfo, error) {
	active, err := s.sessions.ActiveSessionsFor(ctx, principalID)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	out := make([]model.SessionInfo, 0, len(active))
	for _, sess := range active {
		out = append(out, model.SessionInfo{
			Token:        sess.Token,
			IP:           sess.IP,
			UserAgent:    sess.UserAgent,
			LastActivity: sess.LastActivity.UnixMilli(),
			ExpiresAt:    sess.ExpiresAt.UnixMilli(),
			Current:      sess.Token == currentToken,
		})
	}
	return out, nil
}

func (s *AuthService) logAttempt(ctx context.Context, userID, username string, lc LoginContext, status int, message string) {
	err := s.store.Audit().CreateLoginLog(ctx, &model.LoginLog{
		UserID:    userID,
		Username:  username,
		IP:        lc.IP,
		UserAgent: lc.UserAgent,
		Status:    status,
		Message:   message,
	})
	if err != nil {
		logger.Errorw("write login log", "error", err, "username", username)
	}
}
