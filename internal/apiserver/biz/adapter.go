package biz

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/kart-io/logger"
	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
)

// weekdayNames maps the lowercase names stored in profiles to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayName returns the lowercase storage name for a weekday.
func WeekdayName(d time.Weekday) string {
	for name, wd := range weekdayNames {
		if wd == d {
			return name
		}
	}
	return ""
}

func toAccessRole(r *model.Role) *access.Role {
	return &access.Role{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Patterns:    r.Patterns,
		RedirectURL: r.RedirectURL,
	}
}

func toAccessProfile(p *model.AccessProfile) *access.Profile {
	var hours map[time.Weekday]access.HourWindow
	if len(p.AccessHours) > 0 {
		hours = make(map[time.Weekday]access.HourWindow, len(p.AccessHours))
		for name, r := range p.AccessHours {
			wd, ok := weekdayNames[name]
			if !ok {
				// unknown day names are ignored rather than
				// silently locking the user out
				continue
			}
			hours[wd] = access.HourWindow{Start: r.Start, End: r.End}
		}
	}
	return &access.Profile{
		PrincipalID:           strconv.FormatUint(p.UserID, 10),
		RoleCode:              p.RoleCode,
		PrimaryDomain:         p.PrimaryDomain,
		SecondaryDomains:      p.SecondaryDomains,
		IPAllowlist:           p.IPAllowlist,
		AccessHours:           hours,
		MaxConcurrentSessions: p.MaxConcurrentSessions,
	}
}

// roleAdapter exposes the role table as an access.RoleStore. Disabled roles
// are reported as missing so the engine fails closed on them.
type roleAdapter struct {
	store store.Factory
}

// NewRoleAdapter builds the access.RoleStore view over the store factory.
func NewRoleAdapter(factory store.Factory) access.RoleStore {
	return &roleAdapter{store: factory}
}

func (a *roleAdapter) GetRole(ctx context.Context, code string) (*access.Role, bool, error) {
	role, err := a.store.Roles().Get(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if role.Status != model.RoleStatusEnabled {
		return nil, false, nil
	}
	return toAccessRole(role), true, nil
}

func (a *roleAdapter) CreateRole(ctx context.Context, role *access.Role) error {
	return a.store.Roles().Create(ctx, &model.Role{
		Code:        role.Code,
		Name:        role.Name,
		Description: role.Description,
		Patterns:    model.StringList(role.Patterns),
		RedirectURL: role.RedirectURL,
		Status:      model.RoleStatusEnabled,
	})
}

func (a *roleAdapter) ListRoles(ctx context.Context) ([]*access.Role, error) {
	_, items, err := a.store.Roles().List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*access.Role, 0, len(items))
	for _, r := range items {
		if r.Status != model.RoleStatusEnabled {
			continue
		}
		out = append(out, toAccessRole(r))
	}
	return out, nil
}

// profileAdapter exposes the access_profiles table as an access.ProfileStore.
type profileAdapter struct {
	store store.Factory
}

// NewProfileAdapter builds the access.ProfileStore view over the store
// factory.
func NewProfileAdapter(factory store.Factory) access.ProfileStore {
	return &profileAdapter{store: factory}
}

func (a *profileAdapter) GetProfile(ctx context.Context, principalID string) (*access.Profile, bool, error) {
	userID, err := strconv.ParseUint(principalID, 10, 64)
	if err != nil {
		return nil, false, nil
	}
	profile, err := a.store.Profiles().GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return toAccessProfile(profile), true, nil
}

// auditSink persists gate decisions off the request path. Records are
// handed to a buffered channel; a full channel drops the record with a log
// line rather than stalling request handling.
type auditSink struct {
	records chan access.Decision
	done    chan struct{}
}

// NewAuditSink starts the background decision writer.
func NewAuditSink(factory store.Factory) *auditSink {
	s := &auditSink{
		records: make(chan access.Decision, 256),
		done:    make(chan struct{}),
	}
	go s.run(factory)
	return s
}

// Record implements access.AuditLogger.
func (s *auditSink) Record(_ context.Context, d access.Decision) {
	select {
	case s.records <- d:
	default:
		logger.Warnw("audit sink full, dropping decision",
			"principal_id", d.PrincipalID, "allowed", d.Allowed)
	}
}

// Close stops the writer after draining queued records.
func (s *auditSink) Close() {
	close(s.records)
	<-s.done
}

func (s *auditSink) run(factory store.Factory) {
	defer close(s.done)
	for d := range s.records {
		rec := &model.AccessDecision{
			UserID:      d.PrincipalID,
			Username:    d.Username,
			Permissions: model.StringList(d.Permissions),
			Roles:       model.StringList(d.Roles),
			Domain:      d.Domain,
			Allowed:     d.Allowed,
			Reason:      string(d.Reason),
			IP:          d.IP,
			DecidedAt:   d.At.UnixMilli(),
		}
		if err := factory.Audit().CreateDecision(context.Background(), rec); err != nil {
			logger.Errorw("write access decision", "error", err)
		}
	}
}

var _ access.AuditLogger = (*auditSink)(nil)
