package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
	"github.com/userhub/user-api/internal/pkg/metrics"
)

// observer carries the logging, timing and audit plumbing shared by the
// service decorators below.
type observer struct {
	log  zerolog.Logger
	sink ports.AuditSink
	now  func() time.Time
}

func newObserver(sink ports.AuditSink, log zerolog.Logger) observer {
	if sink == nil {
		sink = discardSink{}
	}
	return observer{log: log, sink: sink, now: time.Now}
}

type discardSink struct{}

func (discardSink) Record(domain.AuditEvent) {}

// finish logs the outcome of method and records its duration.
func (o observer) finish(method string, start time.Time, err error) {
	elapsed := o.now().Sub(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ServiceCallDuration.WithLabelValues(method, outcome).Observe(elapsed.Seconds())

	switch {
	case err == nil:
		o.log.Debug().Str("method", method).Dur("duration", elapsed).Msg("call completed")
	case isExpected(err):
		o.log.Info().Err(err).Str("method", method).Dur("duration", elapsed).Msg("call rejected")
	default:
		o.log.Error().Err(err).Str("method", method).Dur("duration", elapsed).Msg("call failed")
	}
}

func (o observer) audit(ctx context.Context, action domain.AuditAction, targetID, targetName string, err error) {
	actor, role := domain.SystemActor, ""
	if id, ok := domain.IdentityFrom(ctx); ok {
		actor, role = id.Username, id.Role
	}
	o.record(action, actor, role, targetID, targetName, err)
}

func (o observer) record(action domain.AuditAction, actor, actorRole, targetID, targetName string, err error) {
	event := domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Actor:      actor,
		ActorRole:  actorRole,
		TargetID:   targetID,
		TargetName: targetName,
		Outcome:    domain.OutcomeSuccess,
		Timestamp:  o.now().UTC(),
	}
	if err != nil {
		event.Outcome = domain.OutcomeFailure
		event.Error = err.Error()
	}
	o.sink.Record(event)
}

// isExpected reports errors caused by the caller rather than the system.
func isExpected(err error) bool {
	var verrs domain.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrRoleInUse) ||
		errors.Is(err, domain.ErrBadCredentials) ||
		errors.Is(err, domain.ErrAccountDisabled) ||
		errors.Is(err, domain.ErrAccountLocked)
}

// LoginFailureReason maps an authentication error to its audit/log reason.
func LoginFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrAccountDisabled):
		return "ACCOUNT_DISABLED"
	case errors.Is(err, domain.ErrAccountLocked):
		return "ACCOUNT_LOCKED"
	default:
		return "AUTHENTICATION_ERROR"
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

type observedAuthService struct {
	next ports.AuthService
	observer
}

// NewObservedAuthService wraps next with logging, metrics and login auditing.
func NewObservedAuthService(next ports.AuthService, sink ports.AuditSink, log zerolog.Logger) ports.AuthService {
	return &observedAuthService{next: next, observer: newObserver(sink, log)}
}

func (s *observedAuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	start := s.now()
	res, err := s.next.Login(ctx, username, password)
	s.finish("auth.Login", start, err)

	if err != nil {
		reason := LoginFailureReason(err)
		metrics.LoginsTotal.WithLabelValues(reason).Inc()
		s.log.Warn().Str("username", username).Str("reason", reason).Msg("login failed")
		s.record(domain.AuditLoginFailed, username, "", "", username, errors.New(reason))
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("SUCCESS").Inc()
	s.log.Info().Str("username", res.Username).Str("role", res.Role).Msg("login succeeded")
	s.record(domain.AuditLoginSuccess, res.Username, res.Role, res.UserID, res.Username, nil)
	return res, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type observedUserService struct {
	next ports.UserService
	observer
}

// NewObservedUserService wraps next with logging, metrics and mutation auditing.
func NewObservedUserService(next ports.UserService, sink ports.AuditSink, log zerolog.Logger) ports.UserService {
	return &observedUserService{next: next, observer: newObserver(sink, log)}
}

func (s *observedUserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	start := s.now()
	users, err := s.next.List(ctx, filter)
	s.finish("users.List", start, err)
	return users, err
}

func (s *observedUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	start := s.now()
	u, err := s.next.GetByID(ctx, id)
	s.finish("users.GetByID", start, err)
	return u, err
}

func (s *observedUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	start := s.now()
	u, err := s.next.GetByUsername(ctx, username)
	s.finish("users.GetByUsername", start, err)
	return u, err
}

func (s *observedUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := s.now()
	u, err := s.next.GetByEmail(ctx, email)
	s.finish("users.GetByEmail", start, err)
	return u, err
}

func (s *observedUserService) Create(ctx context.Context, patch ports.UserPatch) (*domain.User, error) {
	start := s.now()
	u, err := s.next.Create(ctx, patch)
	s.finish("users.Create", start, err)
	id, name := userTarget(u, "", patch.Username)
	s.audit(ctx, domain.AuditUserCreated, id, name, err)
	return u, err
}

func (s *observedUserService) UpdateSelf(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	start := s.now()
	u, err := s.next.UpdateSelf(ctx, id, patch)
	s.finish("users.UpdateSelf", start, err)
	tid, name := userTarget(u, id, patch.Username)
	s.audit(ctx, domain.AuditUserSelfUpdated, tid, name, err)
	return u, err
}

func (s *observedUserService) UpdateByAdmin(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	start := s.now()
	u, err := s.next.UpdateByAdmin(ctx, id, patch)
	s.finish("users.UpdateByAdmin", start, err)
	tid, name := userTarget(u, id, patch.Username)
	s.audit(ctx, domain.AuditUserUpdated, tid, name, err)
	return u, err
}

func (s *observedUserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	start := s.now()
	u, err := s.next.Delete(ctx, id)
	s.finish("users.Delete", start, err)
	tid, name := userTarget(u, id, "")
	s.audit(ctx, domain.AuditUserDeleted, tid, name, err)
	return u, err
}

func userTarget(u *domain.User, id, name string) (string, string) {
	if u != nil {
		return u.ID, u.Username
	}
	return id, name
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

type observedRoleService struct {
	next ports.RoleService
	observer
}

// NewObservedRoleService wraps next with logging, metrics and mutation auditing.
func NewObservedRoleService(next ports.RoleService, sink ports.AuditSink, log zerolog.Logger) ports.RoleService {
	return &observedRoleService{next: next, observer: newObserver(sink, log)}
}

func (s *observedRoleService) List(ctx context.Context) ([]*domain.Role, error) {
	start := s.now()
	roles, err := s.next.List(ctx)
	s.finish("roles.List", start, err)
	return roles, err
}

func (s *observedRoleService) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	start := s.now()
	r, err := s.next.GetByID(ctx, id)
	s.finish("roles.GetByID", start, err)
	return r, err
}

func (s *observedRoleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	start := s.now()
	r, err := s.next.GetByName(ctx, name)
	s.finish("roles.GetByName", start, err)
	return r, err
}

func (s *observedRoleService) Create(ctx context.Context, patch ports.RolePatch) (*domain.Role, error) {
	start := s.now()
	r, err := s.next.Create(ctx, patch)
	s.finish("roles.Create", start, err)
	id, name := roleTarget(r, "", patch.Name)
	s.audit(ctx, domain.AuditRoleCreated, id, name, err)
	return r, err
}

func (s *observedRoleService) Update(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	start := s.now()
	r, err := s.next.Update(ctx, id, patch)
	s.finish("roles.Update", start, err)
	tid, name := roleTarget(r, id, patch.Name)
	s.audit(ctx, domain.AuditRoleUpdated, tid, name, err)
	return r, err
}

func (s *observedRoleService) Delete(ctx context.Context, id string) (*domain.Role, error) {
	start := s.now()
	r, err := s.next.Delete(ctx, id)
	s.finish("roles.Delete", start, err)
	tid, name := roleTarget(r, id, "")
	s.audit(ctx, domain.AuditRoleDeleted, tid, name, err)
	return r, err
}

func roleTarget(r *domain.Role, id, name string) (string, string) {
	if r != nil {
		return r.ID, r.Name
	}
	return id, name
}
