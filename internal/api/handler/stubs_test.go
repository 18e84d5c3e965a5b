package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

// stubAuthority treats every header as carrying identity; a nil identity
// rejects all headers.
type stubAuthority struct {
	identity  *domain.Identity
	subjectFn func(rawHeader, subject string) (domain.Identity, error)
	probe     ports.TokenValidation
}

func (s *stubAuthority) Authorize(string) (domain.Identity, error) {
	if s.identity == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return *s.identity, nil
}

func (s *stubAuthority) AuthorizeSubject(rawHeader, subject string) (domain.Identity, error) {
	return s.subjectFn(rawHeader, subject)
}

func (s *stubAuthority) Probe(string) ports.TokenValidation {
	return s.probe
}

// stubUserService fails any call whose function is not set.
type stubUserService struct {
	listFn          func(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	createFn        func(ctx context.Context, patch ports.UserPatch) (*domain.User, error)
	updateSelfFn    func(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error)
	updateByAdminFn func(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error)
	deleteFn        func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubUserService) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return nil, domain.UserNotFound("username", username)
}

func (s *stubUserService) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return nil, domain.UserNotFound("email", email)
}

func (s *stubUserService) Create(ctx context.Context, patch ports.UserPatch) (*domain.User, error) {
	return s.createFn(ctx, patch)
}

func (s *stubUserService) UpdateSelf(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	return s.updateSelfFn(ctx, id, patch)
}

func (s *stubUserService) UpdateByAdmin(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	return s.updateByAdminFn(ctx, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	return s.deleteFn(ctx, id)
}

type stubRoleService struct {
	listFn   func(ctx context.Context) ([]*domain.Role, error)
	createFn func(ctx context.Context, patch ports.RolePatch) (*domain.Role, error)
	updateFn func(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error)
	deleteFn func(ctx context.Context, id string) (*domain.Role, error)
}

func (s *stubRoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.listFn(ctx)
}

func (s *stubRoleService) GetByID(_ context.Context, id string) (*domain.Role, error) {
	return nil, domain.RoleNotFound("id", id)
}

func (s *stubRoleService) GetByName(_ context.Context, name string) (*domain.Role, error) {
	return &domain.Role{ID: "r-" + strings.ToLower(name), Name: name}, nil
}

func (s *stubRoleService) Create(ctx context.Context, patch ports.RolePatch) (*domain.Role, error) {
	return s.createFn(ctx, patch)
}

func (s *stubRoleService) Update(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubRoleService) Delete(ctx context.Context, id string) (*domain.Role, error) {
	return s.deleteFn(ctx, id)
}

// newContext builds an echo.Context with the package validator registered.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}
