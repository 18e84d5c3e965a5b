package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/userhub/user-api/internal/core/domain"
	"github.com/userhub/user-api/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	expires := time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.LoginResult, error) {
			if username != "antoniaa" || password != "password1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.LoginResult{
				Token:     "token123",
				TokenType: "Bearer",
				ExpiresAt: expires,
				Username:  "antoniaa",
				Email:     "antonia@example.com",
				Role:      domain.RoleAdmin,
				UserID:    "u1",
			}, nil
		},
	}
	h := NewAuthHandler(stub, &stubAuthority{})

	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"antoniaa","password":"password1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Type != "Bearer" || resp.Role != domain.RoleAdmin || resp.UserID != "u1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiresAt %v, got %v", expires, resp.ExpiresAt)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubAuthority{})

	c, _ := newContext(http.MethodPost, "/auth/login", `{}`)
	err := h.Login(c)

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 2 || verrs[0].Field != "username" || verrs[1].Field != "password" {
		t.Fatalf("unexpected errors: %+v", verrs)
	}
	if verrs[0].Message != "Username is required" {
		t.Fatalf("unexpected message: %q", verrs[0].Message)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAuthority{})

	c, _ := newContext(http.MethodPost, "/auth/login", "not-json")
	err := h.Login(c)

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Field != "body" {
		t.Fatalf("expected body validation error, got %v", err)
	}
}

func TestAuthHandler_Login_PropagatesAuthErrors(t *testing.T) {
	for _, want := range []error{domain.ErrBadCredentials, domain.ErrAccountDisabled, domain.ErrAccountLocked} {
		stub := &stubAuthService{
			loginFn: func(context.Context, string, string) (*domain.LoginResult, error) {
				return nil, want
			},
		}
		h := NewAuthHandler(stub, &stubAuthority{})

		c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"antoniaa","password":"nope"}`)
		if err := h.Login(c); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("handler must not write a body on failure, got %q", rec.Body.String())
		}
	}
}

func TestAuthHandler_Validate_MissingHeader(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubAuthority{})

	c, rec := newContext(http.MethodGet, "/auth/validate", "")
	if err := h.Validate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp ports.TokenValidation
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Valid || resp.Username != nil {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Validate_ReportsProbe(t *testing.T) {
	username, role := "hector", domain.RoleUser
	authority := &stubAuthority{probe: ports.TokenValidation{Valid: true, Username: &username, Role: &role}}
	h := NewAuthHandler(&stubAuthService{}, authority)

	c, rec := newContext(http.MethodGet, "/auth/validate", "")
	c.Request().Header.Set("Authorization", "Bearer abc")
	if err := h.Validate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ports.TokenValidation
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Valid || resp.Username == nil || *resp.Username != "hector" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
