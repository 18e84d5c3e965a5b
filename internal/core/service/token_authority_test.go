package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/core/domain"
)

func newTestAuthority(t *testing.T, now time.Time) (*TokenAuthority, *TokenCodec) {
	t.Helper()
	codec := newTestCodec(t, now)
	return NewTokenAuthority(codec, zerolog.Nop()), codec
}

func TestTokenAuthority_Authorize(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	authority, codec := newTestAuthority(t, issued.Add(time.Minute))

	token, err := codec.Issue("hector", domain.RoleAdmin, issued, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := authority.Authorize("Bearer " + token)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if id.Username != "hector" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestTokenAuthority_RejectsBadHeaders(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	authority, codec := newTestAuthority(t, issued.Add(time.Minute))

	token, err := codec.Issue("hector", domain.RoleAdmin, issued, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no token", "Bearer "},
		{"basic scheme", "Basic " + token},
		{"lowercase scheme", "bearer " + token},
		{"no space", "Bearer" + token},
		{"raw token", token},
		{"tampered", "Bearer " + tamperSignature(token)},
		{"garbage", "Bearer abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := authority.Authorize(tt.header); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestTokenAuthority_RejectsExpired(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	authority, codec := newTestAuthority(t, issued.Add(time.Hour))

	token, err := codec.Issue("mario", domain.RoleManager, issued, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := authority.Authorize("Bearer " + token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenAuthority_AuthorizeSubject(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	authority, codec := newTestAuthority(t, issued)

	token, err := codec.Issue("antonia", domain.RoleUser, issued, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := authority.AuthorizeSubject("Bearer "+token, "antonia"); err != nil {
		t.Fatalf("expected subject match, got %v", err)
	}
	if _, err := authority.AuthorizeSubject("Bearer "+token, "irene"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := authority.AuthorizeSubject("", "antonia"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenAuthority_Probe(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	authority, codec := newTestAuthority(t, issued)

	token, err := codec.Issue("rosa", domain.RoleAdmin, issued, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ok := authority.Probe("Bearer " + token)
	if !ok.Valid || ok.Username == nil || *ok.Username != "rosa" || ok.Role == nil || *ok.Role != domain.RoleAdmin {
		t.Fatalf("unexpected probe result: %+v", ok)
	}

	bad := authority.Probe("Bearer " + tamperSignature(token))
	if bad.Valid || bad.Username != nil || bad.Role != nil {
		t.Fatalf("expected invalid probe with empty identity, got %+v", bad)
	}
}
