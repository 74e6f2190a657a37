package httpapi

import (
	"context"
	"testing"
	"time"

	"bodegabaratote/backend/internal/domain"
	"bodegabaratote/backend/internal/ledger"
	"bodegabaratote/backend/internal/snapshot"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(context.Background(), snapshot.NewMemory(), ledger.SeedPasswords{})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

func TestAuthManagerUpgradesSeedPlainPasswords(t *testing.T) {
	book := newTestLedger(t)

	cred, ok := book.Credential("admin")
	if !ok || cred.Password != "admin123" {
		t.Fatalf("expected plain seed password before bootstrap, got %+v", cred)
	}

	manager := NewAuthManager("test-secret-key", time.Hour, book)

	cred, _ = book.Credential("admin")
	if !isPasswordHash(cred.Password) {
		t.Fatalf("expected bootstrap to hash the stored password, got %q", cred.Password)
	}

	// The original password still logs in through the hash.
	resp, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Role != domain.RoleAdmin || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	manager := NewAuthManager("test-secret-key", time.Hour, newTestLedger(t))

	if _, err := manager.Login(domain.LoginRequest{Username: "admin", Password: "nope"}); err == nil {
		t.Fatalf("expected login failure")
	}
	if _, err := manager.Login(domain.LoginRequest{Username: "ghost", Password: "admin123"}); err == nil {
		t.Fatalf("expected unknown user to fail")
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	manager := NewAuthManager("test-secret-key", time.Hour, newTestLedger(t))

	resp, err := manager.Login(domain.LoginRequest{Username: "pedro", Password: "almacen123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "pedro" || actor.Role != domain.RoleStockist || actor.Nombre != "Pedro" {
		t.Fatalf("actor = %+v", actor)
	}

	other := NewAuthManager("another-secret-entirely", time.Hour, newTestLedger(t))
	if _, err := other.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("token signed with a different secret must not parse")
	}
}
