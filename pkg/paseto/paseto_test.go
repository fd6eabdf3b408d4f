package pasetotoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

func newTestManager(t *testing.T, keys Keys) *Manager {
	t.Helper()
	m, err := New(Config{Mode: keys.Mode, Issuer: "clinicdesk", Audience: "dashboard", TTL: time.Hour}, keys)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		keys Keys
	}{
		{"local", NewLocalKeys()},
		{"public", NewPublicKeys()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestManager(t, tc.keys)
			staff, sid := uuid.New(), uuid.New()

			tok, err := m.Issue(staff, sid, time.Now().Add(time.Hour))
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			claims, err := m.Verify(tok)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if claims.StaffID != staff || claims.SessionID != sid {
				t.Errorf("claims = %+v, want staff %s session %s", claims, staff, sid)
			}
			if claims.IsExpired() {
				t.Error("fresh token reported expired")
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestManager(t, NewLocalKeys())
	other := newTestManager(t, NewLocalKeys())

	expired, _ := m.Issue(uuid.New(), uuid.New(), time.Now().Add(-time.Minute))
	foreign, _ := other.Issue(uuid.New(), uuid.New(), time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong key", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewValidatesConfig(t *testing.T) {
	keys := NewLocalKeys()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"mode mismatch", Config{Mode: ModePublic, Issuer: "a", Audience: "b"}},
		{"missing issuer", Config{Mode: ModeLocal, Audience: "b"}},
		{"missing audience", Config{Mode: ModeLocal, Issuer: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, keys); !errors.Is(err, ErrConfig) {
				t.Errorf("New() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestKeysFromConfig(t *testing.T) {
	local := NewLocalKeys()
	public := NewPublicKeys()

	tests := []struct {
		name     string
		cfg      config.PasetoConfig
		wantErr  bool
		wantMode Mode
	}{
		{"local without key", config.PasetoConfig{Mode: "local"}, true, ""},
		{"unknown mode", config.PasetoConfig{Mode: "bogus"}, true, ""},
		{"bad hex", config.PasetoConfig{Mode: "local", LocalKeyHex: "zz"}, true, ""},
		{"public without keys", config.PasetoConfig{Mode: "public"}, true, ""},
		{"local", config.PasetoConfig{Mode: "local", LocalKeyHex: local.Symmetric.ExportHex()}, false, ModeLocal},
		{"public verify only", config.PasetoConfig{Mode: "public", PublicKeyHex: public.Public.ExportHex()}, false, ModePublic},
		{"public signer", config.PasetoConfig{Mode: "public", SecretKeyHex: public.Secret.ExportHex()}, false, ModePublic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := KeysFromConfig(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrConfig) {
					t.Fatalf("err = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeysFromConfig: %v", err)
			}
			if keys.Mode != tt.wantMode || keys.Public == nil && keys.Symmetric == nil {
				t.Errorf("keys = %+v", keys)
			}
		})
	}
}

func TestVerifyOnlyManagerCannotIssue(t *testing.T) {
	signer := NewPublicKeys()
	verifier := Keys{Mode: ModePublic, Public: signer.Public}

	tok, err := newTestManager(t, signer).Issue(uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	m := newTestManager(t, verifier)
	if _, err := m.Verify(tok); err != nil {
		t.Errorf("verify-only Verify: %v", err)
	}
	if _, err := m.Issue(uuid.New(), uuid.New(), time.Now().Add(time.Hour)); !errors.Is(err, ErrConfig) {
		t.Errorf("verify-only Issue error = %v, want ErrConfig", err)
	}
}
