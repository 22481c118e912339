package access

import (
	"context"
	"testing"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		challenge string
		want      string
	}{
		{
			// RFC 2202 test case 2
			name:      "rfc2202",
			token:     "Jefe",
			challenge: "what do ya want for nothing?",
			want:      "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79",
		},
		{
			name:      "session challenge",
			token:     "secret",
			challenge: "abc123",
			want:      "8657345ce1d0a7304b31540a34ec4355a86c2b69",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Password(tt.token, tt.challenge); got != tt.want {
				t.Errorf("Password() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPassword_DependsOnChallenge(t *testing.T) {
	a := Password(testAppToken, "challenge-1")
	b := Password(testAppToken, "challenge-2")
	if a == b {
		t.Error("different challenges produced the same password")
	}
	if len(a) != 40 {
		t.Errorf("len(Password()) = %d, want 40 hex chars", len(a))
	}
}

func TestOpenSession_SendsChallengeResponse(t *testing.T) {
	d := newFakeDevice(t)
	d.appToken = "secret"
	d.fixedChallenge = "abc123"

	a, err := New(Config{BaseURL: d.baseURL(), AppID: testAppID, AppToken: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.OpenSession(context.Background()); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}

	got := d.receivedPasswords()
	if len(got) != 1 {
		t.Fatalf("session opens = %d, want 1", len(got))
	}
	if want := "8657345ce1d0a7304b31540a34ec4355a86c2b69"; got[0] != want {
		t.Errorf("password = %s, want %s", got[0], want)
	}
	if hits := d.count("POST login/session/"); hits != 1 {
		t.Errorf("POST login/session/ hits = %d, want 1", hits)
	}
}
