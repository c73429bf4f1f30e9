package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthFixture(cfg AuthConfig) AuthService {
	verifier := &mockVerifier{verifyFunc: func(ctx context.Context, idToken string) (*port.Identity, error) {
		switch idToken {
		case "expired":
			return nil, errors.New("idtoken: token expired")
		case "no-email":
			return &port.Identity{UID: "u0"}, nil
		}
		return &port.Identity{UID: "uid-" + idToken, Email: idToken + "@Example.com"}, nil
	}}
	employees := &mockEmployees{byEmail: map[string]*entity.Employee{
		"acct@example.com":  {Name: "経理 花子", Department: "経理課", Role: "一般", EmployeeNumber: "010"},
		"boss@example.com":  {Name: "役員 太郎", Department: "役員室", Role: "取締役"},
		"guest@example.com": {Name: "ゲスト", Department: "営業課", Role: "一般"},
		"dev@example.com":   {Name: "開発", Department: "開発課", Role: "一般"},
	}}
	cfg.Secret = testSecret
	return NewAuthService(verifier, employees, cfg, nil)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthFixture(AuthConfig{
		AllowedDepartments: []string{"経理課"},
		AllowedRoles:       []string{"取締役"},
		AllowedEmails:      []string{"DEV@example.com"},
	})

	tests := []struct {
		token   string
		wantErr error
	}{
		{"acct", nil},
		{"boss", nil},
		{"dev", nil},
		{"guest", ErrLoginForbidden},
		{"stranger", ErrEmployeeNotFound},
		{"no-email", ErrEmployeeNotFound},
		{"expired", ErrTokenInvalid},
		{"", ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			session, err := svc.Login(context.Background(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login(%q) error = %v, want %v", tt.token, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login(%q) error = %v", tt.token, err)
			}
			if session.Token == "" || session.User.UID != "uid-"+tt.token {
				t.Errorf("session = %+v", session)
			}
			if session.User.Email != tt.token+"@example.com" {
				t.Errorf("email = %q, want lower-cased", session.User.Email)
			}
		})
	}
}

func TestAuthService_SessionRoundTrip(t *testing.T) {
	svc := newAuthFixture(AuthConfig{AllowedDepartments: []string{"経理課"}})

	session, err := svc.Login(context.Background(), "acct")
	if err != nil {
		t.Fatal(err)
	}
	if got := session.ExpiresAt.Sub(time.Now()); got < DefaultSessionTTL-time.Minute {
		t.Errorf("session ttl = %v", got)
	}

	user, err := svc.ParseSession(session.Token)
	if err != nil {
		t.Fatalf("ParseSession() error = %v", err)
	}
	if user.Name != "経理 花子" || user.Department != "経理課" || user.EmployeeNumber != "010" {
		t.Errorf("user = %+v", user)
	}

	if _, err := svc.ParseSession(session.Token + "x"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("tampered token error = %v", err)
	}
}

func TestAuthService_NoDirectory(t *testing.T) {
	verifier := &mockVerifier{verifyFunc: func(context.Context, string) (*port.Identity, error) {
		return &port.Identity{UID: "u", Email: "a@example.com"}, nil
	}}
	svc := NewAuthService(verifier, nil, AuthConfig{Secret: testSecret}, nil)

	if _, err := svc.Login(context.Background(), "t"); !errors.Is(err, port.ErrStoreUnavailable) {
		t.Errorf("Login() error = %v, want ErrStoreUnavailable", err)
	}
}
