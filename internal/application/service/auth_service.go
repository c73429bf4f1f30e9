package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/pkg/utils"
)

// DefaultSessionTTL is the lifetime of a session cookie.
const DefaultSessionTTL = 7 * 24 * time.Hour

// AuthConfig holds session signing and the login allow-list.
type AuthConfig struct {
	Secret             string
	SessionTTL         time.Duration
	AllowedDepartments []string
	AllowedRoles       []string
	AllowedEmails      []string
}

// Session is an issued session token.
type Session struct {
	Token     string
	User      *entity.SessionUser
	ExpiresAt time.Time
}

// AuthService turns identity tokens into portal sessions.
type AuthService interface {
	Login(ctx context.Context, idToken string) (*Session, error)
	ParseSession(token string) (*entity.SessionUser, error)
	SessionTTL() time.Duration
}

type authServiceImpl struct {
	verifier  port.IdentityVerifier
	employees port.EmployeeRepository
	cfg       AuthConfig
	now       func() time.Time
	logger    Logger
}

// NewAuthService creates a new AuthService. A nil employees repository
// rejects every login with port.ErrStoreUnavailable.
func NewAuthService(verifier port.IdentityVerifier, employees port.EmployeeRepository, cfg AuthConfig, logger Logger) AuthService {
	if logger == nil {
		logger = nopLogger{}
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	emails := make([]string, len(cfg.AllowedEmails))
	for i, e := range cfg.AllowedEmails {
		emails[i] = strings.ToLower(strings.TrimSpace(e))
	}
	cfg.AllowedEmails = emails
	return &authServiceImpl{
		verifier:  verifier,
		employees: employees,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *authServiceImpl) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Login verifies idToken, looks the employee up and checks the allow-list.
func (s *authServiceImpl) Login(ctx context.Context, idToken string) (*Session, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: idToken is required", ErrInvalidRequest)
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: Email not in token", ErrEmployeeNotFound)
	}

	if s.employees == nil {
		return nil, fmt.Errorf("%w: employee directory is not configured", port.ErrStoreUnavailable)
	}
	employee, err := s.employees.FindByGoogleEmail(ctx, email)
	if errors.Is(err, port.ErrNotFound) {
		s.logger.Info("Login from unregistered address", "email", email)
		return nil, fmt.Errorf("%w: 登録外のGmailからのログインはできません", ErrEmployeeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	if !s.allowed(employee, email) {
		s.logger.Info("Login denied by allow-list", "email", email, "department", employee.Department, "role", employee.Role)
		return nil, fmt.Errorf("%w: 権限がないためログインできません", ErrLoginForbidden)
	}

	user := &entity.SessionUser{
		UID:            identity.UID,
		Email:          email,
		Name:           employee.Name,
		CompanyEmail:   employee.CompanyEmail,
		EmployeeNumber: employee.EmployeeNumber,
		Department:     employee.Department,
		Role:           employee.Role,
	}

	now := s.now()
	token, err := utils.GenerateSessionToken(utils.SessionClaims{
		UID:            user.UID,
		Email:          user.Email,
		Name:           user.Name,
		CompanyEmail:   user.CompanyEmail,
		EmployeeNumber: user.EmployeeNumber,
		Department:     user.Department,
		Role:           user.Role,
	}, s.cfg.Secret, s.cfg.SessionTTL, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	s.logger.Info("Login succeeded", "uid", user.UID, "email", email)
	return &Session{Token: token, User: user, ExpiresAt: now.Add(s.cfg.SessionTTL)}, nil
}

// ParseSession validates a session token.
func (s *authServiceImpl) ParseSession(token string) (*entity.SessionUser, error) {
	claims, err := utils.ParseSessionToken(token, s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return &entity.SessionUser{
		UID:            claims.UID,
		Email:          claims.Email,
		Name:           claims.Name,
		CompanyEmail:   claims.CompanyEmail,
		EmployeeNumber: claims.EmployeeNumber,
		Department:     claims.Department,
		Role:           claims.Role,
	}, nil
}

// allowed checks department, then role, then address.
func (s *authServiceImpl) allowed(e *entity.Employee, email string) bool {
	if contains(s.cfg.AllowedDepartments, strings.TrimSpace(e.Department)) {
		return true
	}
	if contains(s.cfg.AllowedRoles, strings.TrimSpace(e.Role)) {
		return true
	}
	return contains(s.cfg.AllowedEmails, email)
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
