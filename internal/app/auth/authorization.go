package auth

import (
	"fmt"

	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
)

// Principal is the requester identified by the session cookie
type Principal struct {
	UserID   int64
	Username string
	Role     models.Role
}

// IsAdmin reports whether the principal holds the admin role
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// Capabilities describe what a requester may do with question papers
type Capabilities struct {
	CanView   bool
	CanManage bool
}

// Policy decides capabilities for the configured access-control scheme
type Policy interface {
	// Scheme returns the configuration name of the scheme
	Scheme() string
	// Capabilities returns what the principal (nil when anonymous) may do
	Capabilities(p *Principal) Capabilities
	// LoginPath is where unauthenticated requesters are sent
	LoginPath() string
	// TracksVisitor reports whether a listing view by p is counted
	TracksVisitor(p *Principal) bool
}

// AccountsPolicy gates everything behind a self-registered account session
type AccountsPolicy struct{}

// Scheme implements Policy
func (AccountsPolicy) Scheme() string { return config.SchemeAccounts }

// Capabilities implements Policy
func (AccountsPolicy) Capabilities(p *Principal) Capabilities {
	if p == nil || p.Role != models.RoleUser {
		return Capabilities{}
	}
	return Capabilities{CanView: true, CanManage: true}
}

// LoginPath implements Policy
func (AccountsPolicy) LoginPath() string { return "/login" }

// TracksVisitor implements Policy
func (AccountsPolicy) TracksVisitor(*Principal) bool { return false }

// AdminPolicy opens a read-only listing to everyone and reserves management for the admin
type AdminPolicy struct {
	loginPath string
}

// NewAdminPolicy creates an AdminPolicy with the given login path
func NewAdminPolicy(loginPath string) AdminPolicy {
	return AdminPolicy{loginPath: loginPath}
}

// Scheme implements Policy
func (AdminPolicy) Scheme() string { return config.SchemeAdmin }

// Capabilities implements Policy
func (AdminPolicy) Capabilities(p *Principal) Capabilities {
	if p.IsAdmin() {
		return Capabilities{CanView: true, CanManage: true}
	}
	return Capabilities{CanView: true}
}

// LoginPath implements Policy
func (a AdminPolicy) LoginPath() string { return a.loginPath }

// TracksVisitor implements Policy
func (AdminPolicy) TracksVisitor(p *Principal) bool { return !p.IsAdmin() }

// NewPolicy returns the policy selected by configuration
func NewPolicy(cfg *config.Config) (Policy, error) {
	switch cfg.Auth.Scheme {
	case config.SchemeAccounts:
		return AccountsPolicy{}, nil
	case config.SchemeAdmin:
		return NewAdminPolicy(cfg.Auth.AdminLoginPath), nil
	default:
		return nil, fmt.Errorf("unsupported auth scheme %q", cfg.Auth.Scheme)
	}
}

// AuthorizationService checks capabilities against the active policy
type AuthorizationService struct {
	policy Policy
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(policy Policy) *AuthorizationService {
	return &AuthorizationService{policy: policy}
}

// Policy returns the active policy
func (s *AuthorizationService) Policy() Policy {
	return s.policy
}

// ValidateView returns an error unless p may browse and download
func (s *AuthorizationService) ValidateView(p *Principal) error {
	if s.policy.Capabilities(p).CanView {
		return nil
	}
	return deny(p)
}

// ValidateManage returns an error unless p may add, update and delete
func (s *AuthorizationService) ValidateManage(p *Principal) error {
	if s.policy.Capabilities(p).CanManage {
		return nil
	}
	return deny(p)
}

func deny(p *Principal) error {
	if p == nil {
		return apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Please log in to access this page.")
	}
	return apperrors.NewCustomError(apperrors.ErrPermissionDenied, "You do not have permission to access this page.")
}
