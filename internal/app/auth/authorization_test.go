package auth

import (
	"errors"
	"testing"

	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
)

func TestPolicyCapabilities(t *testing.T) {
	user := &Principal{UserID: 1, Username: "alice", Role: models.RoleUser}
	admin := &Principal{Username: "admin", Role: models.RoleAdmin}

	tests := []struct {
		name      string
		policy    Policy
		principal *Principal
		want      Capabilities
		tracked   bool
	}{
		{"accounts anonymous", AccountsPolicy{}, nil, Capabilities{}, false},
		{"accounts user", AccountsPolicy{}, user, Capabilities{CanView: true, CanManage: true}, false},
		{"accounts admin token", AccountsPolicy{}, admin, Capabilities{}, false},
		{"admin anonymous", NewAdminPolicy("/admin_login"), nil, Capabilities{CanView: true}, true},
		{"admin user token", NewAdminPolicy("/admin_login"), user, Capabilities{CanView: true}, true},
		{"admin admin", NewAdminPolicy("/admin_login"), admin, Capabilities{CanView: true, CanManage: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Capabilities(tt.principal); got != tt.want {
				t.Errorf("Capabilities() = %+v, want %+v", got, tt.want)
			}
			if got := tt.policy.TracksVisitor(tt.principal); got != tt.tracked {
				t.Errorf("TracksVisitor() = %v, want %v", got, tt.tracked)
			}
		})
	}
}

func TestAuthorizationServiceErrors(t *testing.T) {
	svc := NewAuthorizationService(NewAdminPolicy("/secret_login"))

	if err := svc.ValidateView(nil); err != nil {
		t.Errorf("ValidateView(anonymous) = %v, want nil", err)
	}
	if err := svc.ValidateManage(nil); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("ValidateManage(anonymous) = %v, want ErrUnauthenticated", err)
	}

	user := &Principal{UserID: 3, Username: "bob", Role: models.RoleUser}
	if err := svc.ValidateManage(user); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("ValidateManage(user) = %v, want ErrPermissionDenied", err)
	}
	if svc.Policy().LoginPath() != "/secret_login" {
		t.Errorf("LoginPath() = %q", svc.Policy().LoginPath())
	}
}
