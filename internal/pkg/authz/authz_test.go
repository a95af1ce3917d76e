package authz

import (
	"net/http"
	"testing"

	"github.com/polkiloo/restock/internal/domain/model"
)

func TestDefaultPolicies(t *testing.T) {
	enforcer, err := NewEnforcer(DefaultPolicies)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}

	tests := []struct {
		role   model.Role
		path   string
		method string
		want   bool
	}{
		{model.RoleBuyer, "/api/restock/orders", http.MethodGet, true},
		{model.RoleMerchant, "/api/restock/orders/42/", http.MethodGet, true},
		{model.RoleMerchant, "/api/restock/orders/42/acceptance", http.MethodPost, true},
		{model.RoleMerchant, "/api/restock/orders/42/decline", "post", true},
		{model.RoleMerchant, "/api/restock/orders/42/logistics", http.MethodPost, true},
		{model.RoleMerchant, "/api/restock/orders/42/review", http.MethodPost, false},
		{model.RoleMerchant, "/api/restock/orders/42/arrival", http.MethodPost, false},
		{model.RoleBuyer, "/api/restock/orders/42/review", http.MethodPost, true},
		{model.RoleBuyer, "/api/restock/orders/42/cancellation", http.MethodPost, true},
		{model.RoleBuyer, "/api/restock/orders/42/arrival", http.MethodPost, true},
		{model.RoleBuyer, "/api/restock/orders/42/acceptance", http.MethodPost, false},
		{model.RoleBuyer, "/api/restock/orders/42/logistics", http.MethodPost, false},
		{model.RoleBuyer, "/api/restock/orders/42/logistics", http.MethodGet, true},
		{model.RoleBuyer, "/api/restock/orders", http.MethodDelete, false},
		{model.Role("admin"), "/api/restock/orders", http.MethodGet, false},
		{model.RoleSystem, "/api/restock/orders/42/arrival", http.MethodPost, true},
	}
	for _, tc := range tests {
		got, err := enforcer.Allow(tc.role, tc.path, tc.method)
		if err != nil {
			t.Fatalf("allow %s %s %s: %v", tc.role, tc.method, tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("allow %s %s %s = %v, want %v", tc.role, tc.method, tc.path, got, tc.want)
		}
	}
}

func TestNilEnforcer(t *testing.T) {
	var enforcer *Enforcer
	if _, err := enforcer.Allow(model.RoleBuyer, "/", http.MethodGet); err == nil {
		t.Fatal("expected error from nil enforcer")
	}
}

func TestNewEnforcerProvider(t *testing.T) {
	enforcer, err := newEnforcer()
	if err != nil || enforcer == nil {
		t.Fatalf("expected enforcer, got %v", err)
	}
}
