// Package authz decides which actor role may call which restock endpoint.
package authz

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v3"
	casbinmodel "github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"

	"github.com/polkiloo/restock/internal/domain/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy grants a role an action on a route pattern.
type Policy struct {
	Role   model.Role
	Object string
	Action string
}

// DefaultPolicies mirrors the ownership of each restock operation.
var DefaultPolicies = []Policy{
	{model.RoleBuyer, "/api/restock/orders", http.MethodGet},
	{model.RoleMerchant, "/api/restock/orders", http.MethodGet},
	{model.RoleBuyer, "/api/restock/orders/:id", http.MethodGet},
	{model.RoleMerchant, "/api/restock/orders/:id", http.MethodGet},
	{model.RoleBuyer, "/api/restock/orders/:id/logistics", http.MethodGet},
	{model.RoleMerchant, "/api/restock/orders/:id/logistics", http.MethodGet},

	{model.RoleMerchant, "/api/restock/orders/:id/acceptance", http.MethodPost},
	{model.RoleMerchant, "/api/restock/orders/:id/decline", http.MethodPost},
	{model.RoleMerchant, "/api/restock/orders/:id/logistics", http.MethodPost},

	{model.RoleBuyer, "/api/restock/orders/:id/review", http.MethodPost},
	{model.RoleBuyer, "/api/restock/orders/:id/cancellation", http.MethodPost},
	{model.RoleBuyer, "/api/restock/orders/:id/arrival", http.MethodPost},

	{model.RoleSystem, "/api/*", "*"},
}

// Enforcer wraps a casbin enforcer loaded with in-code policies.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer holding the given policies.
func NewEnforcer(policies []Policy) (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(string(p.Role), p.Object, strings.ToUpper(p.Action)); err != nil {
			return nil, fmt.Errorf("add policy %s %s %s: %w", p.Role, p.Action, p.Object, err)
		}
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// Allow reports whether the role may perform method on path.
func (e *Enforcer) Allow(role model.Role, path, method string) (bool, error) {
	if e == nil || e.enforcer == nil {
		return false, fmt.Errorf("authz enforcer unavailable")
	}
	return e.enforcer.Enforce(string(role), normalizePath(path), strings.ToUpper(strings.TrimSpace(method)))
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
