package authz

import "go.uber.org/fx"

// Module provides the route enforcer.
var Module = fx.Provide(newEnforcer)

func newEnforcer() (*Enforcer, error) {
	return NewEnforcer(DefaultPolicies)
}
