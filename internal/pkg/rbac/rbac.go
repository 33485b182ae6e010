// Package rbac authorizes role/resource/action triples with a casbin enforcer.
package rbac

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/officehr/payroll-backend-go/internal/domain/user"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

type Authorizer interface {
	Enforce(role user.Role, resource user.Resource, action user.Action) (bool, error)
}

type casbinAuthorizer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
}

// NewAuthorizer builds an enforcer loaded with the given (role, resource, action) rows.
func NewAuthorizer(policies [][]string) (Authorizer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	for _, p := range policies {
		if len(p) != 3 {
			return nil, fmt.Errorf("rbac policy must have 3 fields, got %d", len(p))
		}
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("rbac add policy %v: %w", p, err)
		}
	}
	slog.Debug("rbac policies loaded", slog.Int("count", len(policies)))
	return &casbinAuthorizer{enforcer: enforcer}, nil
}

// NewDefaultAuthorizer loads the built-in role matrix.
func NewDefaultAuthorizer() (Authorizer, error) {
	return NewAuthorizer(user.Policies())
}

func (a *casbinAuthorizer) Enforce(role user.Role, resource user.Resource, action user.Action) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enforcer.Enforce(string(role), string(resource), string(action))
}
