package authz

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"result-hub/internal/domain/entities"
)

// DefaultModel is an RBAC model with role inheritance.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy answers which permissions a role holds. It is safe for concurrent
// use.
type Policy struct {
	mu       sync.RWMutex
	enforcer *casbin.Enforcer
}

// NewPolicy builds an enforcer backed by the casbin_policies table. An empty
// modelPath selects DefaultModel.
func NewPolicy(db *sql.DB, modelPath string) (*Policy, error) {
	var (
		m   model.Model
		err error
	)
	if modelPath == "" {
		m, err = model.NewModelFromString(DefaultModel)
	} else {
		m, err = model.NewModelFromFile(modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, NewDatabaseAdapter(db))
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return &Policy{enforcer: e}, nil
}

// Permissions returns the object/action pairs granted to role, including
// those inherited through g rules, sorted for stable output.
func (p *Policy) Permissions(role entities.RoleName) ([]entities.Permission, error) {
	p.mu.RLock()
	rules, err := p.enforcer.GetImplicitPermissionsForUser(string(role))
	p.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	seen := make(map[entities.Permission]struct{}, len(rules))
	out := make([]entities.Permission, 0, len(rules))
	for _, r := range rules {
		if len(r) < 3 {
			continue
		}
		perm := entities.Permission{Object: r[1], Action: r[2]}
		if _, dup := seen[perm]; dup {
			continue
		}
		seen[perm] = struct{}{}
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Object != out[j].Object {
			return out[i].Object < out[j].Object
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

// Allowed reports whether role may perform act on obj.
func (p *Policy) Allowed(role entities.RoleName, obj, act string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enforcer.Enforce(string(role), obj, act)
}

// Grant adds a permission to role. It is a no-op if already present.
func (p *Policy) Grant(role entities.RoleName, obj, act string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.enforcer.AddPolicy(string(role), obj, act)
	return err
}

// Inherit makes child inherit every permission of parent.
func (p *Policy) Inherit(child, parent entities.RoleName) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.enforcer.AddGroupingPolicy(string(child), string(parent))
	return err
}

// Empty reports whether no p rules are loaded.
func (p *Policy) Empty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ast, ok := p.enforcer.GetModel()["p"]["p"]
	return !ok || len(ast.Policy) == 0
}
