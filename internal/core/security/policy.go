// Package security provides the CEL-based access policy used by the
// HTTP layer for per-action authorization.
package security

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
)

// AccessPolicy maps named actions to access rules compiled as CEL
// expressions. Rules are evaluated against the request actor:
//
//	user_id  string
//	roles    list(string)
//	is_admin bool
//
// Example rule: `is_admin || "storekeeper" in roles`.
//
// The policy is injected into the HTTP layer; domain services never
// consult it directly.
type AccessPolicy struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewAccessPolicy creates an empty policy with the actor environment declared.
func NewAccessPolicy() (*AccessPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("user_id", cel.StringType),
		cel.Variable("roles", cel.ListType(cel.StringType)),
		cel.Variable("is_admin", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}
	return &AccessPolicy{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// AddRule compiles expr and registers it for action.
// Replaces any existing rule for the same action.
func (p *AccessPolicy) AddRule(action, expr string) error {
	ast, iss := p.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("compile rule for %q: %w", action, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("rule for %q must evaluate to bool, got %s", action, ast.OutputType())
	}
	prg, err := p.env.Program(ast)
	if err != nil {
		return fmt.Errorf("build program for %q: %w", action, err)
	}

	p.mu.Lock()
	p.programs[action] = prg
	p.mu.Unlock()
	return nil
}

// AddRules registers a set of action rules, failing on the first bad expression.
func (p *AccessPolicy) AddRules(rules map[string]string) error {
	for action, expr := range rules {
		if err := p.AddRule(action, expr); err != nil {
			return err
		}
	}
	return nil
}

// Allow checks whether the actor in ctx may perform action.
// Unknown actions are denied. Returns apperror.Forbidden on denial,
// apperror.Unauthorized when no actor is present.
func (p *AccessPolicy) Allow(ctx context.Context, action string) error {
	user := appctx.GetUser(ctx)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}

	p.mu.RLock()
	prg, ok := p.programs[action]
	p.mu.RUnlock()
	if !ok {
		return apperror.NewForbidden(fmt.Sprintf("action %q is not permitted", action))
	}

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	out, _, err := prg.Eval(map[string]any{
		"user_id":  user.UserID,
		"roles":    roles,
		"is_admin": user.IsAdmin,
	})
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("evaluate rule for %q: %w", action, err))
	}
	allowed, ok := out.Value().(bool)
	if !ok || !allowed {
		return apperror.NewForbidden(fmt.Sprintf("action %q is not permitted", action))
	}
	return nil
}

// Action names used by the HTTP layer.
const (
	ActionCatalogRead    = "catalogs.read"
	ActionCatalogWrite   = "catalogs.write"
	ActionDocumentRead   = "documents.read"
	ActionDocumentCreate = "documents.create"
	ActionStockRead      = "stock.read"
	ActionLogsRead       = "logs.read"
	ActionReportsRead    = "reports.read"
)

// DefaultRules returns the standard role model: managers run documents and
// master data, storekeepers record movements and read stock, everyone
// authenticated may read.
func DefaultRules() map[string]string {
	return map[string]string{
		ActionCatalogRead:    `is_admin || size(roles) > 0`,
		ActionCatalogWrite:   `is_admin || "manager" in roles`,
		ActionDocumentRead:   `is_admin || size(roles) > 0`,
		ActionDocumentCreate: `is_admin || "manager" in roles || "storekeeper" in roles`,
		ActionStockRead:      `is_admin || size(roles) > 0`,
		ActionLogsRead:       `is_admin || "manager" in roles`,
		ActionReportsRead:    `is_admin || "manager" in roles`,
	}
}
