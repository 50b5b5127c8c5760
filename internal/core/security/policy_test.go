package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	appctx "stockyard/internal/core/context"
)

func newPolicy(t *testing.T) *AccessPolicy {
	t.Helper()
	policy, err := NewAccessPolicy()
	require.NoError(t, err)
	require.NoError(t, policy.AddRules(DefaultRules()))
	return policy
}

func actorCtx(roles []string, isAdmin bool) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  "u1",
		Roles:   roles,
		IsAdmin: isAdmin,
	})
}

func TestAllow_DefaultRules(t *testing.T) {
	policy := newPolicy(t)

	tests := []struct {
		name    string
		roles   []string
		isAdmin bool
		action  string
		allowed bool
	}{
		{"manager writes catalogs", []string{"manager"}, false, ActionCatalogWrite, true},
		{"storekeeper cannot write catalogs", []string{"storekeeper"}, false, ActionCatalogWrite, false},
		{"storekeeper creates documents", []string{"storekeeper"}, false, ActionDocumentCreate, true},
		{"manager creates documents", []string{"manager"}, false, ActionDocumentCreate, true},
		{"any role reads stock", []string{"viewer"}, false, ActionStockRead, true},
		{"no roles reads nothing", nil, false, ActionStockRead, false},
		{"storekeeper cannot read logs", []string{"storekeeper"}, false, ActionLogsRead, false},
		{"manager reads reports", []string{"manager"}, false, ActionReportsRead, true},
		{"admin bypasses roles", nil, true, ActionCatalogWrite, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Allow(actorCtx(tt.roles, tt.isAdmin), tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeForbidden, appErr.Code)
			}
		})
	}
}

func TestAllow_NoActorIsUnauthorized(t *testing.T) {
	policy := newPolicy(t)

	err := policy.Allow(context.Background(), ActionStockRead)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestAllow_UnknownActionIsDenied(t *testing.T) {
	policy := newPolicy(t)

	err := policy.Allow(actorCtx([]string{"manager"}, true), "fleet.launch")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestAddRule_RejectsBadExpressions(t *testing.T) {
	policy, err := NewAccessPolicy()
	require.NoError(t, err)

	// Syntax error.
	assert.Error(t, policy.AddRule("x", `roles in`))

	// Non-boolean result.
	assert.Error(t, policy.AddRule("x", `user_id`))

	// Unknown variable.
	assert.Error(t, policy.AddRule("x", `tenant == "acme"`))
}

func TestAddRule_ReplacesExistingRule(t *testing.T) {
	policy, err := NewAccessPolicy()
	require.NoError(t, err)

	require.NoError(t, policy.AddRule("custom.action", `false`))
	assert.Error(t, policy.Allow(actorCtx([]string{"manager"}, false), "custom.action"))

	require.NoError(t, policy.AddRule("custom.action", `"manager" in roles`))
	assert.NoError(t, policy.Allow(actorCtx([]string{"manager"}, false), "custom.action"))
}
