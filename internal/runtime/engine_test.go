package runtime_test

import (
	"errors"
	"testing"

	"github.com/aretw0/modulink/internal/runtime"
	"github.com/aretw0/modulink/pkg/domain"
	"github.com/aretw0/modulink/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_AddLink_Validation(t *testing.T) {
	e := runtime.NewEngine()

	require.NoError(t, e.AddLink(passthrough("a")))

	err := e.AddLink(passthrough("a"))
	assert.ErrorIs(t, err, domain.ErrDuplicateLink)
	var structural *domain.StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, "add_link", structural.Op)
	assert.Equal(t, "a", structural.Subject)

	assert.ErrorIs(t, e.AddLink(nil), domain.ErrInvalidArgument)
	assert.ErrorIs(t, e.AddLink(passthrough("")), domain.ErrInvalidArgument)

	assert.Equal(t, []string{"a"}, e.Inspect().Links)
}

func TestEngine_Connect_Validation(t *testing.T) {
	e := newEngine(t, "a", "b")

	assert.ErrorIs(t, e.Connect("a", "missing", domain.Always(), ""), domain.ErrUnknownLink)
	assert.ErrorIs(t, e.Connect("missing", "b", domain.Always(), ""), domain.ErrUnknownLink)
	assert.ErrorIs(t, e.Connect("a", "b", nil, ""), domain.ErrInvalidArgument)

	assert.Empty(t, e.Inspect().Connections, "failed connects must not leave partial state")
}

func TestEngine_Use_Validation(t *testing.T) {
	e := newEngine(t, "a", "b")

	assert.ErrorIs(t, e.Use(nil), domain.ErrInvalidArgument)

	err := e.Use(middleware.Timing(), "a", "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownLink)
	assert.Empty(t, e.Inspect().Middleware, "a rejected Use must not attach to the valid links either")
}

func TestEngine_Inspect_ReflectsEveryMutation(t *testing.T) {
	e := runtime.NewEngine(runtime.WithName("signup"))

	snap := e.Inspect()
	assert.Equal(t, "signup", snap.Name)
	assert.Empty(t, snap.Links)

	require.NoError(t, e.AddLink(passthrough("validate_email")))
	assert.Equal(t, []string{"validate_email"}, e.Inspect().Links)

	require.NoError(t, e.AddLink(passthrough("send_welcome")))
	require.NoError(t, e.AddLink(passthrough("error_handler")))
	assert.Equal(t, []string{"validate_email", "send_welcome", "error_handler"}, e.Inspect().Links)

	require.NoError(t, e.Connect("validate_email", "error_handler", domain.HasErrors(), "invalid"))
	require.NoError(t, e.Connect("validate_email", "send_welcome", domain.Always(), ""))
	assert.Equal(t, []domain.ConnectionInfo{
		{From: "validate_email", To: "error_handler", Label: "invalid", Index: 0},
		{From: "validate_email", To: "send_welcome", Index: 1},
	}, e.Inspect().Connections)

	require.NoError(t, e.Use(middleware.Funcs{Label: "audit"}))
	require.NoError(t, e.Use(middleware.Timing()))
	require.NoError(t, e.Use(middleware.Funcs{Label: "smtp"}, "send_welcome"))

	snap = e.Inspect()
	assert.Equal(t, []domain.MiddlewareInfo{
		{Name: "audit", Placement: domain.Placement{Scope: domain.ScopeChain, Position: domain.PositionChainBefore, Index: 0}},
		{Name: "timing", Placement: domain.Placement{Scope: domain.ScopeChain, Position: domain.PositionChainBefore, Index: 1}},
		{Name: "smtp", Placement: domain.Placement{Scope: domain.ScopeLink, Link: "send_welcome", Position: domain.PositionLinkBefore, Index: 0}},
		{Name: "smtp", Placement: domain.Placement{Scope: domain.ScopeLink, Link: "send_welcome", Position: domain.PositionLinkAfter, Index: 0}},
		{Name: "audit", Placement: domain.Placement{Scope: domain.ScopeChain, Position: domain.PositionChainAfter, Index: 0}},
		{Name: "timing", Placement: domain.Placement{Scope: domain.ScopeChain, Position: domain.PositionChainAfter, Index: 1}},
	}, snap.Middleware)
	assert.Len(t, snap.MiddlewareAt(domain.PositionChainAfter), 2)
}

type anonymousMiddleware struct{ middleware.Funcs }

func (anonymousMiddleware) Name() string { return "" }

func TestEngine_Inspect_UnnamedMiddleware(t *testing.T) {
	e := newEngine(t, "a")
	require.NoError(t, e.Use(anonymousMiddleware{}))

	snap := e.Inspect()
	require.NotEmpty(t, snap.Middleware)
	assert.Equal(t, "runtime_test.anonymousMiddleware", snap.Middleware[0].Name)
}
