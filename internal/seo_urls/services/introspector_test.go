package services

import (
	"context"
	"errors"
	"testing"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/controllers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsActionMethod(t *testing.T) {
	tests := []struct {
		method controllers.Method
		want   bool
	}{
		{controllers.Method{Name: "overviewAction", Public: true}, true},
		{controllers.Method{Name: "overviewAction", Public: false}, false},
		{controllers.Method{Name: "__constructAction", Public: true}, false},
		{controllers.Method{Name: "validateArrayFields", Public: true}, false},
		{controllers.Method{Name: "Action", Public: true}, true},
		{controllers.Method{Name: "actionOverview", Public: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.method.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActionMethod(tt.method))
		})
	}
}

func TestIntrospectorDiscoversEligibleActions(t *testing.T) {
	registry := newTestRegistry(
		backendController("backend.seo",
			controllers.Method{Name: "overviewAction", Public: true, Route: "/backend/seo", Locked: true},
			controllers.Method{Name: "editAction", Public: true, Route: "/backend/seo/{ctrl}", Parameters: []string{"ctrl"}},
			controllers.Method{Name: "helperAction", Public: false},
			controllers.Method{Name: "validateFields", Public: true},
		),
		controllers.Descriptor{
			ID:      "frontend.widget",
			Tags:    []controllers.Tag{"widget.controller"},
			Methods: controllers.StaticMethods(action("renderAction", "/widget")),
		},
	)

	discovery, err := NewIntrospector(registry).Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"backend.seo"}, discovery.Controllers())
	assert.Equal(t, 2, discovery.Len())
	assert.Empty(t, discovery.Failures)

	actions := discovery.Actions["backend.seo"]
	require.Len(t, actions, 2)
	assert.Equal(t, models.DiscoveredAction{
		Controller: "backend.seo",
		Action:     "overviewAction",
		Route:      "/backend/seo",
		Locked:     true,
		Parameters: []string{},
	}, actions[0])
	assert.Equal(t, []string{"ctrl"}, actions[1].Parameters)

	assert.True(t, discovery.Has(models.ActionKey{Controller: "backend.seo", Action: "editAction"}))
	assert.False(t, discovery.Has(models.ActionKey{Controller: "backend.seo", Action: "helperAction"}))
	assert.False(t, discovery.Has(models.ActionKey{Controller: "frontend.widget", Action: "renderAction"}))
}

func TestIntrospectorDropsDuplicateMethodNames(t *testing.T) {
	registry := newTestRegistry(backendController("c",
		action("aAction", "/first"),
		action("aAction", "/second"),
	))

	discovery, err := NewIntrospector(registry).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, discovery.Actions["c"], 1)
	assert.Equal(t, "/first", discovery.Actions["c"][0].Route)
}

func TestIntrospectorSkipsFailingControllers(t *testing.T) {
	boom := errors.New("boom")
	registry := stubRegistry{
		"good":   backendController("good", action("aAction", "/a")),
		"broken": brokenController("broken", boom),
		"panicky": {
			ID:   "panicky",
			Tags: []controllers.Tag{controllers.TagBackendController},
			Methods: func() ([]controllers.Method, error) {
				panic("unexpected")
			},
		},
		// the registry refuses these, a hand-built registry may not
		"nil.methods": {
			ID:   "nil.methods",
			Tags: []controllers.Tag{controllers.TagBaseController},
		},
	}

	discovery, err := NewIntrospector(registry).Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"good"}, discovery.Controllers())
	assert.Equal(t, map[string]bool{"broken": true, "panicky": true, "nil.methods": true}, discovery.Unknown)
	require.Len(t, discovery.Failures, 3)

	failed := map[string]*IntrospectionError{}
	for _, f := range discovery.Failures {
		failed[f.Controller] = f
	}
	assert.ErrorIs(t, failed["broken"], boom)
	assert.ErrorIs(t, failed["nil.methods"], controllers.ErrNilMethods)
	assert.Contains(t, failed["panicky"].Error(), "unexpected")
}

func TestIntrospectorHonorsCancellation(t *testing.T) {
	registry := newTestRegistry(backendController("c", action("aAction", "/a")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIntrospector(registry).Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
