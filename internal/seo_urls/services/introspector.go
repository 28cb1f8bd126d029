package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/controllers"

	"github.com/samber/lo"
)

const (
	reservedMethodPrefix = "__"
	actionMethodSuffix   = "Action"
)

// ControllerRegistry lists the controllers that publish actions
type ControllerRegistry interface {
	ListHandlers(tags ...controllers.Tag) map[string]controllers.Descriptor
}

// Discovery is the result of inspecting every registered controller
type Discovery struct {
	// Actions grouped by controller ID
	Actions map[string][]models.DiscoveredAction
	// Controllers that could not be inspected during this run
	Unknown  map[string]bool
	Failures []*IntrospectionError
}

// Controllers returns the inspected controller IDs in sorted order
func (d *Discovery) Controllers() []string {
	ids := lo.Keys(d.Actions)
	sort.Strings(ids)
	return ids
}

// Has reports whether a discovered action exists for the key
func (d *Discovery) Has(key models.ActionKey) bool {
	for _, action := range d.Actions[key.Controller] {
		if action.Action == key.Action {
			return true
		}
	}
	return false
}

// Len returns the number of discovered actions
func (d *Discovery) Len() int {
	n := 0
	for _, actions := range d.Actions {
		n += len(actions)
	}
	return n
}

// Introspector lists the eligible actions of registered controllers
type Introspector struct {
	registry ControllerRegistry
	tags     []controllers.Tag
}

// NewIntrospector creates an introspector over base and backend controllers
func NewIntrospector(registry ControllerRegistry) *Introspector {
	return &Introspector{
		registry: registry,
		tags:     []controllers.Tag{controllers.TagBaseController, controllers.TagBackendController},
	}
}

// IsActionMethod reports whether a controller method is an addressable action
func IsActionMethod(m controllers.Method) bool {
	return m.Public &&
		!strings.HasPrefix(m.Name, reservedMethodPrefix) &&
		strings.HasSuffix(m.Name, actionMethodSuffix)
}

// Discover inspects every registered controller. A controller that fails is
// skipped and reported in Discovery.Failures; only a cancelled context aborts.
func (i *Introspector) Discover(ctx context.Context) (*Discovery, error) {
	handlers := i.registry.ListHandlers(i.tags...)
	ids := lo.Keys(handlers)
	sort.Strings(ids)

	discovery := &Discovery{
		Actions: make(map[string][]models.DiscoveredAction, len(ids)),
		Unknown: make(map[string]bool),
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		actions, err := inspect(handlers[id])
		if err != nil {
			ierr := &IntrospectionError{Controller: id, Err: err}
			slog.WarnContext(ctx, "Skipping controller that could not be inspected",
				"controller", id,
				"error", err)
			discovery.Failures = append(discovery.Failures, ierr)
			discovery.Unknown[id] = true
			continue
		}
		discovery.Actions[id] = actions
	}

	return discovery, nil
}

func inspect(d controllers.Descriptor) (actions []models.DiscoveredAction, err error) {
	defer func() {
		if r := recover(); r != nil {
			actions = nil
			err = fmt.Errorf("panic while listing methods: %v", r)
		}
	}()

	if d.Methods == nil {
		return nil, controllers.ErrNilMethods
	}
	methods, err := d.Methods()
	if err != nil {
		return nil, err
	}

	eligible := lo.Filter(methods, func(m controllers.Method, _ int) bool {
		return IsActionMethod(m)
	})
	eligible = lo.UniqBy(eligible, func(m controllers.Method) string {
		return m.Name
	})

	return lo.Map(eligible, func(m controllers.Method, _ int) models.DiscoveredAction {
		return models.DiscoveredAction{
			Controller: d.ID,
			Action:     m.Name,
			Route:      m.Route,
			Locked:     m.Locked,
			Parameters: append([]string{}, m.Parameters...),
		}
	}), nil
}
