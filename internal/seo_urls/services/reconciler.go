package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spawn-admin/internal/seo_urls/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ReconcileResult summarizes a reconciliation run. Added and Removed only
// count writes the store confirmed.
type ReconcileResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	// RemovedReported is false when the remove pass was not requested
	RemovedReported bool `json:"removed_reported"`
	// Protected counts stale-looking SEO URLs kept because their controller
	// could not be inspected
	Protected   int                   `json:"protected"`
	Errors      []error               `json:"-"`
	Diagnostics []*IntrospectionError `json:"-"`
	Duration    time.Duration         `json:"duration"`
}

// HasErrors reports whether any write failed
func (r *ReconcileResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Plan is the diff a reconciliation would apply
type Plan struct {
	ToAdd       []*models.SeoUrl
	ToRemove    []models.SeoUrl
	Protected   []models.SeoUrl
	Diagnostics []*IntrospectionError
}

// Reconciler keeps stored SEO URLs in sync with the registered controller actions
type Reconciler struct {
	manager      *Manager
	introspector *Introspector
	tracer       trace.Tracer
}

// NewReconciler creates a new reconciler
func NewReconciler(manager *Manager, introspector *Introspector) *Reconciler {
	return &Reconciler{
		manager:      manager,
		introspector: introspector,
		tracer:       otel.Tracer("seo_urls"),
	}
}

// Plan loads stored SEO URLs and discovered actions and computes the diff
// without writing anything
func (r *Reconciler) Plan(ctx context.Context, removeStale bool) (*Plan, error) {
	existing, err := r.manager.ListMappings(ctx, false, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load seo urls: %w", err)
	}

	discovery, err := r.introspector.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover controller actions: %w", err)
	}

	return buildPlan(existing, discovery, removeStale), nil
}

func buildPlan(existing []models.SeoUrl, discovery *Discovery, removeStale bool) *Plan {
	plan := &Plan{Diagnostics: discovery.Failures}

	stored := make(map[models.ActionKey]bool, len(existing))
	for _, seoUrl := range existing {
		stored[seoUrl.Key()] = true
	}

	for _, controller := range discovery.Controllers() {
		for _, action := range discovery.Actions[controller] {
			key := action.Key()
			if stored[key] {
				continue
			}
			// a controller may not publish the same action twice, but guard the invariant anyway
			stored[key] = true
			plan.ToAdd = append(plan.ToAdd, models.NewSeoUrl(
				action.Route,
				action.Controller,
				action.Action,
				action.Parameters,
				action.Locked,
				true,
			))
		}
	}

	if !removeStale {
		return plan
	}

	for _, seoUrl := range existing {
		if discovery.Has(seoUrl.Key()) {
			continue
		}
		if discovery.Unknown[seoUrl.Controller] {
			plan.Protected = append(plan.Protected, seoUrl)
			continue
		}
		plan.ToRemove = append(plan.ToRemove, seoUrl)
	}
	return plan
}

// Reconcile adds a SEO URL for every discovered action that has none and,
// when removeStale is set, deletes SEO URLs whose action no longer exists.
// The add pass always finishes before the remove pass starts. Individual
// write failures are collected in the result; only a failed initial load or
// a cancelled context returns an error.
func (r *Reconciler) Reconcile(ctx context.Context, removeStale bool) (*ReconcileResult, error) {
	ctx, span := r.tracer.Start(ctx, "seo_urls.reconcile",
		trace.WithAttributes(attribute.Bool("seo_urls.remove_stale", removeStale)),
	)
	defer span.End()

	start := time.Now()
	result := &ReconcileResult{RemovedReported: removeStale}

	plan, err := r.Plan(ctx, removeStale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan failed")
		return nil, err
	}
	result.Diagnostics = plan.Diagnostics
	result.Protected = len(plan.Protected)

	for _, seoUrl := range plan.ToAdd {
		if err := ctx.Err(); err != nil {
			return r.abort(ctx, span, result, start, err)
		}
		if err := r.manager.Upsert(ctx, seoUrl); err != nil {
			slog.ErrorContext(ctx, "Failed to add SEO URL",
				"controller", seoUrl.Controller,
				"action", seoUrl.Action,
				"error", err)
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Added++
	}

	for _, seoUrl := range plan.ToRemove {
		if err := ctx.Err(); err != nil {
			return r.abort(ctx, span, result, start, err)
		}
		if err := r.manager.Delete(ctx, seoUrl.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to remove stale SEO URL",
				"id", seoUrl.ID,
				"controller", seoUrl.Controller,
				"action", seoUrl.Action,
				"error", err)
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Removed++
	}

	for _, seoUrl := range plan.Protected {
		slog.WarnContext(ctx, "Keeping SEO URL of controller that could not be inspected",
			"id", seoUrl.ID,
			"controller", seoUrl.Controller,
			"action", seoUrl.Action)
	}

	result.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("seo_urls.added", result.Added),
		attribute.Int("seo_urls.removed", result.Removed),
		attribute.Int("seo_urls.errors", len(result.Errors)),
		attribute.Int("seo_urls.diagnostics", len(result.Diagnostics)),
	)
	if result.HasErrors() {
		span.SetStatus(codes.Error, "some writes failed")
	}

	slog.InfoContext(ctx, "SEO URLs refreshed",
		"added", result.Added,
		"removed", result.Removed,
		"remove_stale", removeStale,
		"protected", result.Protected,
		"errors", len(result.Errors),
		"diagnostics", len(result.Diagnostics),
		"duration", result.Duration)

	return result, nil
}

func (r *Reconciler) abort(ctx context.Context, span trace.Span, result *ReconcileResult, start time.Time, err error) (*ReconcileResult, error) {
	result.Duration = time.Since(start)
	span.RecordError(err)
	span.SetStatus(codes.Error, "cancelled")
	slog.WarnContext(ctx, "SEO URL refresh cancelled",
		"added", result.Added,
		"removed", result.Removed,
		"error", err)
	return result, err
}
