package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"spawn-admin/internal/seo_urls/dto"
	"spawn-admin/internal/seo_urls/services"

	"github.com/danielgtaylor/huma/v2"
)

// Module represents the SEO URL admin routes
type Module struct {
	service *services.Service
}

// NewModule creates a new routes module
func NewModule(service *services.Service) *Module {
	return &Module{service: service}
}

// RegisterUnifiedRoutes registers the SEO URL admin routes on the Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "seo-urls-get-status",
		Method:      http.MethodGet,
		Path:        "/seo-urls/status",
		Summary:     "Get SEO URL module status",
		Tags:        []string{"Module Status"},
	}, m.getStatus)

	huma.Register(api, huma.Operation{
		OperationID: "seo-urls-list",
		Method:      http.MethodGet,
		Path:        "/admin/seo-urls",
		Summary:     "List SEO URLs",
		Description: "Returns one page of SEO URLs in insertion order. Locked system routes are hidden unless show_locked is set.",
		Tags:        []string{"Admin / SEO URLs"},
	}, m.listSeoUrls)

	huma.Register(api, huma.Operation{
		OperationID: "seo-urls-refresh",
		Method:      http.MethodPost,
		Path:        "/admin/seo-urls/refresh",
		Summary:     "Refresh SEO URLs from registered controllers",
		Description: "Adds a SEO URL for every controller action that has none. With remove_stale, SEO URLs of removed actions are deleted.",
		Tags:        []string{"Admin / SEO URLs"},
	}, m.refreshSeoUrls)

	huma.Register(api, huma.Operation{
		OperationID: "seo-urls-get",
		Method:      http.MethodGet,
		Path:        "/admin/seo-urls/{ctrl}/{action}",
		Summary:     "Get the SEO URL of a controller action",
		Tags:        []string{"Admin / SEO URLs"},
	}, m.getSeoUrl)

	huma.Register(api, huma.Operation{
		OperationID: "seo-urls-save",
		Method:      http.MethodPost,
		Path:        "/admin/seo-urls/{ctrl}/{action}",
		Summary:     "Save the SEO URL of a controller action",
		Description: "Missing fields are reported in error_fields with success=false.",
		Tags:        []string{"Admin / SEO URLs"},
	}, m.saveSeoUrl)
}

func (m *Module) getStatus(ctx context.Context, input *dto.StatusInput) (*dto.StatusOutput, error) {
	status := m.service.GetStatus(ctx)
	return &dto.StatusOutput{Body: *status}, nil
}

func (m *Module) listSeoUrls(ctx context.Context, input *dto.ListSeoUrlsInput) (*dto.SeoUrlsOutput, error) {
	seoUrls, info, err := m.service.Manager().ListPage(ctx, input.ShowLocked, input.Page, input.Num)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list SEO URLs", err)
	}

	return &dto.SeoUrlsOutput{
		Body: dto.SeoUrlsResponse{
			TableInfo: info,
			SeoUrls:   seoUrls,
		},
	}, nil
}

func (m *Module) getSeoUrl(ctx context.Context, input *dto.GetSeoUrlInput) (*dto.SeoUrlOutput, error) {
	seoUrl, err := m.service.Manager().FindByHandlerAction(ctx, input.Controller, input.Action)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load SEO URL", err)
	}
	if seoUrl == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("No SEO URL for %s::%s", input.Controller, input.Action))
	}

	return &dto.SeoUrlOutput{Body: *seoUrl}, nil
}

func (m *Module) saveSeoUrl(ctx context.Context, input *dto.SaveSeoUrlInput) (*dto.SaveSeoUrlOutput, error) {
	sub := services.Submission{
		Path:   input.Body.Path,
		Active: input.Body.Active,
	}

	seoUrl, err := m.service.Manager().SaveSubmission(ctx, input.Controller, input.Action, sub)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return &dto.SaveSeoUrlOutput{
				Body: dto.SaveSeoUrlResponse{
					Success:     false,
					Errors:      []string{verr.Error()},
					ErrorFields: verr.Fields,
				},
			}, nil
		}
		slog.ErrorContext(ctx, "Failed to save SEO URL",
			"controller", input.Controller,
			"action", input.Action,
			"error", err)
		return &dto.SaveSeoUrlOutput{
			Body: dto.SaveSeoUrlResponse{
				Success: false,
				Errors:  []string{"Failed to save SEO URL"},
			},
		}, nil
	}

	return &dto.SaveSeoUrlOutput{
		Body: dto.SaveSeoUrlResponse{
			Success: true,
			Errors:  []string{},
			SeoUrl:  seoUrl,
		},
	}, nil
}

func (m *Module) refreshSeoUrls(ctx context.Context, input *dto.RefreshSeoUrlsInput) (*dto.RefreshSeoUrlsOutput, error) {
	removeStale, dryRun := input.Options()
	if dryRun {
		plan, err := m.service.Plan(ctx, removeStale)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to plan SEO URL refresh", err)
		}
		return &dto.RefreshSeoUrlsOutput{Body: planResponse(plan, removeStale)}, nil
	}

	result, err := m.service.Refresh(ctx, removeStale)
	if errors.Is(err, services.ErrLocked) {
		return nil, huma.Error409Conflict("A SEO URL refresh is already running")
	}
	if err != nil && result == nil {
		return nil, huma.Error500InternalServerError("Failed to refresh SEO URLs", err)
	}

	body := resultResponse(result)
	if err != nil {
		body.Errors = append(body.Errors, err.Error())
	}
	return &dto.RefreshSeoUrlsOutput{Body: body}, nil
}

func resultResponse(result *services.ReconcileResult) dto.RefreshSeoUrlsResponse {
	resp := dto.RefreshSeoUrlsResponse{
		Added:       result.Added,
		Protected:   result.Protected,
		Errors:      errorStrings(result.Errors),
		Diagnostics: diagnosticStrings(result.Diagnostics),
		DurationMS:  result.Duration.Milliseconds(),
	}
	if result.RemovedReported {
		removed := result.Removed
		resp.Removed = &removed
	}
	return resp
}

func planResponse(plan *services.Plan, removeStale bool) dto.RefreshSeoUrlsResponse {
	resp := dto.RefreshSeoUrlsResponse{
		Added:       len(plan.ToAdd),
		Protected:   len(plan.Protected),
		DryRun:      true,
		Errors:      []string{},
		Diagnostics: diagnosticStrings(plan.Diagnostics),
	}
	if removeStale {
		removed := len(plan.ToRemove)
		resp.Removed = &removed
	}
	return resp
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

func diagnosticStrings(diagnostics []*services.IntrospectionError) []string {
	out := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, d.Error())
	}
	return out
}
