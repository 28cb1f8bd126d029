package dto

import (
	"spawn-admin/internal/seo_urls/models"
)

// SeoUrlsOutput represents the overview response
type SeoUrlsOutput struct {
	Body SeoUrlsResponse `json:"body" description:"SEO URL page"`
}

// SeoUrlsResponse contains one overview page
type SeoUrlsResponse struct {
	TableInfo models.TableInfo `json:"table_info" description:"Paging information"`
	SeoUrls   []models.SeoUrl  `json:"seo_urls" description:"SEO URLs of this page"`
}

// SeoUrlOutput represents a single SEO URL
type SeoUrlOutput struct {
	Body models.SeoUrl `json:"body" description:"SEO URL details"`
}

// SaveSeoUrlOutput represents the edit submission result
type SaveSeoUrlOutput struct {
	Body SaveSeoUrlResponse `json:"body" description:"Submission result"`
}

// SaveSeoUrlResponse mirrors the admin form contract: field errors are
// reported with success=false rather than an HTTP error
type SaveSeoUrlResponse struct {
	Success     bool           `json:"success" description:"Whether the SEO URL was saved"`
	Errors      []string       `json:"errors" description:"Operation level error messages"`
	ErrorFields []string       `json:"error_fields,omitempty" description:"Missing or invalid fields"`
	SeoUrl      *models.SeoUrl `json:"seo_url,omitempty" description:"Saved SEO URL"`
}

// RefreshSeoUrlsOutput represents the reconciliation result
type RefreshSeoUrlsOutput struct {
	Body RefreshSeoUrlsResponse `json:"body" description:"Refresh result"`
}

// RefreshSeoUrlsResponse contains the reconciliation counters and error messages
type RefreshSeoUrlsResponse struct {
	Added       int      `json:"added" description:"SEO URLs created"`
	Removed     *int     `json:"removed,omitempty" description:"SEO URLs deleted (only when remove_stale was requested)"`
	Protected   int      `json:"protected" description:"Stale looking SEO URLs kept because their controller failed inspection"`
	DryRun      bool     `json:"dry_run" description:"Nothing was written"`
	Errors      []string `json:"errors" description:"Failed writes"`
	Diagnostics []string `json:"diagnostics" description:"Controllers that could not be inspected"`
	DurationMS  int64    `json:"duration_ms" description:"Run duration in milliseconds"`
}

// StatusOutput represents the module status response
type StatusOutput struct {
	Body StatusResponse `json:"body" description:"Module status"`
}

// StatusResponse contains the module health status
type StatusResponse struct {
	Module  string `json:"module" description:"Module name"`
	Status  string `json:"status" enum:"healthy,degraded,unhealthy" description:"Module health status"`
	Message string `json:"message,omitempty" description:"Optional status message"`
}
