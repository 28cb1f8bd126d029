package seo_urls

import (
	"spawn-admin/pkg/controllers"
)

// ControllerID is the registry key of the SEO URL configuration backend
const ControllerID = "system.backend.seo_url_config"

// Methods lists the actions of the SEO URL configuration backend
func Methods() []controllers.Method {
	return []controllers.Method{
		{
			Name:   "seoUrlOverviewAction",
			Public: true,
			Route:  "/backend/seo_config/overview",
			Locked: true,
		},
		{
			Name:       "seoUrlEditAction",
			Public:     true,
			Route:      "/backend/seo_config/edit/{ctrl}/{action}",
			Locked:     true,
			Parameters: []string{"ctrl", "method"},
		},
		{
			Name:       "seoUrlEditSubmitAction",
			Public:     true,
			Route:      "/backend/seo_config/edit/submit/{ctrl}/{action}",
			Locked:     true,
			Parameters: []string{"ctrl", "method"},
		},
		// form helper, not routable
		{Name: "validateArrayFields"},
	}
}

func init() {
	controllers.MustRegister(controllers.Descriptor{
		ID:      ControllerID,
		Tags:    []controllers.Tag{controllers.TagBackendController},
		Methods: controllers.StaticMethods(Methods()...),
	})
}
