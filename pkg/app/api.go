package app

import (
	"strings"

	"spawn-admin/pkg/config"
	"spawn-admin/pkg/version"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

// NewAPIConfig returns the Huma configuration shared by the server and the
// OpenAPI export
func NewAPIConfig(apiPrefix string) huma.Config {
	humaConfig := huma.DefaultConfig("Spawn Admin API", version.GetVersionString())
	humaConfig.Info.Description = "Administration API for SEO URL routing"

	serverURL := strings.TrimSuffix(config.GetEnv("PUBLIC_URL", "http://localhost:8080"), "/")
	humaConfig.Servers = []*huma.Server{
		{URL: serverURL + apiPrefix, Description: "API server"},
	}
	return humaConfig
}

// MountAPI creates the unified Huma API on the router, under apiPrefix when
// set. The returned router is the one the API is mounted on, so plain chi
// routes can share the prefix.
func MountAPI(r chi.Router, apiPrefix string) (huma.API, chi.Router) {
	humaConfig := NewAPIConfig(apiPrefix)
	if apiPrefix == "" {
		return humachi.New(r, humaConfig), r
	}

	var api huma.API
	var prefixRouter chi.Router
	r.Route(apiPrefix, func(pr chi.Router) {
		prefixRouter = pr
		api = humachi.New(pr, humaConfig)
	})
	return api, prefixRouter
}
