// Package system registers the built-in controllers every installation has.
package system

import (
	"spawn-admin/pkg/controllers"
)

const (
	FallbackControllerID    = "system.fallback.404"
	BackendBaseControllerID = "system.backend.base"
)

// Descriptors returns the built-in controllers
func Descriptors() []controllers.Descriptor {
	return []controllers.Descriptor{
		{
			ID:   FallbackControllerID,
			Tags: []controllers.Tag{controllers.TagBaseController},
			Methods: controllers.StaticMethods(controllers.Method{
				Name:   "error404Action",
				Public: true,
				Route:  "/",
			}),
		},
		{
			ID:   BackendBaseControllerID,
			Tags: []controllers.Tag{controllers.TagBackendController},
			Methods: controllers.StaticMethods(controllers.Method{
				Name:   "homeAction",
				Public: true,
				Route:  "/backend",
				Locked: true,
			}),
		},
	}
}

func init() {
	for _, d := range Descriptors() {
		controllers.MustRegister(d)
	}
}
