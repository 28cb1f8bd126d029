package migrations

import (
	"context"
	"fmt"
	"log/slog"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/internal/seo_urls/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	Register(Migration{
		Version:     "002_seed_default_seo_urls",
		Description: "Seed SEO URLs of the built-in system controllers",
		Up:          up002,
		Down:        down002,
	})
}

// DefaultSeoUrls are the SEO URLs every installation starts with
func DefaultSeoUrls() []*models.SeoUrl {
	return []*models.SeoUrl{
		models.NewSeoUrl("/", "system.fallback.404", "error404Action", nil, false, true),
		models.NewSeoUrl("/backend", "system.backend.base", "homeAction", nil, true, true),
		models.NewSeoUrl("/backend/seo_config/overview", "system.backend.seo_url_config", "seoUrlOverviewAction", nil, true, true),
		models.NewSeoUrl("/backend/seo_config/edit/{ctrl}/{action}", "system.backend.seo_url_config", "seoUrlEditAction", []string{"ctrl", "method"}, true, true),
		models.NewSeoUrl("/backend/seo_config/edit/submit/{ctrl}/{action}", "system.backend.seo_url_config", "seoUrlEditSubmitAction", []string{"ctrl", "method"}, true, true),
	}
}

// SeedDefaults stores every default SEO URL whose controller action has none yet
func SeedDefaults(ctx context.Context, manager *services.Manager) (int, error) {
	seeded := 0
	for _, seoUrl := range DefaultSeoUrls() {
		existing, err := manager.FindByHandlerAction(ctx, seoUrl.Controller, seoUrl.Action)
		if err != nil {
			return seeded, err
		}
		if existing != nil {
			continue
		}
		if err := manager.Upsert(ctx, seoUrl); err != nil {
			return seeded, fmt.Errorf("failed to seed %s: %w", seoUrl.Key(), err)
		}
		seeded++
	}
	return seeded, nil
}

func up002(ctx context.Context, db *mongo.Database) error {
	seeded, err := SeedDefaults(ctx, services.NewManager(services.NewRepository(db)))
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Seeded default SEO URLs", "count", seeded)
	return nil
}

func down002(ctx context.Context, db *mongo.Database) error {
	pairs := bson.A{}
	for _, seoUrl := range DefaultSeoUrls() {
		pairs = append(pairs, bson.M{
			models.FieldController: seoUrl.Controller,
			models.FieldAction:     seoUrl.Action,
			models.FieldPath:       seoUrl.Path,
		})
	}

	_, err := db.Collection(models.SeoUrlsCollection).DeleteMany(ctx, bson.M{"$or": pairs})
	return err
}
