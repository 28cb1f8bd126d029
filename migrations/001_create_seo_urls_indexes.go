package migrations

import (
	"context"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/internal/seo_urls/services"

	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	Register(Migration{
		Version:     "001_create_seo_urls_indexes",
		Description: "Create indexes for seo_urls collection",
		Up:          up001,
		Down:        down001,
	})
}

func up001(ctx context.Context, db *mongo.Database) error {
	err := services.NewRepository(db).CreateIndexes(ctx)
	if err != nil && !isIndexExistsError(err) {
		return err
	}
	return nil
}

func down001(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.SeoUrlsCollection).Indexes().DropAll(ctx)
	if err != nil && !isNamespaceNotFound(err) {
		return err
	}
	return nil
}
