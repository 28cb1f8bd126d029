package services

import (
	"context"
	"fmt"
	"time"

	"spawn-admin/internal/seo_urls/models"
	"spawn-admin/pkg/criteria"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence boundary for SEO URLs
type Store interface {
	Search(ctx context.Context, c *criteria.Criteria) ([]models.SeoUrl, error)
	Count(ctx context.Context, filter criteria.Filter) (int64, error)
	Upsert(ctx context.Context, seoUrl *models.SeoUrl) error
	DeleteByID(ctx context.Context, id string) error
}

// Repository handles MongoDB operations for SEO URLs
type Repository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewRepository creates a new repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		db:         db,
		collection: db.Collection(models.SeoUrlsCollection),
	}
}

// Search returns the SEO URLs matching the criteria
func (r *Repository) Search(ctx context.Context, c *criteria.Criteria) ([]models.SeoUrl, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, c.Query(), c.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	seoUrls := []models.SeoUrl{}
	if err = cursor.All(ctx, &seoUrls); err != nil {
		return nil, err
	}
	return seoUrls, nil
}

// Count counts SEO URLs matching a filter (nil counts everything)
func (r *Repository) Count(ctx context.Context, filter criteria.Filter) (int64, error) {
	query := bson.M{}
	if filter != nil {
		if err := filter.Validate(); err != nil {
			return 0, err
		}
		query = filter.BSON()
	}
	return r.collection.CountDocuments(ctx, query)
}

// Upsert inserts a new SEO URL or replaces the stored one with the same ID
func (r *Repository) Upsert(ctx context.Context, seoUrl *models.SeoUrl) error {
	now := time.Now().UTC()

	if seoUrl.IsNew() {
		seoUrl.ID = models.NewID()
		seoUrl.CreatedAt = now
		seoUrl.UpdatedAt = now
		if seoUrl.Parameters == nil {
			seoUrl.Parameters = []string{}
		}

		if _, err := r.collection.InsertOne(ctx, seoUrl); err != nil {
			seoUrl.ID = ""
			return err
		}
		return nil
	}

	if seoUrl.CreatedAt.IsZero() {
		seoUrl.CreatedAt = now
	}
	seoUrl.UpdatedAt = now

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{models.FieldID: seoUrl.ID},
		seoUrl,
		options.Replace().SetUpsert(true),
	)
	return err
}

// DeleteByID deletes a SEO URL
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("seo url %s not found", id)
	}
	return nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// CreateIndexes creates database indexes for the lookups the manager performs
func (r *Repository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Natural key lookup; not unique, duplicates are tolerated
		{
			Keys: bson.D{{Key: models.FieldController, Value: 1}, {Key: models.FieldAction, Value: 1}},
		},
		// Overview listing without locked routes
		{
			Keys: bson.D{{Key: models.FieldLocked, Value: 1}, {Key: models.FieldCreatedAt, Value: 1}},
		},
		// Stable insertion order
		{
			Keys: bson.D{{Key: models.FieldCreatedAt, Value: 1}, {Key: models.FieldID, Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
