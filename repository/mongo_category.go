package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

// mongoCategoryRepo, CategoryRepository interface'in MongoDB implementasyonu.
type mongoCategoryRepo struct {
	col *mongo.Collection
}

// NewMongoCategoryRepo, constructor.
func NewMongoCategoryRepo(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepo{col: db.Collection("categories")}
}

func (r *mongoCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", pkg.ErrAlreadyExists, duplicateCategoryDetail(err))
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *mongoCategoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category := &models.Category{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(category)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}

	return category, nil
}

func (r *mongoCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category := &models.Category{}
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(category)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return category, nil
}

func (r *mongoCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

func (r *mongoCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", pkg.ErrAlreadyExists, duplicateCategoryDetail(err))
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoCategoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoCategoryRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// duplicateCategoryDetail, hangi unique index'in ihlal edildiğine göre
// kullanıcıya dönecek mesajı seçer.
func duplicateCategoryDetail(err error) string {
	if strings.Contains(err.Error(), "slug") {
		return "a category with this slug already exists"
	}
	return "a category with this name already exists"
}
