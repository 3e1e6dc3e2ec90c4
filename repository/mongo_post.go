package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

// mongoPostRepo, PostRepository interface'in MongoDB implementasyonu.
type mongoPostRepo struct {
	col *mongo.Collection
}

// NewMongoPostRepo, constructor.
func NewMongoPostRepo(db *mongo.Database) PostRepository {
	return &mongoPostRepo{col: db.Collection("posts")}
}

func (r *mongoPostRepo) Create(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{} // JSON response'ta null yerine [] dönsün
	}

	if _, err := r.col.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: a post with this slug already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *mongoPostRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post := &models.Post{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(post)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

func (r *mongoPostRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post := &models.Post{}
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(post)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	return post, nil
}

func (r *mongoPostRepo) List(ctx context.Context, filter PostFilter, page, limit int) ([]models.Post, int64, error) {
	query := buildPostQuery(filter)

	// Toplam sayı sayfalama metadata'sı için gerekli (total, has_more).
	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}). // newest-first
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}

	return posts, total, nil
}

// buildPostQuery, PostFilter'ı Mongo sorgusuna çevirir.
func buildPostQuery(filter PostFilter) bson.M {
	query := bson.M{}

	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}

	if filter.PublishedOnly {
		if filter.DraftAuthorID != nil {
			// Yayınlanmışlar + kullanıcının kendi taslakları
			query["$or"] = []bson.M{
				{"published": true},
				{"author_id": *filter.DraftAuthorID},
			}
		} else {
			query["published"] = true
		}
	}

	return query
}

func (r *mongoPostRepo) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	// ReplaceOne document'ın tamamını yazar. CategoryID nil ise
	// omitempty sayesinde alan document'tan tamamen düşer —
	// "kategoriyi kaldır" $unset gerektirmeden böyle çalışır.
	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: a post with this slug already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoPostRepo) ClearCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	update := bson.M{
		"$unset": bson.M{"category_id": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.col.UpdateMany(ctx, bson.M{"category_id": categoryID}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to clear category from posts: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoPostRepo) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts by category: %w", err)
	}
	return count, nil
}

func (r *mongoPostRepo) Count(ctx context.Context, onlyPublished bool) (int64, error) {
	query := bson.M{}
	if onlyPublished {
		query["published"] = true
	}

	count, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
