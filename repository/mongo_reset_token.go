package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

// mongoResetTokenRepo, PasswordResetRepository interface'in MongoDB implementasyonu.
type mongoResetTokenRepo struct {
	col *mongo.Collection
}

// NewMongoResetTokenRepo, constructor.
func NewMongoResetTokenRepo(db *mongo.Database) PasswordResetRepository {
	return &mongoResetTokenRepo{col: db.Collection("password_resets")}
}

func (r *mongoResetTokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if _, err := r.col.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *mongoResetTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	token := &models.PasswordResetToken{}
	err := r.col.FindOne(ctx, bson.M{"token_hash": tokenHash}).Decode(token)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token by hash: %w", err)
	}

	return token, nil
}

func (r *mongoResetTokenRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoResetTokenRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete reset tokens by user: %w", err)
	}
	return nil
}

func (r *mongoResetTokenRepo) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*models.PasswordResetToken, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	token := &models.PasswordResetToken{}
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(token)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reset token: %w", err)
	}

	return token, nil
}
