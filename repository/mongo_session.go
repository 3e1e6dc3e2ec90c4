package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

// mongoSessionRepo, SessionRepository interface'in MongoDB implementasyonu.
type mongoSessionRepo struct {
	col *mongo.Collection
}

// NewMongoSessionRepo, constructor.
func NewMongoSessionRepo(db *mongo.Database) SessionRepository {
	return &mongoSessionRepo{col: db.Collection("sessions")}
}

func (r *mongoSessionRepo) Create(ctx context.Context, session *models.Session) error {
	// ID (uuid) ve timestamp'ler service katmanında set edilir —
	// session ObjectID kullanmaz.
	if _, err := r.col.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	err := r.col.FindOne(ctx, bson.M{"refresh_token": token}).Decode(session)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}

	return session, nil
}

func (r *mongoSessionRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoSessionRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	// DeleteMany — kullanıcının hiç oturumu yoksa da hata değildir.
	if _, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete sessions by user: %w", err)
	}
	return nil
}
