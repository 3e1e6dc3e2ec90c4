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

// mongoUserRepo, UserRepository interface'inin MongoDB implementasyonu.
//
// Go'da struct field'ları küçük harfle başlarsa (col) → private (package dışından erişilemez).
// Büyük harfle başlarsa → public.
// Repository'nin collection handle'ı dışarıya açık olmamalı — bu yüzden küçük harf.
type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo, constructor fonksiyonu.
// UserRepository interface'i döner (concrete struct değil) — Dependency Inversion.
//
// Go'da "constructor" diye özel bir syntax yok.
// Konvansiyon: New + tip adı → NewMongoUserRepo.
// Interface dönmek, çağıran tarafın implementasyondan bağımsız olmasını sağlar.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	return &mongoUserRepo{col: db.Collection("users")}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *models.User) error {
	// Timestamp'leri repository set eder — Mongo'nun SQL'deki DEFAULT
	// CURRENT_TIMESTAMP karşılığı yoktur.
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		// Unique index ihlali → kullanıcı adı veya email zaten var.
		// Hangi index'in patladığı hata mesajındaki index adından anlaşılır.
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email") {
				return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user := &models.User{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(user)

	// mongo.ErrNoDocuments, SQL'deki sql.ErrNoRows'un karşılığı.
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *mongoUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(user)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(user)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *mongoUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	// cursor.All, tüm sonuçları decode eder ve cursor'ı kapatır —
	// SQL'deki rows.Next + Scan + Close üçlüsünün tek satırlık hali.
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *mongoUserRepo) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}). // en yeni kayıt önce
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, total, nil
}

func (r *mongoUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"display_name": user.DisplayName,
		"bio":          user.Bio,
		"updated_at":   user.UpdatedAt,
	}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	// MatchedCount: filtreye uyan document sayısı. 0 ise kullanıcı yok.
	if result.MatchedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// UpdatePassword, kullanıcının şifre hash'ini günceller.
func (r *mongoUserRepo) UpdatePassword(ctx context.Context, userID primitive.ObjectID, newPasswordHash string) error {
	update := bson.M{"$set": bson.M{
		"password_hash": newPasswordHash,
		"updated_at":    time.Now().UTC(),
	}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoUserRepo) SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}}

	result, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user active state: %w", err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *mongoUserRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
