// Index bootstrap — SQL migration'larının Mongo karşılığı.
//
// Unique index'ler veri bütünlüğünün tek güvencesidir: Mongo şemasız
// olduğu için "aynı username iki kez kaydolmasın" kuralını uygulama
// kodu değil, DB'deki unique index uygular. İhlalde driver duplicate
// key hatası döner, repository katmanı bunu ErrAlreadyExists'e çevirir.
//
// TTL index'ler (expires_at üzerinde) süresi dolan session ve reset
// token document'larını Mongo'nun kendi background monitor'üne sildirtir.
// Uygulama tarafında ayrıca cleanup goroutine'i gerekmez.
package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes, tüm collection'ların index'lerini kurar.
// İdempotenttir — server her başladığında güvenle çağrılır.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	posts := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Liste sorguları: filtre + newest-first sıralama tek index'ten çözülür.
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("posts").Indexes().CreateMany(ctx, posts); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}

	categories := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("categories").Indexes().CreateMany(ctx, categories); err != nil {
		return fmt.Errorf("categories indexes: %w", err)
	}

	sessions := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "refresh_token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL — süresi dolan oturumu Mongo siler
		},
	}
	if _, err := db.Collection("sessions").Indexes().CreateMany(ctx, sessions); err != nil {
		return fmt.Errorf("sessions indexes: %w", err)
	}

	resets := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.Collection("password_resets").Indexes().CreateMany(ctx, resets); err != nil {
		return fmt.Errorf("password_resets indexes: %w", err)
	}

	return nil
}
