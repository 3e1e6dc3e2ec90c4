// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *mongo.Database handle'ını alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akinalp/gunce/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Beş ayrı repository değişkeni yerine tek struct kullanmak:
// 1. Fonksiyon imzalarını temiz tutar (beş parametre yerine tek parametre)
// 2. Yeni repository eklendiğinde sadece struct + initRepositories güncellenir
// 3. IDE auto-complete ile kolay erişim (repos.User, repos.Post, vb.)
type Repositories struct {
	User          repository.UserRepository
	Session       repository.SessionRepository
	Post          repository.PostRepository
	Category      repository.CategoryRepository
	PasswordReset repository.PasswordResetRepository
}

// initRepositories, Mongo database handle'ından tüm repository'leri oluşturur.
//
// Her NewMongo* fonksiyonu aynı *mongo.Database'i alır — driver'ın client'ı
// thread-safe bir connection pool'dur, paylaşılması güvenlidir.
func initRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		User:          repository.NewMongoUserRepo(db),
		Session:       repository.NewMongoSessionRepo(db),
		Post:          repository.NewMongoPostRepo(db),
		Category:      repository.NewMongoCategoryRepo(db),
		PasswordReset: repository.NewMongoResetTokenRepo(db),
	}
}
