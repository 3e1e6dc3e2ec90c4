// Package database, MongoDB bağlantısını ve index bootstrap'ini yönetir.
//
// MongoDB'de tablo yerine "collection", satır yerine "document" vardır.
// Document'lar BSON formatında saklanır (JSON'un binary hali) ve şema
// zorunlu değildir — şema disiplinini model struct'ları ve unique
// index'ler sağlar.
//
// Resmi Go driver (go.mongodb.org/mongo-driver) connection pool'u kendisi
// yönetir: *mongo.Client thread-safe'dir, birden fazla goroutine aynı anda
// güvenle kullanabilir.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout, ilk bağlantı ve ping için üst sınır.
// Mongo ayakta değilse sonsuza kadar beklemek yerine hızlıca fail ederiz.
const connectTimeout = 10 * time.Second

// DB, MongoDB bağlantısını saran struct.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// New, MongoDB'ye bağlanır, bağlantıyı ping ile doğrular ve index'leri kurar.
//
// uri: Mongo bağlantı string'i (ör: "mongodb://localhost:27017")
// name: database adı (ör: "gunce")
//
// Fonksiyon imzasındaki (*DB, error) Go'nun "multiple return value" özelliğidir.
// Başarılı olursa (*DB, nil), başarısızsa (nil, error) döner.
func New(ctx context.Context, uri, name string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Connect lazy'dir — gerçek bağlantıyı ping ile doğrula.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := &DB{
		Client:   client,
		Database: client.Database(name),
	}

	// Index'leri kur — SQL dünyasındaki migration'ların Mongo karşılığı.
	// CreateMany idempotenttir: mevcut index'ler tekrar oluşturulmaz.
	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	log.Printf("[database] connected to %s, indexes ensured", name)
	return db, nil
}

// Close, MongoDB bağlantısını kapatır.
// Go'da resource cleanup "defer" ile yapılır:
//
//	db, _ := database.New(...)
//	defer db.Close(ctx)
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// Collection, isimle collection handle'ı döner. Handle hafiftir,
// her çağrıda yeniden almak sorun değildir.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}
