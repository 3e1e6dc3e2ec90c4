package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
)

// PostFilter, yazı listesi sorgusunun filtresini taşır.
//
// Görünürlük kuralı:
//   - PublishedOnly false → taslaklar dahil her şey (admin görünümü)
//   - PublishedOnly true  → sadece yayınlanmış yazılar
//   - PublishedOnly true + DraftAuthorID → yayınlanmışlar VEYA bu yazarın
//     taslakları (giriş yapmış kullanıcı kendi taslaklarını görür)
type PostFilter struct {
	CategoryID    *primitive.ObjectID // nil → tüm kategoriler
	PublishedOnly bool
	DraftAuthorID *primitive.ObjectID
}

// PostRepository, blog yazısı veritabanı işlemleri için interface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	// List, filtreye uyan yazıları newest-first sıralı ve sayfalı döner.
	// İkinci dönüş değeri filtreye uyan TOPLAM yazı sayısıdır (sayfa değil).
	List(ctx context.Context, filter PostFilter, page, limit int) ([]models.Post, int64, error)
	// Update, document'ın tamamını yazar — service önce yazıyı yükler,
	// alanları değiştirir, sonra kaydeder (Mongoose'un save() akışı gibi).
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ClearCategory, silinen kategoriye işaret eden tüm yazıların
	// category_id alanını kaldırır. Etkilenen yazı sayısını döner.
	ClearCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	// CountByCategory, kategorideki yazı sayısını döner (taslaklar dahil).
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	// Count, onlyPublished true ise sadece yayınlanmış yazıları sayar.
	Count(ctx context.Context, onlyPublished bool) (int64, error)
}
