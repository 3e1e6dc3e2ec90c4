package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/pkg/cache"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/ws"
)

// Kategori listesi cache ayarları.
//
// Liste her yazı sayfasında çekilir ama sadece admin işlemiyle değişir.
// Her Create/Update/Delete cache'i zaten invalidate eder — TTL,
// invalidation'ın kaçırıldığı bir senaryoya karşı emniyet payıdır.
const (
	categoryCacheTTL     = 5 * time.Minute
	categoryCacheCleanup = 10 * time.Minute
	categoryCacheKey     = "all"
)

// CategoryService, kategori işlemleri için business logic interface'i.
//
// Create/Update/Delete admin yetkisi gerektirir — kontrol route seviyesinde
// admin middleware ile yapılır, service içinde tekrarlanmaz.
type CategoryService interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	// Close, cache'in temizleme goroutine'ini durdurur.
	// Graceful shutdown sırasında çağrılır.
	Close()
}

type categoryService struct {
	categoryRepo  repository.CategoryRepository
	postRepo      repository.PostRepository
	hub           ws.EventPublisher
	categoryCache *cache.TTLCache[string, []models.Category]
}

// NewCategoryService, yeni bir CategoryService instance'ı oluşturur.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	postRepo repository.PostRepository,
	hub ws.EventPublisher,
) CategoryService {
	return &categoryService{
		categoryRepo:  categoryRepo,
		postRepo:      postRepo,
		hub:           hub,
		categoryCache: cache.New[string, []models.Category](categoryCacheTTL, categoryCacheCleanup),
	}
}

// GetAll, tüm kategorileri isim sırasıyla döner.
// Sonuç cache'lenir — sayfa başına bir DB sorgusu yerine 5 dakikada bir.
func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.categoryCache.Get(categoryCacheKey); ok {
		return cached, nil
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	// Go'da nil slice JSON'a "null" olarak serialize edilir — boş diziye çevir
	if categories == nil {
		categories = []models.Category{}
	}

	s.categoryCache.Set(categoryCacheKey, categories)
	return categories, nil
}

// GetBySlug, kategoriyi slug ile getirir.
func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

// Create, yeni bir kategori oluşturur ve tüm bağlı kullanıcılara bildirir.
// Slug her zaman isimden türetilir — kategori slug'ı elle verilmez.
func (s *categoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        models.Slugify(req.Name),
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.categoryCache.Delete(categoryCacheKey)

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpCategoryCreate,
		Data: category,
	})

	return category, nil
}

// Update, mevcut bir kategoriyi günceller.
// İsim değişirse slug da yeni isimden yeniden türetilir.
func (s *categoryService) Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	categoryID, err := parseObjectID(id, "category")
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	// Sadece gelen alanları güncelle (partial update pattern)
	if req.Name != nil {
		category.Name = *req.Name
		category.Slug = models.Slugify(category.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description // Boş string açıklamayı kaldırır
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.categoryCache.Delete(categoryCacheKey)

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpCategoryUpdate,
		Data: category,
	})

	return category, nil
}

// Delete, bir kategoriyi siler ve yazılardaki referanslarını temizler.
//
// Sıralama önemli: önce referanslar temizlenir, sonra kategori silinir.
// Arada gelen bir read en kötü "kategorisiz yazı + hâlâ var olan kategori"
// görür — tutarlı bir ara durum. Ters sırada, silinmiş kategoriye işaret
// eden yazılar görünürdü.
//
// İki collection arasında transaction kullanılmıyor — temizleme başarılı
// olup silme başarısız olursa kategori referanssız kalır, admin silmeyi
// tekrar dener.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	categoryID, err := parseObjectID(id, "category")
	if err != nil {
		return err
	}

	// Var olmayan kategori için 404 — ClearCategory'i boşuna çalıştırma
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return err
	}

	cleared, err := s.postRepo.ClearCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return err
	}

	if cleared > 0 {
		log.Printf("[category] removed deleted category from %d posts", cleared)
	}

	s.categoryCache.Delete(categoryCacheKey)

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpCategoryDelete,
		Data: ws.DeletedData{ID: categoryID.Hex()},
	})

	return nil
}

// Close, cache'in arka plan goroutine'ini durdurur.
func (s *categoryService) Close() {
	s.categoryCache.Close()
}
