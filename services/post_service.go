package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/ws"
)

// Sayfalama sınırları — limit parametresi bu aralığın dışındaysa
// default'a çekilir.
const (
	defaultPostPageLimit = 10
	maxPostPageLimit     = 50
)

// PostService, blog yazısı işlemleri için business logic interface'i.
//
// Okuma metodlarındaki viewer parametresi nil olabilir (anonim ziyaretçi).
// Taslak görünürlüğü viewer'a göre belirlenir: anonim sadece yayınlanmış
// yazıları görür, giriş yapmış kullanıcı kendi taslaklarını da görür,
// admin her şeyi görür.
type PostService interface {
	List(ctx context.Context, viewer *models.User, categorySlug string, page, limit int) (*models.PostPage, error)
	GetByID(ctx context.Context, viewer *models.User, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, viewer *models.User, slug string) (*models.Post, error)
	Create(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, actor *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	hub          ws.EventPublisher
}

// NewPostService, yeni bir PostService instance'ı oluşturur.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		hub:          hub,
	}
}

// List, görünürlük kurallarına uyan yazıları newest-first sıralı ve
// sayfalı döner. categorySlug boş değilse sadece o kategorinin yazıları
// listelenir; bilinmeyen slug 404 döner.
func (s *postService) List(ctx context.Context, viewer *models.User, categorySlug string, page, limit int) (*models.PostPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxPostPageLimit {
		limit = defaultPostPageLimit
	}

	filter := visibilityFilter(viewer)

	// Kategori filtresi slug ile gelir (URL'de ObjectID hex'i çirkin durur),
	// sorgu için ID'ye çevrilir
	if categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
	}

	posts, total, err := s.postRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	if err := s.populatePosts(ctx, posts); err != nil {
		return nil, err
	}

	// Go'da nil slice JSON'a "null" olarak serialize edilir, frontend
	// "null.map()" ile crash eder. Boş sayfada posts nil olabilir.
	if posts == nil {
		posts = []models.Post{}
	}

	return &models.PostPage{
		Posts:   posts,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page*limit) < total,
	}, nil
}

// GetByID, yazıyı id ile getirir. Bozuk hex id 400 döner.
func (s *postService) GetByID(ctx context.Context, viewer *models.User, id string) (*models.Post, error) {
	postID, err := parseObjectID(id, "post")
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Taslağı sadece yazarı ve admin görebilir. Diğer herkese 404 döneriz,
	// 403 değil — taslağın varlığı bile sızdırılmaz.
	if !canViewPost(post, viewer) {
		return nil, pkg.ErrNotFound
	}

	if err := s.populatePost(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetBySlug, yazıyı slug ile getirir. Taslak kuralı GetByID ile aynı.
func (s *postService) GetBySlug(ctx context.Context, viewer *models.User, slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !canViewPost(post, viewer) {
		return nil, pkg.ErrNotFound
	}

	if err := s.populatePost(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Create, yeni bir yazı oluşturur. Yazar her zaman istek sahibidir —
// request body'den yazar alınmaz.
//
// Slug verilmemişse başlıktan türetilir. Kategori opsiyoneldir ama
// verilmişse var olmalıdır.
func (s *postService) Create(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	slug := req.Slug
	if slug == "" {
		slug = models.Slugify(req.Title)
	}

	post := &models.Post{
		Title:     req.Title,
		Slug:      slug,
		Content:   req.Content,
		AuthorID:  author.ID,
		Tags:      req.Tags,
		Published: req.Published,
	}

	if req.CategoryID != "" {
		categoryID, err := parseObjectID(req.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			// Var olmayan kategoriye işaret etmek istemci hatasıdır — 404 değil 400
			if errors.Is(err, pkg.ErrNotFound) {
				return nil, fmt.Errorf("%w: category not found", pkg.ErrBadRequest)
			}
			return nil, err
		}
		post.CategoryID = &category.ID
		post.Category = category
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Yazar bilgisini doldur (API response ve WS broadcast için)
	authorCopy := *author
	authorCopy.PasswordHash = "" // Güvenlik
	post.Author = &authorCopy

	// Taslaklar broadcast edilmez — event akışında sadece yayınlanmış
	// içerik gezer, taslağın varlığı diğer kullanıcılara sızmaz
	if post.Published {
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpPostCreate, Data: post})
	}

	return post, nil
}

// Update, bir yazıyı kısmi günceller — sadece gönderilen alanlar uygulanır.
// Yazı sahibi VEYA admin güncelleyebilir.
func (s *postService) Update(ctx context.Context, actor *models.User, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	postID, err := parseObjectID(id, "post")
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Yetki kontrolü: yazı sahibi VEYA admin
	if !canModifyPost(post, actor) {
		return nil, fmt.Errorf("%w: you can only edit your own posts", pkg.ErrForbidden)
	}

	wasPublished := post.Published

	if req.Title != nil {
		post.Title = *req.Title
		// Başlık değişti ve slug açıkça gönderilmedi → slug yeni
		// başlıktan yeniden türetilir
		if req.Slug == nil {
			post.Slug = models.Slugify(post.Title)
		}
	}
	if req.Slug != nil {
		post.Slug = *req.Slug
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			post.CategoryID = nil // Boş string kategoriyi kaldırır
		} else {
			categoryID, err := parseObjectID(*req.CategoryID, "category")
			if err != nil {
				return nil, err
			}
			if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
				if errors.Is(err, pkg.ErrNotFound) {
					return nil, fmt.Errorf("%w: category not found", pkg.ErrBadRequest)
				}
				return nil, err
			}
			post.CategoryID = &categoryID
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if err := s.populatePost(ctx, post); err != nil {
		return nil, err
	}

	// Yayın durumu geçişine göre event seçilir:
	//
	//	taslak  → yayında : post_create (akışa yeni girer)
	//	yayında → yayında : post_update
	//	yayında → taslak  : post_delete (akıştan düşer)
	//	taslak  → taslak  : event yok
	switch {
	case !wasPublished && post.Published:
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpPostCreate, Data: post})
	case wasPublished && post.Published:
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpPostUpdate, Data: post})
	case wasPublished && !post.Published:
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpPostDelete, Data: ws.DeletedData{ID: post.ID.Hex()}})
	}

	return post, nil
}

// Delete, bir yazıyı siler.
// Yazı sahibi VEYA admin silebilir.
func (s *postService) Delete(ctx context.Context, actor *models.User, id string) error {
	postID, err := parseObjectID(id, "post")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !canModifyPost(post, actor) {
		return fmt.Errorf("%w: you can only delete your own posts", pkg.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	// Taslak zaten kimsenin akışında yoktu — event gereksiz
	if post.Published {
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpPostDelete, Data: ws.DeletedData{ID: post.ID.Hex()}})
	}

	return nil
}

// ─── Private Helpers ───

// visibilityFilter, viewer'a göre taslak görünürlüğünü PostFilter'a çevirir.
func visibilityFilter(viewer *models.User) repository.PostFilter {
	if viewer == nil {
		return repository.PostFilter{PublishedOnly: true}
	}
	if viewer.Role == models.RoleAdmin {
		return repository.PostFilter{} // Admin her şeyi görür
	}
	authorID := viewer.ID
	return repository.PostFilter{PublishedOnly: true, DraftAuthorID: &authorID}
}

// canViewPost, "taslağı sadece yazarı ve admin görür" kuralı.
func canViewPost(post *models.Post, viewer *models.User) bool {
	if post.Published {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.Role == models.RoleAdmin || post.AuthorID == viewer.ID
}

// canModifyPost, yazar-veya-admin yetki kuralı (update/delete için).
// ObjectID comparable bir değer tipidir — karşılaştırma doğrudan == ile
// yapılır, hex string'e çevirmeye gerek yok.
func canModifyPost(post *models.Post, actor *models.User) bool {
	return post.AuthorID == actor.ID || actor.Role == models.RoleAdmin
}

// populatePost, tek bir yazının Author ve Category alanlarını doldurur.
func (s *postService) populatePost(ctx context.Context, post *models.Post) error {
	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		return fmt.Errorf("failed to get post author: %w", err)
	}
	author.PasswordHash = "" // Güvenlik
	post.Author = author

	if post.Tags == nil {
		post.Tags = []string{} // null yerine boş dizi
	}

	if post.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *post.CategoryID)
		if err != nil {
			// Kategori bu arada silinmiş olabilir — yazı kategorisiz görünür
			if !errors.Is(err, pkg.ErrNotFound) {
				return fmt.Errorf("failed to get post category: %w", err)
			}
		} else {
			post.Category = category
		}
	}

	return nil
}

// populatePosts, yazı listesinin Author ve Category alanlarını doldurur.
//
// Yazarlar tek sorguyla batch yüklenir (N+1 problemi önleme).
// Kategoriler sayıca az olduğu için unique ID başına bir kez çekilir
// ve map'te memoize edilir.
func (s *postService) populatePosts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	// Yazar ID'lerini duplicate'siz topla
	authorIDSet := make(map[primitive.ObjectID]bool)
	for _, p := range posts {
		authorIDSet[p.AuthorID] = true
	}
	authorIDs := make([]primitive.ObjectID, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return fmt.Errorf("failed to get post authors: %w", err)
	}

	authorMap := make(map[primitive.ObjectID]*models.User, len(authors))
	for i := range authors {
		authors[i].PasswordHash = "" // Güvenlik
		authorMap[authors[i].ID] = &authors[i]
	}

	categoryMap := make(map[primitive.ObjectID]*models.Category)

	for i := range posts {
		posts[i].Author = authorMap[posts[i].AuthorID]
		if posts[i].Tags == nil {
			posts[i].Tags = []string{} // null yerine boş dizi
		}

		if posts[i].CategoryID == nil {
			continue
		}
		catID := *posts[i].CategoryID
		category, cached := categoryMap[catID]
		if !cached {
			category, err = s.categoryRepo.GetByID(ctx, catID)
			if err != nil {
				if errors.Is(err, pkg.ErrNotFound) {
					categoryMap[catID] = nil // Silinmiş kategori — tekrar sorgulama
					continue
				}
				return fmt.Errorf("failed to get post category: %w", err)
			}
			categoryMap[catID] = category
		}
		posts[i].Category = category
	}

	return nil
}
