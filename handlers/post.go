package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/services"
)

// PostHandler, blog yazısı endpoint'lerini yöneten struct.
type PostHandler struct {
	postService services.PostService
}

// NewPostHandler, constructor.
func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List godoc
// GET /api/posts?category=SLUG&page=1&limit=10
// Yazıları sayfalı listeler (en yeni önce).
//
// Route opsiyonel auth arkasında: token gönderilmemişse viewer nil olur
// ve sadece yayınlanmış yazılar döner. Token varsa kullanıcı kendi
// taslaklarını, admin her şeyi görür.
//
// Query parametreleri:
// - category: Kategori slug'ı (boşsa tüm kategoriler)
// - page: Sayfa numarası (default 1)
// - limit: Sayfa boyutu (default 10, max 50 — sınır dışı değerler service'te düzeltilir)
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, _ := r.Context().Value(UserContextKey).(*models.User) // nil → anonim ziyaretçi

	categorySlug := r.URL.Query().Get("category")

	page := 0
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			page = parsed
		}
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	result, err := h.postService.List(r.Context(), viewer, categorySlug, page, limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// GetByID godoc
// GET /api/posts/{id}
// Tek yazıyı id ile döner. Taslaklar sadece yazarına ve admin'e görünür.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, _ := r.Context().Value(UserContextKey).(*models.User)

	post, err := h.postService.GetByID(r.Context(), viewer, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, post)
}

// GetBySlug godoc
// GET /api/posts/slug/{slug}
// Tek yazıyı slug ile döner — frontend'in okunabilir URL'leri için.
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	viewer, _ := r.Context().Value(UserContextKey).(*models.User)

	post, err := h.postService.GetBySlug(r.Context(), viewer, r.PathValue("slug"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, post)
}

// Create godoc
// POST /api/posts
// Yeni yazı oluşturur. Yazar her zaman istek sahibidir.
//
// Body: { "title": "...", "content": "...", "slug": "", "category_id": "", "tags": [], "published": false }
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, post)
}

// Update godoc
// PUT /api/posts/{id}
// Yazıyı kısmi günceller. Yazı sahibi VEYA admin güncelleyebilir.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.postService.Update(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, post)
}

// Delete godoc
// DELETE /api/posts/{id}
// Yazıyı siler. Yazı sahibi VEYA admin silebilir.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.postService.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
