// Package handlers, HTTP request handler'larını içerir.
//
// StatsHandler, public (auth gerektirmeyen) istatistik endpoint'ini yönetir.
// Toplam yazı/kullanıcı/kategori sayılarını ve anlık online kullanıcı
// sayısını döner. Landing page'de gösterilmek üzere tasarlandı.
package handlers

import (
	"net/http"

	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/ws"
)

// StatsResponse, public istatistik endpoint'inin response formatı.
// Yazı sayısı sadece yayınlanmış yazıları kapsar — taslak sayısı
// public endpoint'ten sızdırılmaz.
type StatsResponse struct {
	TotalPosts      int64 `json:"total_posts"`
	TotalUsers      int64 `json:"total_users"`
	TotalCategories int64 `json:"total_categories"`
	OnlineUsers     int   `json:"online_users"`
}

// StatsHandler, istatistik endpoint'ini yöneten handler.
// Repository'lerin Count() metodları ve hub'ın online listesi yeterli —
// ayrı bir service katmanı gerektirmeyecek kadar basit.
type StatsHandler struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	hub          *ws.Hub
}

// NewStatsHandler, constructor. main.go'da wire-up edilir.
func NewStatsHandler(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	hub *ws.Hub,
) *StatsHandler {
	return &StatsHandler{
		postRepo:     postRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		hub:          hub,
	}
}

// GetPublicStats, site istatistiklerini döner.
// Auth gerekmez — landing page'den çağrılır.
//
// GET /api/stats
// Response: { "success": true, "data": { "total_posts": 12, "total_users": 4, ... } }
func (h *StatsHandler) GetPublicStats(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postRepo.Count(r.Context(), true) // true → sadece yayınlanmış
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	users, err := h.userRepo.Count(r.Context())
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	categories, err := h.categoryRepo.Count(r.Context())
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	pkg.JSON(w, http.StatusOK, StatsResponse{
		TotalPosts:      posts,
		TotalUsers:      users,
		TotalCategories: categories,
		OnlineUsers:     len(h.hub.GetOnlineUserIDs()),
	})
}
