// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth:      JWT token doğrulaması (zorunlu)
//   - optional:  Authorization header varsa doğrula, yoksa anonim devam et
//   - authAdmin: auth + admin rol kontrolü
package main

import (
	"fmt"
	"net/http"

	"github.com/akinalp/gunce/middleware"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/services"
	"github.com/akinalp/gunce/static"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Go 1.22+ ServeMux pattern'leri method + path ile eşleşir ve spesifiklik
// kuralına göre önceliklenir: "/api/posts/slug/{slug}" ile "/api/posts/{id}"
// çakışmaz, "/" ise en düşük öncelikli catch-all'dur.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	adminMw := middleware.NewAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	optional := func(handler http.HandlerFunc) http.Handler {
		return authMw.Optional(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(http.HandlerFunc(handler)))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"gunce"}`)
	})

	// Auth — public endpoint'ler (token gerekmez).
	// Logout da public: refresh token body'de gelir ve token'a sahip olmak
	// revoke için yeterlidir — access token süresi dolmuşken de logout çalışır.
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)

	// User — kullanıcının kendi hesabı
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("PATCH /api/users/me", auth(h.User.UpdateProfile))
	mux.Handle("POST /api/users/me/password", auth(h.Auth.ChangePassword))

	// Posts — okuma optional auth ile: anonim ziyaretçi yalnızca yayınlanmış
	// yazıları görür, giriş yapmış yazar kendi taslaklarını da görür.
	// Yazma endpoint'leri login gerektirir; sahiplik kontrolü service'te.
	mux.Handle("GET /api/posts", optional(h.Post.List))
	mux.Handle("GET /api/posts/slug/{slug}", optional(h.Post.GetBySlug))
	mux.Handle("GET /api/posts/{id}", optional(h.Post.GetByID))
	mux.Handle("POST /api/posts", auth(h.Post.Create))
	mux.Handle("PUT /api/posts/{id}", auth(h.Post.Update))
	mux.Handle("DELETE /api/posts/{id}", auth(h.Post.Delete))

	// Categories — okuma herkese açık, CUD admin gerektirir
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/categories/{slug}", h.Category.GetBySlug)
	mux.Handle("POST /api/categories", authAdmin(h.Category.Create))
	mux.Handle("PUT /api/categories/{id}", authAdmin(h.Category.Update))
	mux.Handle("DELETE /api/categories/{id}", authAdmin(h.Category.Delete))

	// Users — admin yönetim endpoint'leri
	mux.Handle("GET /api/users", authAdmin(h.User.List))
	mux.Handle("POST /api/users/{id}/deactivate", authAdmin(h.User.Deactivate))
	mux.Handle("POST /api/users/{id}/activate", authAdmin(h.User.Activate))

	// Stats — public
	mux.HandleFunc("GET /api/stats", h.Stats.GetPublicStats)

	// WebSocket — token query parameter ile authenticate edilir
	//
	// Neden auth middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez.
	// Bu yüzden JWT token URL query parameter olarak gönderilir:
	//   ws://server/api/events?token=JWT_TOKEN
	// WS handler kendi içinde token doğrulaması yapar.
	mux.HandleFunc("GET /api/events", h.WS.HandleConnection)

	// SPA — /api dışındaki her path gömülü frontend build'ine düşer.
	// React Router client-side routing yaptığı için /posts/abc gibi path'ler
	// sunucuda dosya değildir; static.Handler bunları index.html'e yönlendirir.
	mux.Handle("/", static.Handler())
}
