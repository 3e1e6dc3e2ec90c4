// Package handlers — UserHandler: kullanıcı yönetimi HTTP endpoint'leri.
//
// Thin handler prensibi: Parse → Service → Response.
// Tüm iş mantığı (kendi hesabını deaktif edememe, session iptali)
// UserService'dedir.
//
// Context'ten user bilgisi almak:
// Auth middleware her protected endpoint'te context'e *models.User ekler.
// Handler'da `r.Context().Value(UserContextKey)` ile alırız.
// Bu bilgi actor (işlemi yapan kişi) olarak service'e iletilir.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/services"
)

// UserHandler, kullanıcı endpoint'lerini yöneten struct.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler, constructor.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfile godoc
// PATCH /api/users/me
// Body: { "display_name": "...", "bio": "..." }
//
// Kullanıcının kendi profilini günceller.
// Başkasının profilini güncelleyemezsin — her zaman context'teki user'ın
// bilgileri güncellenir. Boş string gönderilen alan temizlenir.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// List godoc
// GET /api/users?page=1&limit=20
// Kullanıcıları sayfalı listeler (sadece admin, en yeni kayıt önce).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.userService.List(r.Context(), page, limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Deactivate godoc
// POST /api/users/{id}/deactivate
// Bir hesabı deaktif eder (sadece admin).
//
// Deaktif hesap giriş yapamaz; eldeki access token bir sonraki istekte
// auth middleware'e takılır. Admin kendi hesabını deaktif edemez.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	user, err := h.userService.SetActive(r.Context(), actor, r.PathValue("id"), false)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Activate godoc
// POST /api/users/{id}/activate
// Deaktif bir hesabı yeniden aktif eder (sadece admin).
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	actor, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	user, err := h.userService.SetActive(r.Context(), actor, r.PathValue("id"), true)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}
