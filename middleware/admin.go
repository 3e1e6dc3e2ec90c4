// Package middleware — AdminMiddleware, admin rolü kontrolü.
//
// AuthMiddleware'den SONRA çalışır — context'te user bilgisi mevcuttur.
// User struct'taki Role alanını kontrol eder.
// admin değilse → 403 Forbidden.
//
// Kullanım:
//
//	authMw.Require(adminMw.Require(http.HandlerFunc(categoryHandler.Create)))
package middleware

import (
	"net/http"

	"github.com/akinalp/gunce/handlers"
	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
)

// AdminMiddleware, admin rolü zorunlu kılan middleware.
type AdminMiddleware struct{}

// NewAdminMiddleware, constructor.
func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// Require, admin rolü zorunlu kılan middleware.
// Context'teki User'ın Role alanı admin değilse → 403 Forbidden.
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if user.Role != models.RoleAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
