// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
// Middleware'lar zincir şeklinde çalışır: Recover → Auth → Admin → Handler
//
// Go'da middleware bir fonksiyondur:
//   func(next http.Handler) http.Handler
//
// "next" parametresi zincirdeki bir sonraki handler'dır.
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Eğer hata varsa next'i çağırmaz → request burada durur.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/handlers"
	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/repository"
	"github.com/akinalp/gunce/services"
)

// AuthMiddleware, JWT token doğrulama middleware'ı.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require, JWT token zorunlu kılan middleware.
// Token yoksa veya geçersizse → 401 Unauthorized.
//
// HTTP header formatı: Authorization: Bearer <token>
//
// Middleware nasıl çalışır?
// 1. "Authorization" header'ını oku
// 2. "Bearer " prefix'ini kaldır → raw token string
// 3. AuthService.ValidateAccessToken() ile doğrula
// 4. Token geçerliyse → kullanıcıyı DB'den getir → context'e ekle → next handler'ı çağır
// 5. Geçersizse → 401 döndür, next ÇAĞIRILMAZ
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		// context.WithValue: mevcut context'e key-value ekler.
		// Downstream handler'lar r.Context().Value(UserContextKey) ile erişir.
		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional, token'ı zorunlu kılmayan auth middleware'ı.
//
// Public yazı endpoint'leri için: anonim ziyaretçi de erişebilir ama
// giriş yapmış kullanıcı token gönderirse kendi taslaklarını görür.
//
// Kural: Header hiç yoksa request anonim devam eder. Header VARSA tam
// doğrulamadan geçer — geçersiz/süresi dolmuş token sessizce anonim
// sayılmaz, 401 döner. Aksi halde "taslaklarım neden görünmüyor" tarzı
// hataların sebebi anlaşılamaz.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r) // Anonim — context'e user eklenmez
			return
		}

		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate, Bearer token'ı doğrular ve kullanıcıyı DB'den yükler.
// Hata durumunda 401 response'unu kendisi yazar ve ok=false döner.
//
// Kullanıcı her istekte DB'den yüklenir — token geçerli olsa bile hesap
// bu arada deaktif edilmiş olabilir. is_active kontrolü deaktivasyonun
// "en geç bir sonraki istekte" etkili olmasını sağlar.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "no token provided")
		return nil, false
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
		return nil, false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.authService.ValidateAccessToken(tokenString)
	if err != nil {
		pkg.Error(w, err)
		return nil, false
	}

	// Claim'deki user id hex string'dir — ObjectID'ye çevrilemiyorsa
	// token bizim ürettiğimiz bir token değildir
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid token claims")
		return nil, false
	}

	user, err := m.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
		return nil, false
	}

	if !user.IsActive {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "account is deactivated")
		return nil, false
	}

	// Password hash'i temizle — context'te taşınmamalı
	user.PasswordHash = ""
	return user, true
}
