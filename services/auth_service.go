// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme
//   - JWT token oluşturma
//   - Yetki kontrolleri
//   - Slug türetme
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan Mongo sorgusu çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/gunce/models"
	"github.com/akinalp/gunce/pkg"
	"github.com/akinalp/gunce/pkg/email"
	"github.com/akinalp/gunce/repository"
)

// Reset token parametreleri.
const (
	resetTokenExpiry   = 20 * time.Minute // Link'in geçerlilik süresi
	resetTokenCooldown = 90 * time.Second // Aynı kullanıcıya iki istek arası minimum süre
)

// AuthService interface'i — dışarıya açık API.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// ChangePassword, kullanıcının şifresini değiştirir ve TÜM oturumlarını kapatır.
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	// ForgotPassword, şifre sıfırlama emaili gönderir. Cooldown aktifse
	// kalan süreyi saniye cinsinden döner (0 = email gönderildi).
	// Email DB'de yoksa hata DÖNMEZ — enumeration koruması.
	ForgotPassword(ctx context.Context, emailAddr string) (int, error)
	// ResetPassword, email'deki token ile şifreyi sıfırlar.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthTokens, login/register sonrası dönen token çifti.
type AuthTokens struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// authService, AuthService interface'inin implementasyonu.
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	resetRepo   repository.PasswordResetRepository
	sender      email.EmailSender
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.PasswordResetRepository,
	sender email.EmailSender,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		sender:      sender,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
	}
}

// Register, yeni kullanıcı kaydı oluşturur.
//
// İlk kayıt olan kullanıcı otomatik olarak admin rolü alır —
// kurulum sonrası ayrıca bir seed adımına gerek kalmaz.
// Sonraki herkes normal "user" rolüyle başlar.
func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Bcrypt hash (cost=12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. İlk kullanıcı mı? (admin bootstrap)
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	// 4. User oluştur
	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		DisplayName:  displayName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	// 5. Token çifti oluştur
	return s.generateTokens(ctx, user)
}

// Login, kullanıcı girişi yapar.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Kullanıcıyı bul
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// "Kullanıcı yok" ile "şifre yanlış" aynı mesajı döner —
			// username enumeration'ı engeller.
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// Bcrypt şifre karşılaştırması
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	// Deaktif hesap giriş yapamaz — şifre doğru olsa bile.
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

// RefreshToken, süresi dolmuş access token'ı yenilemek için kullanılır.
// Eski session silinir, yenisi oluşturulur (token rotation).
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// TTL index temizliği ~60 sn gecikmeli çalışabilir — süreyi burada da kontrol et.
	if time.Now().After(session.ExpiresAt) {
		if delErr := s.sessionRepo.DeleteByID(ctx, session.ID); delErr != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", delErr)
		}
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to delete old session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	// Hesap bu arada deaktif edilmiş olabilir.
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

// Logout, refresh token'ı iptal eder (session siler).
// Bilinmeyen token sessizce kabul edilir — logout idempotenttir.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

// ValidateAccessToken, JWT access token'ı doğrular ve claims'i döner.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		// Algoritma kontrolü şart: saldırgan header'da "none" veya RS256
		// belirtip imzayı atlatmaya çalışabilir.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// ChangePassword, kullanıcının şifresini değiştirir.
// Başarılı değişimde kullanıcının TÜM oturumları kapatılır —
// çalınmış bir refresh token varsa artık işe yaramaz.
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	req := models.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	if currentPassword == newPassword {
		return fmt.Errorf("%w: new password must be different from current password", pkg.ErrBadRequest)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// ForgotPassword, şifre sıfırlama akışını başlatır.
//
// Dönen int cooldown'dur (saniye): 0 ise email gönderildi, >0 ise
// son istekten bu yana 90 saniye geçmemiş demektir.
//
// Güvenlik notları:
//   - Email DB'de yoksa (0, nil) döner — saldırgan hangi email'lerin
//     kayıtlı olduğunu response'tan anlayamaz.
//   - Token DB'ye SHA256 hash'i ile yazılır, plaintext sadece email'de.
func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) (int, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return 0, nil // enumeration koruması — sessizce başarı
		}
		return 0, err
	}

	// Deaktif hesaba reset emaili gönderilmez (yine sessizce başarı).
	if !user.IsActive {
		return 0, nil
	}

	// Cooldown: son token 90 saniyeden yeni ise tekrar göndermiyoruz.
	if last, err := s.resetRepo.GetLatestByUserID(ctx, user.ID); err == nil {
		elapsed := time.Since(last.CreatedAt)
		if elapsed < resetTokenCooldown {
			return int((resetTokenCooldown - elapsed).Seconds()) + 1, nil
		}
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return 0, err
	}

	// Eski token'ları temizle — aynı anda tek geçerli token olsun.
	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return 0, err
	}

	// 32 byte random token → hex 64 karakter
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return 0, fmt.Errorf("failed to generate reset token: %w", err)
	}
	plainToken := hex.EncodeToString(tokenBytes)

	now := time.Now().UTC()
	record := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashResetToken(plainToken),
		ExpiresAt: now.Add(resetTokenExpiry),
		CreatedAt: now,
	}

	if err := s.resetRepo.Create(ctx, record); err != nil {
		return 0, err
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, plainToken); err != nil {
		// Email gidemedi — token'ı bırakma, kullanıcı tekrar deneyebilsin.
		if delErr := s.resetRepo.DeleteByID(ctx, record.ID); delErr != nil {
			log.Printf("[auth] failed to clean up reset token after send failure: %v", delErr)
		}
		return 0, fmt.Errorf("failed to send reset email: %w", err)
	}

	return 0, nil
}

// ResetPassword, email'deki token ile yeni şifre belirler.
// Token tek kullanımlıktır: başarılı reset sonrası silinir ve
// kullanıcının tüm oturumları kapatılır.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := models.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	record, err := s.resetRepo.GetByTokenHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		if delErr := s.resetRepo.DeleteByID(ctx, record.ID); delErr != nil {
			return fmt.Errorf("failed to delete expired reset token: %w", delErr)
		}
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, record.UserID, string(newHash)); err != nil {
		return err
	}

	if err := s.resetRepo.DeleteByID(ctx, record.ID); err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, record.UserID)
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := time.Now()
	accessClaims := &models.TokenClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gunce",
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshString := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		RefreshToken: refreshString,
		ExpiresAt:    now.Add(s.refreshExp),
		CreatedAt:    now.UTC(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""

	return &AuthTokens{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		User:         *user,
	}, nil
}

// hashResetToken, plaintext reset token'ının DB'de saklanan SHA256 hash'ini üretir.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
