// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
package main

import (
	"log"
	"time"

	"github.com/akinalp/gunce/config"
	"github.com/akinalp/gunce/pkg/email"
	"github.com/akinalp/gunce/pkg/ratelimit"
	"github.com/akinalp/gunce/services"
	"github.com/akinalp/gunce/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth     services.AuthService
	Post     services.PostService
	Category services.CategoryService
	User     services.UserService
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

// Login brute-force koruması: IP başına 2 dakikalık pencerede 5 deneme.
const (
	loginMaxAttempts = 5
	loginWindow      = 2 * time.Minute
)

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
//
// hub parametresi EventPublisher interface'i olarak geçer — service'ler
// Hub'ın concrete tipine değil, dar broadcast interface'ine bağımlıdır.
func initServices(repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters) {
	// ─── Email sender ───
	// Resend API key varsa gerçek email gönderilir; yoksa reset linki log'a
	// yazılır — development'ta API key olmadan da şifre sıfırlama test edilir.
	var sender email.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.AppURL)
		log.Printf("[main] email delivery enabled (from=%s)", cfg.Email.From)
	} else {
		sender = email.NewLogSender(cfg.Email.AppURL)
		log.Println("[main] RESEND_API_KEY not set — password reset links will be logged")
	}

	svcs := &Services{
		Auth: services.NewAuthService(
			repos.User, repos.Session, repos.PasswordReset, sender,
			cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
		),
		Post:     services.NewPostService(repos.Post, repos.Category, repos.User, hub),
		Category: services.NewCategoryService(repos.Category, repos.Post, hub),
		User:     services.NewUserService(repos.User, repos.Session),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(loginMaxAttempts, loginWindow),
	}

	return svcs, limiters
}
