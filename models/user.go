// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Veritabanındaki bir collection'daki document'ın Go karşılığıdır.
// Aynı zamanda API'den gelen/giden verilerin şeklini de belirler.
//
// Go'da `json:"username"` gibi tag'ler, struct field'larının JSON'a
// nasıl serialize/deserialize edileceğini belirler.
// `bson:"username"` tag'leri ise MongoDB document'larında kullanılır.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole, kullanıcının yetki seviyesini temsil eder.
// Go'da "type alias" ile string'e özel bir tip veririz —
// bu sayede sadece belirli değerlerin kullanılmasını sağlarız.
type UserRole string

// İzin verilen UserRole değerleri — sabitler (const).
// Go'da enum yoktur, bunun yerine typed constant'lar kullanılır.
const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User, bir kullanıcıyı temsil eder.
// JSON tag'leri API response'larında, bson tag'leri MongoDB'de kullanılır.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"` // json:"-" → API response'a DAHİL ETME (güvenlik!)
	Role         UserRole           `bson:"role" json:"role"`
	IsActive     bool               `bson:"is_active" json:"is_active"` // deaktif hesap giriş yapamaz, token'ı reddedilir
	DisplayName  *string            `bson:"display_name,omitempty" json:"display_name"` // *string = nullable — Go'da nil olabilir
	Bio          *string            `bson:"bio,omitempty" json:"bio"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserPage, admin kullanıcı listesinin sayfalama sonucu.
type UserPage struct {
	Users   []User `json:"users"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasMore bool   `json:"has_more"`
}

// emailRegex, pratik bir e-posta format kontrolü.
// RFC 5322'nin tamamını değil, gerçek hayatta işe yarayan alt kümesini kontrol eder.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmailRegex, e-posta format regex'ini döner (başka paketlerin kullanımı için).
func EmailRegex() *regexp.Regexp {
	return emailRegex
}

// CreateUserRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate, CreateUserRequest'in geçerli olup olmadığını kontrol eder.
// Validation kuralları:
//   - Username: 3-32 karakter, alfanumerik + alt çizgi
//   - Email: geçerli format
//   - Password: minimum 8 karakter
//   - DisplayName: opsiyonel, max 50 karakter
//
// Go'da "method receiver" (r *CreateUserRequest) — bu fonksiyon
// CreateUserRequest struct'ına "bağlı"dır, sadece onun üzerinden çağrılabilir:
//
//	req := &CreateUserRequest{...}
//	err := req.Validate()
func (r *CreateUserRequest) Validate() error {
	// Username kontrolü
	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}

	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	// Email kontrolü
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email address")
	}

	// Password kontrolü
	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	// DisplayName kontrolü (opsiyonel)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 50 {
		return fmt.Errorf("display name must be at most 50 characters")
	}

	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateProfileRequest, profil güncellemesi için.
// Pointer field'lar "gönderilmedi" ile "boş gönderildi"yi ayırt eder:
// nil → dokunma, boş string → temizle.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

// Validate, UpdateProfileRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdateProfileRequest) Validate() error {
	if r.DisplayName != nil {
		*r.DisplayName = strings.TrimSpace(*r.DisplayName)
		if utf8.RuneCountInString(*r.DisplayName) > 50 {
			return fmt.Errorf("display name must be at most 50 characters")
		}
	}
	if r.Bio != nil {
		*r.Bio = strings.TrimSpace(*r.Bio)
		if utf8.RuneCountInString(*r.Bio) > 500 {
			return fmt.Errorf("bio must be at most 500 characters")
		}
	}
	return nil
}

// ChangePasswordRequest, şifre değiştirme isteği.
// Mevcut şifre doğrulanmadan yeni şifre kabul edilmez.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate, ChangePasswordRequest'in geçerli olup olmadığını kontrol eder.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if utf8.RuneCountInString(r.NewPassword) < 8 {
		return fmt.Errorf("new password must be at least 8 characters")
	}
	return nil
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
