// Package repository, veritabanı erişim katmanını tanımlar.
//
// Repository Pattern nedir?
// Veritabanı işlemlerini (CRUD) soyutlayan bir tasarım kalıbıdır.
// Service katmanı doğrudan Mongo sorgusu yazmaz — repository interface'i
// üzerinden çalışır.
//
// Neden interface?
// 1. Test: Fake repository yazarak DB olmadan test edebilirsin
// 2. Esneklik: MongoDB'den başka bir store'a geçmek istersen sadece yeni implementasyon yazarsın
// 3. SOLID (Dependency Inversion): Service, concrete struct'a değil interface'e bağımlı
//
// Go'da interface "implicit"tır — bir struct, interface'deki tüm method'ları
// implement ediyorsa otomatik olarak o interface'i sağlar. Java'daki gibi
// "implements" keyword'üne gerek yok.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// context.Context nedir?
// Go'da goroutine'ler arası iptal sinyali ve deadline taşıyan bir yapıdır.
// HTTP handler bir request aldığında context oluşturur — client bağlantıyı koparırsa
// context iptal olur ve devam eden DB sorgusu da durur. Resource waste'i önler.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByEmail, "şifremi unuttum" akışında kullanılır.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs, post listelerinde yazar bilgisini tek sorguda doldurmak için
	// toplu okuma yapar ($in). Dönen sıra garanti değildir.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	// List, admin kullanıcı listesi için sayfalı okuma yapar — en yeni kayıt
	// önce. İkinci dönüş değeri toplam kullanıcı sayısıdır.
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	// Update, profil alanlarını (display_name, bio) günceller.
	Update(ctx context.Context, user *models.User) error
	// UpdatePassword, kullanıcının şifre hash'ini günceller.
	// AuthService.ChangePassword ve ResetPassword tarafından çağrılır — yeni bcrypt hash alır.
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, newPasswordHash string) error
	// SetActive, hesabı aktif/deaktif eder. Deaktif hesap giriş yapamaz,
	// mevcut token'ları middleware'de reddedilir.
	SetActive(ctx context.Context, userID primitive.ObjectID, active bool) error
	Count(ctx context.Context) (int64, error)
}
