package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session, JWT refresh token oturumunu temsil eder.
//
// Neden refresh token ayrı collection'da?
// Access token kısa ömürlü (15dk) — sık sık yenilenir.
// Refresh token uzun ömürlü (7 gün) — access token yenilemek için kullanılır.
// Refresh token'ları DB'de tutarak:
//   - Çalınan token'ı iptal edebiliriz (revoke)
//   - Kullanıcının tüm oturumlarını görebiliriz
//   - Logout'ta sadece ilgili oturumu silebiliriz
//
// _id burada ObjectID değil uuid string — session'ları dışarıya
// ObjectID formatında göstermeye gerek yok.
type Session struct {
	ID           string             `bson:"_id" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RefreshToken string             `bson:"refresh_token" json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
