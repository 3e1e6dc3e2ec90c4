package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/akinalp/gunce/models"
)

// SessionRepository, JWT refresh token oturumları için interface.
//
// Süresi dolan session'ları expires_at üzerindeki TTL index temizler —
// ayrıca bir DeleteExpired işlemine gerek yoktur. TTL monitor ~60 sn
// aralıkla çalıştığı için service yine de ExpiresAt kontrolü yapar.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID, kullanıcının TÜM oturumlarını kapatır —
	// şifre değişiminde ve hesap deaktivasyonunda çağrılır.
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}
