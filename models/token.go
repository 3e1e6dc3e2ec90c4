package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT token'ın içindeki veriler (payload).
//
// JWT (JSON Web Token) nedir?
// Kullanıcı kimliğini doğrulamak için kullanılan, imzalanmış bir token.
// 3 parçadan oluşur: header.payload.signature
//
// Payload'da kullanıcı ID'si (hex string), username, email ve rol bulunur.
// Server her request'te bu token'ı doğrular — DB'ye gitmeden
// kullanıcının kim olduğunu bilir. Hesap deaktif edilmiş olabilir diye
// middleware yine de güncel kullanıcıyı DB'den yükler.
//
// Bu struct models paketinde tanımlanır çünkü:
// - Birden fazla katman (services, ws, middleware) tarafından kullanılır
// - Circular dependency'yi önler — her katman models'e bağımlı olabilir
type TokenClaims struct {
	UserID   string   `json:"user_id"` // primitive.ObjectID'nin hex hali
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
